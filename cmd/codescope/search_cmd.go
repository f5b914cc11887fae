// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codescope/internal/embedding"
	"github.com/kraklabs/codescope/internal/model"
	"github.com/kraklabs/codescope/internal/store"
)

// runSearch dispatches a lexical or vector query over indexed symbols (spec
// SPEC_FULL §4.2.3 ranking rule), printing plain text or JSON.
func runSearch(args []string, configPath string, globals GlobalFlags) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	kind := fs.String("kind", "", "Restrict to a symbol kind (callable, container, ...)")
	topK := fs.Int("top", 10, "Maximum results to return")
	vector := fs.Bool("vector", false, "Use semantic vector search instead of lexical")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("search requires a query argument")
	}
	query := strings.Join(fs.Args(), " ")

	proj, err := openProject(configPath)
	if err != nil {
		return err
	}
	defer proj.close()

	var results []store.ScoredSymbol
	if *vector {
		provider, err := proj.embeddingProvider()
		if err != nil {
			return err
		}
		engine := embedding.New(provider)
		vec, err := engine.EmbedQuery(context.Background(), query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		results, err = proj.st.SearchByVector(vec, *topK)
		if err != nil {
			return err
		}
	} else {
		results, err = proj.st.SearchContent(query, model.SymbolKind(*kind), *topK)
		if err != nil {
			return err
		}
	}

	if globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%.3f  %s\n", r.Score, r.Uri.String())
	}
	return nil
}
