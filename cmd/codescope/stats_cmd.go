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
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// runStats prints row counts for every relation in the store (spec
// SPEC_FULL §A.4 "codescope stats").
func runStats(args []string, configPath string, globals GlobalFlags) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	proj, err := openProject(configPath)
	if err != nil {
		return err
	}
	defer proj.close()

	st, err := proj.st.Stats()
	if err != nil {
		return err
	}

	if globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(st)
	}

	fmt.Printf("Files:                  %d\n", st.Files)
	fmt.Printf("Symbols:                %d\n", st.Symbols)
	fmt.Printf("Edges:                  %d\n", st.Edges)
	fmt.Printf("Imports:                %d\n", st.Imports)
	fmt.Printf("Embeddings:             %d\n", st.Embeddings)
	fmt.Printf("Call-site embeddings:   %d\n", st.CallsiteEmbeddings)
	fmt.Printf("Unresolved references:  %d\n", st.UnresolvedReferences)
	fmt.Printf("Ambiguous references:   %d\n", st.AmbiguousReferences)
	return nil
}
