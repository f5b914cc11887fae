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

	"github.com/kraklabs/codescope/internal/graph"
)

// runTrace answers callers/callees/impact traversal queries over the
// indexed call graph (spec §1 item 3, §9 "Graph traversal (callers /
// callees / impact)").
func runTrace(args []string, configPath string, globals GlobalFlags) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	mode := fs.String("mode", "impact", "Traversal mode: callers, callees, subclasses, superclasses, or impact")
	depth := fs.Int("depth", 3, "Maximum BFS depth for --mode impact")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codescope trace <symbol-name> [options]

Modes:
  callers       Symbols that call the named symbol
  callees       Symbols the named symbol calls
  subclasses    Symbols that inherit from the named symbol
  superclasses  Symbols the named symbol inherits from
  impact        Reverse-dependency BFS (default) out to --depth levels

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("trace requires a symbol name argument")
	}
	name := fs.Arg(0)

	proj, err := openProject(configPath)
	if err != nil {
		return err
	}
	defer proj.close()

	candidates, err := proj.st.FindSymbolsByName(name)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no symbol named %q in the index", name)
	}
	if len(candidates) > 1 && !globals.JSON {
		fmt.Fprintf(os.Stderr, "Multiple symbols named %q; tracing all of them:\n", name)
	}

	w := graph.New(proj.st)

	type traceHit struct {
		Symbol string `json:"symbol"`
		Depth  int    `json:"depth,omitempty"`
	}
	results := map[string][]traceHit{}

	for _, sym := range candidates {
		var hits []traceHit
		switch *mode {
		case "callers":
			related, err := w.Callers(sym.Uri)
			if err != nil {
				return err
			}
			for _, r := range related {
				hits = append(hits, traceHit{Symbol: r.Uri.String()})
			}
		case "callees":
			related, err := w.Callees(sym.Uri)
			if err != nil {
				return err
			}
			for _, r := range related {
				hits = append(hits, traceHit{Symbol: r.Uri.String()})
			}
		case "subclasses":
			related, err := w.Subclasses(sym.Uri)
			if err != nil {
				return err
			}
			for _, r := range related {
				hits = append(hits, traceHit{Symbol: r.Uri.String()})
			}
		case "superclasses":
			related, err := w.Superclasses(sym.Uri)
			if err != nil {
				return err
			}
			for _, r := range related {
				hits = append(hits, traceHit{Symbol: r.Uri.String()})
			}
		case "impact":
			entries, err := w.Impact(sym.Uri, *depth)
			if err != nil {
				return err
			}
			for _, e := range entries {
				hits = append(hits, traceHit{Symbol: e.Symbol.Uri.String(), Depth: e.Depth})
			}
		default:
			return fmt.Errorf("unknown trace mode %q", *mode)
		}
		results[sym.Uri.String()] = hits
	}

	if globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}
	for root, hits := range results {
		fmt.Printf("%s (%s):\n", root, *mode)
		if len(hits) == 0 {
			fmt.Println("  (none)")
			continue
		}
		for _, h := range hits {
			if h.Depth > 0 {
				fmt.Printf("  [depth %d] %s\n", h.Depth, h.Symbol)
			} else {
				fmt.Printf("  %s\n", h.Symbol)
			}
		}
	}
	return nil
}
