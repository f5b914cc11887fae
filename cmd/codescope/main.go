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

// Package main implements the codescope CLI: a thin client over the
// indexer, linker, and store, in the shape of vjache-cie's cmd/cie.
//
// Usage:
//
//	codescope init                 Create .codescope/project.yaml
//	codescope index                Index the current repository
//	codescope search <query>       Lexical + vector search over symbols
//	codescope stats                Print store statistics
//	codescope resolve              Run the linker against an indexed store
//	codescope trace <symbol>       Callers, callees, or impact-set BFS
//	codescope reset --yes          Delete the local store
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codescope/internal/cliui"
)

// GlobalFlags holds flags that apply to every subcommand, mirroring
// vjache-cie's GlobalFlags struct in cmd/cie/main.go.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Verbose int
	Quiet   bool
}

func main() {
	var (
		configPath = flag.StringP("config", "c", "", "Path to .codescope/project.yaml (default: auto-discover)")
		jsonOutput = flag.Bool("json", false, "Output in JSON format")
		noColor    = flag.Bool("no-color", false, "Disable color output")
		verbose    = flag.CountP("verbose", "v", "Increase verbosity (-v, -vv)")
		quiet      = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)

	// Stop parsing at the first non-flag argument so subcommand flags like
	// "reset --yes" reach their own FlagSet instead of the global one.
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `codescope - persistent semantic code graph

Usage:
  codescope <command> [options]

Commands:
  init       Create .codescope/project.yaml configuration
  index      Index the current repository
  resolve    Run the linker against an already-indexed store
  search     Lexical + vector search over symbols
  stats      Print store statistics
  trace      Callers, callees, or impact-set BFS for a symbol
  reset      Delete the local store (destructive!)

Global options:
  --json          Output in JSON format
  --no-color      Disable color output (respects NO_COLOR)
  -v, --verbose   Increase verbosity
  -q, --quiet     Suppress non-essential output
  -c, --config    Path to .codescope/project.yaml

`)
	}

	flag.Parse()

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	if *quiet && *verbose > 0 {
		fmt.Fprintln(os.Stderr, "Error: cannot use --quiet and --verbose together")
		os.Exit(1)
	}
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor, Verbose: *verbose, Quiet: *quiet}
	cliui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]

	var err error
	switch command {
	case "init":
		err = runInit(cmdArgs, *configPath, globals)
	case "index":
		err = runIndex(cmdArgs, *configPath, globals)
	case "resolve":
		err = runResolve(cmdArgs, *configPath, globals)
	case "search":
		err = runSearch(cmdArgs, *configPath, globals)
	case "stats":
		err = runStats(cmdArgs, *configPath, globals)
	case "trace":
		err = runTrace(cmdArgs, *configPath, globals)
	case "reset":
		err = runReset(cmdArgs, *configPath, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		cliui.Errorf("%v", err)
		os.Exit(1)
	}
}
