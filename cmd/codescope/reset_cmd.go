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
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codescope/internal/cliui"
	"github.com/kraklabs/codescope/internal/config"
)

// runReset deletes the local store, requiring --yes to confirm the
// destructive operation (grounded on vjache-cie's cmd/cie/reset.go).
func runReset(args []string, configPath string, globals GlobalFlags) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm the reset (required)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codescope reset --yes

Deletes the local store (symbols, edges, embeddings, unresolved
references). Configuration (.codescope/project.yaml) is not touched;
run 'codescope index' afterward to rebuild.
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		return fmt.Errorf("confirmation required: run 'codescope reset --yes' to confirm")
	}

	if configPath == "" {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		found, err := config.Find(dir)
		if err != nil {
			return fmt.Errorf("%w (run 'codescope init' first)", err)
		}
		configPath = found
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	root := filepath.Dir(filepath.Dir(configPath))
	storePath := cfg.Store.Path
	if !filepath.IsAbs(storePath) {
		storePath = filepath.Join(root, storePath)
	}

	if err := os.Remove(storePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove store: %w", err)
	}

	if !globals.Quiet {
		cliui.Success("Removed %s", storePath)
	}
	return nil
}
