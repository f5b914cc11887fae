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

// runInit creates .codescope/project.yaml for the current directory,
// refusing to overwrite an existing one unless --force is given (spec
// SPEC_FULL §A.4 "init (writes the project config)").
func runInit(args []string, _ string, globals GlobalFlags) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	projectName := fs.String("project", "", "Project name (default: directory name)")
	provider := fs.String("embedding-provider", "", "Embedding provider: mock or ollama")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	path := config.ConfigPath(dir)
	if _, statErr := os.Stat(path); statErr == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	name := *projectName
	if name == "" {
		name = filepath.Base(dir)
	}

	cfg := config.DefaultConfig(name)
	if *provider != "" {
		cfg.Embedding.Provider = *provider
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	if !globals.Quiet {
		cliui.Success("Created %s", path)
	}
	return nil
}
