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
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codescope/internal/cliui"
	"github.com/kraklabs/codescope/internal/embedding"
	"github.com/kraklabs/codescope/internal/linker"
)

// runResolve runs only the two-stage linker against an already-indexed
// store, without re-walking or re-parsing the repository (spec SPEC_FULL
// §4.6 "resolve" as a standalone operation, e.g. after changing the
// resolver threshold in project.yaml).
func runResolve(args []string, configPath string, globals GlobalFlags) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	proj, err := openProject(configPath)
	if err != nil {
		return err
	}
	defer proj.close()

	provider, err := proj.embeddingProvider()
	if err != nil {
		return err
	}

	lk := linker.New(proj.st, embedding.New(provider), proj.root, nil,
		linker.WithThreshold(proj.cfg.Resolver.Threshold),
		linker.WithBatchSize(proj.cfg.Resolver.BatchSize),
		linker.WithTopK(proj.cfg.Resolver.TopK),
	)
	a, b, err := lk.Run(context.Background())
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	if !globals.Quiet {
		cliui.Success("Stage A: %d/%d resolved (%d ambiguous, %d external)", a.Resolved, a.Total, a.Ambiguous, a.External)
		cliui.Success("Stage B: %d/%d resolved", b.Resolved, b.Total)
	}
	return nil
}
