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

	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codescope/internal/cliui"
	"github.com/kraklabs/codescope/internal/embedding"
	"github.com/kraklabs/codescope/internal/indexer"
	"github.com/kraklabs/codescope/internal/linker"
)

// runIndex runs the indexer pipeline then the two-stage linker, wiring a
// progress bar to the pipeline's ProgressCallback (spec SPEC_FULL §A.4),
// in the shape of vjache-cie's cmd/cie/index.go.
func runIndex(args []string, configPath string, globals GlobalFlags) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	workers := fs.Int("workers", 0, "Parse worker pool size (default 4)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	proj, err := openProject(configPath)
	if err != nil {
		return err
	}
	defer proj.close()

	var bar *progressbar.ProgressBar
	var opts []indexer.Option
	if !globals.Quiet {
		opts = append(opts, indexer.WithProgress(func(current, total int64, phase string) {
			if bar == nil {
				bar = progressbar.Default(total, phase)
			}
			_ = bar.Set64(current)
		}))
	}
	if *workers > 0 {
		opts = append(opts, indexer.WithWorkers(*workers))
	}

	ix := indexer.New(proj.root, proj.cfg.Project, proj.cfg.Indexing.Exclude, proj.cfg.Indexing.MaxFileSize, proj.st, nil, opts...)
	result, err := ix.Run(context.Background())
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	if !globals.Quiet {
		cliui.Success("Indexed: %d added, %d modified, %d unchanged, %d deleted, %d errors, %d symbols",
			result.Added, result.Modified, result.Unchanged, result.Deleted, result.Errors, result.Symbols)
	}

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
		cliui.Success("Resolved: stage A %d/%d (%d ambiguous, %d external); stage B %d/%d",
			a.Resolved, a.Total, a.Ambiguous, a.External, b.Resolved, b.Total)
	}
	return nil
}
