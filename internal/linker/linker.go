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

// Package linker implements C6: the two-stage resolver that turns
// UnresolvedReferences into confidence-weighted edges. Stage A is a
// lexical local/import/global linker grounded on vjache-cie's
// CallResolver (pkg/ingestion/resolver.go); Stage B is an embedding-based
// fallback for references Stage A left ambiguous (Stage A marks references
// with no candidate external, and Stage B skips those), using
// internal/embedding to score call sites against cached symbol vectors.
package linker

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kraklabs/codescope/internal/embedding"
	"github.com/kraklabs/codescope/internal/model"
	"github.com/kraklabs/codescope/internal/store"
)

// StageAResult reports Stage A's outcome counts, mirroring vjache-cie's
// cross_package_calls.resolved log line (spec §4.6.1: "resolved, ambiguous,
// external, total").
type StageAResult struct {
	Resolved  int
	Ambiguous int
	External  int
	Total     int
}

// StageBResult reports Stage B's outcome counts.
type StageBResult struct {
	Resolved int
	External int
	Total    int
}

// Linker runs both resolver stages against a Store. repoRoot locates
// source files on disk so Stage B can read call-site context windows.
type Linker struct {
	store    *store.Store
	engine   *embedding.Engine
	repoRoot string
	logger   *slog.Logger

	threshold float64
	batchSize int
	topK      int
}

// Option configures a Linker at construction time.
type Option func(*Linker)

func WithThreshold(t float64) Option { return func(l *Linker) { l.threshold = t } }
func WithBatchSize(n int) Option     { return func(l *Linker) { l.batchSize = n } }
func WithTopK(n int) Option          { return func(l *Linker) { l.topK = n } }

// New builds a Linker. threshold/batchSize/topK default to the spec's
// canonical Stage B parameters (0.6, 32, 5) when zero-valued options are
// not supplied.
func New(st *store.Store, engine *embedding.Engine, repoRoot string, logger *slog.Logger, opts ...Option) *Linker {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Linker{
		store:     st,
		engine:    engine,
		repoRoot:  repoRoot,
		logger:    logger,
		threshold: 0.6,
		batchSize: 32,
		topK:      5,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes Stage A followed by Stage B, honoring the ordering
// guarantee of spec §5 ("within the resolver, Stage A precedes Stage B").
func (l *Linker) Run(ctx context.Context) (StageAResult, StageBResult, error) {
	a, err := l.RunStageA(ctx)
	if err != nil {
		return a, StageBResult{}, err
	}
	b, err := l.RunStageB(ctx)
	return a, b, err
}

// pendingReferences loads every unresolved reference not yet marked
// external, the working set for both stages.
func (l *Linker) pendingReferences() ([]model.UnresolvedReference, error) {
	all, err := l.store.FindUnresolvedReferences()
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, ref := range all {
		if !ref.IsExternal {
			out = append(out, ref)
		}
	}
	return out, nil
}

// readLines returns the 1-indexed lines [from, to] of path, clipped to the
// file's actual length, for Stage B's call-site context window (spec
// §4.6.2 step 2).
func (l *Linker) readLines(path string, from, to int) string {
	full := path
	if l.repoRoot != "" {
		full = filepath.Join(l.repoRoot, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	if from < 1 {
		from = 1
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from > to {
		return ""
	}
	return strings.Join(lines[from-1:to], "\n")
}
