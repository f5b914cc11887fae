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

// Package indexer implements C5: the walk/worker pipeline that walks a
// repository, dispatches each file to an internal/adapter (or the document
// chunker), and writes the resulting scope graph into an
// internal/store.Store, with content-hash-based incremental reindexing.
// Each worker writes its own file's rows directly; the Store serializes
// the writes with its mutex.
//
// Grounded on vjache-cie's pkg/ingestion.LocalPipeline: the parallel
// worker-pool shape of parseFilesParallel, the dotted-namespace slog calls
// around each phase, the ProgressCallback contract, and the deterministic
// run-ID derivation (generateRunID) are all adapted here to codescope's
// scope graph instead of the teacher's CozoDB entity set.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kraklabs/codescope/internal/adapter"
	"github.com/kraklabs/codescope/internal/cserr"
	"github.com/kraklabs/codescope/internal/store"
)

// ProgressCallback reports (current, total, phase) as the pipeline runs,
// matching vjache-cie's ProgressCallback contract so a CLI progress bar can
// be wired directly to it (SPEC_FULL §A.4).
type ProgressCallback func(current, total int64, phase string)

// Indexer walks a repository and maintains its scope graph in a Store.
type Indexer struct {
	root         string
	repo         string
	excludeGlobs []string
	maxFileSize  int64
	workers      int

	registry *adapter.Registry
	store    *store.Store
	logger   *slog.Logger

	onProgress ProgressCallback
}

// Option configures an Indexer at construction time.
type Option func(*Indexer)

// WithWorkers overrides the parse worker pool size (default 4, matching
// vjache-cie's parseFilesParallel fallback).
func WithWorkers(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// WithProgress registers a callback invoked during the parse phase.
func WithProgress(cb ProgressCallback) Option {
	return func(ix *Indexer) { ix.onProgress = cb }
}

// New builds an Indexer rooted at root (the repository's filesystem path),
// identified as repo in symbol URIs, persisting into st.
func New(root, repo string, excludeGlobs []string, maxFileSize int64, st *store.Store, logger *slog.Logger, opts ...Option) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Indexer{
		root:         root,
		repo:         repo,
		excludeGlobs: excludeGlobs,
		maxFileSize:  maxFileSize,
		workers:      4,
		registry:     adapter.NewRegistry(),
		store:        st,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// generateRunID derives a deterministic run identifier from the repo name
// and a second-truncated timestamp, in the shape of vjache-cie's
// LocalPipeline.generateRunID (SPEC_FULL §C.4).
func generateRunID(repo string, at time.Time) string {
	rounded := at.Truncate(time.Second)
	base := fmt.Sprintf("run-%s-%d", repo, rounded.Unix())
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:16])
}

// Run walks the repository, reindexes every added or modified file,
// deletes the scope graph for files removed since the last run, and
// returns the run's aggregate statistics.
func (ix *Indexer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := generateRunID(ix.repo, start)
	ix.logger.Info("indexer.run.start", "run_id", runID, "repo", ix.repo)

	files, err := walkRepo(ix.root, ix.excludeGlobs, ix.maxFileSize)
	if err != nil {
		return nil, cserr.New(cserr.IO, "indexer.Run: walk", err)
	}

	knownHashes, err := ix.store.AllFileHashes()
	if err != nil {
		return nil, cserr.New(cserr.Storage, "indexer.Run: load hashes", err)
	}

	seen := make(map[string]bool, len(files))
	metrics := &runMetrics{}

	ix.parseFilesParallel(ctx, files, knownHashes, seen, metrics)

	for path := range knownHashes {
		if ctx.Err() != nil {
			break
		}
		if seen[path] {
			continue
		}
		ix.logger.Info("indexer.file.deleted", "run_id", runID, "path", path)
		if err := ix.store.DeleteFileData(path); err != nil {
			ix.logger.Warn("indexer.file.delete.error", "run_id", runID, "path", path, "err", err)
			metrics.addFile("error")
			continue
		}
		metrics.addFile("deleted")
	}

	result := metrics.snapshot()
	result.RunID = runID
	result.Duration = time.Since(start)
	recordMetrics(result)

	ix.logger.Info("indexer.run.complete",
		"run_id", runID,
		"added", result.Added,
		"modified", result.Modified,
		"unchanged", result.Unchanged,
		"deleted", result.Deleted,
		"errors", result.Errors,
		"symbols", result.Symbols,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return &result, nil
}

// parseFilesParallel dispatches files across a bounded worker pool, in the
// shape of vjache-cie's parseFilesParallel: a jobs channel, a fixed worker
// count, cooperative ctx.Done() cancellation, and per-file progress
// reporting. Small file sets (fewer than 10) run sequentially, matching the
// teacher's own threshold for skipping pool setup overhead.
func (ix *Indexer) parseFilesParallel(ctx context.Context, files []fileInfo, knownHashes map[string]string, seen map[string]bool, metrics *runMetrics) {
	var seenMu sync.Mutex
	markSeen := func(path string) {
		seenMu.Lock()
		seen[path] = true
		seenMu.Unlock()
	}

	total := int64(len(files))
	var progressCount int64
	var progressMu sync.Mutex
	reportProgress := func() {
		progressMu.Lock()
		progressCount++
		current := progressCount
		progressMu.Unlock()
		if ix.onProgress != nil {
			ix.onProgress(current, total, "parsing")
		}
	}

	process := func(f fileInfo) {
		markSeen(f.RelPath)
		ix.processFile(ctx, f, knownHashes, metrics)
		reportProgress()
	}

	workers := ix.workers
	if len(files) < 10 || workers <= 1 {
		for _, f := range files {
			if ctx.Err() != nil {
				return
			}
			process(f)
		}
		return
	}

	jobs := make(chan fileInfo, len(files))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				process(f)
			}
		}()
	}
	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()
}

// processFile reindexes a single file if its content hash changed since
// the last run, or records it unchanged otherwise.
func (ix *Indexer) processFile(_ context.Context, f fileInfo, knownHashes map[string]string, metrics *runMetrics) {
	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		ix.logger.Warn("indexer.file.read.error", "path", f.RelPath, "err", err)
		metrics.addFile("error")
		return
	}

	hash := contentHash(content)
	prevHash, existed := knownHashes[f.RelPath]
	if existed && prevHash == hash {
		metrics.addFile("unchanged")
		return
	}

	// Cleared for new files too: a write interrupted before SetFileHash
	// leaves rows under the path with no hash row to mark it known.
	if err := ix.store.DeleteFileData(f.RelPath); err != nil {
		ix.logger.Warn("indexer.file.delete_stale.error", "path", f.RelPath, "err", err)
		metrics.addFile("error")
		return
	}

	result, err := ix.parseFile(f.RelPath, content)
	if err != nil {
		ix.logger.Warn("indexer.file.parse.error", "path", f.RelPath, "err", err)
		metrics.addFile("error")
		return
	}

	if err := ix.writeResult(result, f.RelPath, hash); err != nil {
		ix.logger.Warn("indexer.file.write.error", "path", f.RelPath, "err", err)
		metrics.addFile("error")
		return
	}

	metrics.addSymbols(len(result.Symbols))
	if existed {
		metrics.addFile("modified")
	} else {
		metrics.addFile("added")
	}
}

// parseFile dispatches to the registered AST adapter for path's extension,
// falling back to the document chunker for anything unrecognized (spec
// §4.3 registry contract).
func (ix *Indexer) parseFile(path string, content []byte) (adapter.Result, error) {
	if !isIndexable(path) {
		return adapter.Result{}, nil
	}
	if a := ix.registry.Lookup(path); a != nil {
		return a.Parse(ix.repo, path, content)
	}
	return adapter.ChunkFile(ix.repo, path, content), nil
}

// writeResult persists one file's scope graph and updates its content hash
// in a single logical unit of work (spec I3 file atomicity: the store's own
// DeleteFileData already transacts the deletion half; the insertion half is
// not transactional, but the hash is written last and processFile clears
// the path's rows before every reparse, so a crash mid-write leaves the
// store re-convergeable on the next run rather than corrupted).
func (ix *Indexer) writeResult(res adapter.Result, path, hash string) error {
	for _, sym := range res.Symbols {
		if err := ix.store.UpsertSymbol(sym); err != nil {
			return err
		}
	}
	for _, e := range res.Edges {
		if err := ix.store.InsertEdge(e); err != nil {
			return err
		}
	}
	for _, ref := range res.References {
		if _, err := ix.store.InsertUnresolvedReference(ref); err != nil {
			return err
		}
	}
	for _, imp := range res.Imports {
		if err := ix.store.InsertImport(imp); err != nil {
			return err
		}
	}
	for _, decl := range res.TypedDecls {
		if err := ix.store.InsertTypedDecl(decl); err != nil {
			return err
		}
	}
	return ix.store.SetFileHash(path, hash)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
