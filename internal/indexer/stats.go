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

package indexer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result summarizes one indexing run, mirroring the counters vjache-cie's
// IngestionResult reports (files/functions/errors/durations), narrowed to
// the per-run statistics named in SPEC_FULL §C.3.
type Result struct {
	RunID string

	Added     int
	Modified  int
	Unchanged int
	Deleted   int
	Errors    int
	Symbols   int

	Duration time.Duration
}

// runMetrics is the mutable counter set a run accumulates under lock, then
// drains into both a Result and the package's Prometheus collectors.
type runMetrics struct {
	mu sync.Mutex
	Result
}

func (m *runMetrics) addFile(delta string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch delta {
	case "added":
		m.Added++
	case "modified":
		m.Modified++
	case "unchanged":
		m.Unchanged++
	case "deleted":
		m.Deleted++
	case "error":
		m.Errors++
	}
}

func (m *runMetrics) addSymbols(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Symbols += n
}

func (m *runMetrics) snapshot() Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Result
}

// Prometheus collectors holding the §4.5 aggregate counters. Registered
// against the default registry in init(), matching vjache-cie's
// package-level metric vars (pkg/storage has the same pattern for its own
// counters); no codescope command serves or reads them.
var (
	filesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codescope",
		Subsystem: "indexer",
		Name:      "files_processed_total",
		Help:      "Files processed by the indexer, labeled by outcome.",
	}, []string{"outcome"})

	symbolsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "codescope",
		Subsystem: "indexer",
		Name:      "symbols_indexed_total",
		Help:      "Symbols written to the store across all runs.",
	})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "codescope",
		Subsystem: "indexer",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of a full indexing run.",
	})
)

func init() {
	prometheus.MustRegister(filesProcessed, symbolsIndexed, runDuration)
}

func recordMetrics(r Result) {
	filesProcessed.WithLabelValues("added").Add(float64(r.Added))
	filesProcessed.WithLabelValues("modified").Add(float64(r.Modified))
	filesProcessed.WithLabelValues("unchanged").Add(float64(r.Unchanged))
	filesProcessed.WithLabelValues("deleted").Add(float64(r.Deleted))
	filesProcessed.WithLabelValues("error").Add(float64(r.Errors))
	symbolsIndexed.Add(float64(r.Symbols))
	runDuration.Observe(r.Duration.Seconds())
}
