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

// Package store implements C2 of the spec: the persistent graph store.
//
// It is grounded on vjache-cie's storage.EmbeddedBackend (pkg/storage/embedded.go),
// which wraps a single embedded database connection behind a mutex and
// exposes Query/Execute. Here the backend is modernc.org/sqlite (a
// cgo-free, pure-Go SQLite driver) rather than CozoDB — see DESIGN.md for
// why the teacher's own CozoDB binding was not wired. The eight logical
// relations of spec §3/§4.2 map onto the DDL in schema.go.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kraklabs/codescope/internal/cserr"
	_ "modernc.org/sqlite"
)

func cserrWrap(op string, err error) error {
	return cserr.New(cserr.Storage, op, err)
}

// Store is a single serialized connection to the codescope graph database.
// Concurrent readers are allowed by the driver; writes are serialized with
// mu, matching spec §4.2's "a single serialized connection suffices".
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// Open opens (creating if necessary) a codescope store at path. Pass ":memory:"
// for an ephemeral in-process database, as used by the test suite.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	// A single writer connection avoids SQLITE_BUSY under the Store's
	// mutex-serialized write model; readers share the same pool since sqlite
	// handles concurrent reads against one WAL-mode file.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		logger.Warn("store.wal.unavailable", "err", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store.Open: apply schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats returns row counts per logical relation (spec §6 Read API).
type Stats struct {
	Symbols                int64
	Edges                  int64
	Embeddings             int64
	CallsiteEmbeddings     int64
	UnresolvedReferences   int64
	Imports                int64
	AmbiguousReferences    int64
	Files                  int64
}

func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	rows := []struct {
		table string
		dest  *int64
	}{
		{"symbols", &st.Symbols},
		{"edges", &st.Edges},
		{"embeddings", &st.Embeddings},
		{"callsite_embeddings", &st.CallsiteEmbeddings},
		{"unresolved_references", &st.UnresolvedReferences},
		{"imports", &st.Imports},
		{"ambiguous_references", &st.AmbiguousReferences},
		{"file_hash", &st.Files},
	}
	for _, r := range rows {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + r.table).Scan(r.dest); err != nil {
			return Stats{}, fmt.Errorf("store.Stats: count %s: %w", r.table, err)
		}
	}
	return st, nil
}
