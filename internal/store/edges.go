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

package store

import "github.com/kraklabs/codescope/internal/model"

// InsertEdge upserts an edge, honoring invariant I1: re-inserting the same
// (from, to, kind) triple never lowers confidence. A later write with lower
// confidence than the stored row is a silent no-op rather than an overwrite,
// mirroring vjache-cie's cie_calls upsert (pkg/ingestion/graph.go).
func (s *Store) InsertEdge(e model.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO edges (from_uri, to_uri, kind, confidence)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(from_uri, to_uri, kind) DO UPDATE SET
			confidence = MAX(confidence, excluded.confidence)
	`, e.From.String(), e.To.String(), string(e.Kind), e.Confidence)
	if err != nil {
		return cserrWrap("InsertEdge", err)
	}
	return nil
}

// GetEdgesFrom returns every edge whose From matches uri.
func (s *Store) GetEdgesFrom(uri model.SymbolUri) ([]model.Edge, error) {
	return s.queryEdges(`WHERE from_uri = ?`, uri.String())
}

// GetEdgesTo returns every edge whose To matches uri.
func (s *Store) GetEdgesTo(uri model.SymbolUri) ([]model.Edge, error) {
	return s.queryEdges(`WHERE to_uri = ?`, uri.String())
}

// GetEdgesByKind returns every edge of the given kind.
func (s *Store) GetEdgesByKind(kind model.EdgeKind) ([]model.Edge, error) {
	return s.queryEdges(`WHERE kind = ?`, string(kind))
}

func (s *Store) queryEdges(where string, arg any) ([]model.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT from_uri, to_uri, kind, confidence FROM edges `+where, arg)
	if err != nil {
		return nil, cserrWrap("queryEdges", err)
	}
	defer rows.Close()

	var out []model.Edge
	for rows.Next() {
		var fromStr, toStr, kindStr string
		var conf float64
		if err := rows.Scan(&fromStr, &toStr, &kindStr, &conf); err != nil {
			return nil, cserrWrap("queryEdges", err)
		}
		from, err := model.Parse(fromStr)
		if err != nil {
			s.logger.Warn("store.edge.bad_uri", "err", err)
			continue
		}
		to, err := model.Parse(toStr)
		if err != nil {
			s.logger.Warn("store.edge.bad_uri", "err", err)
			continue
		}
		out = append(out, model.Edge{From: from, To: to, Kind: model.EdgeKind(kindStr), Confidence: conf})
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("queryEdges", err)
	}
	return out, nil
}
