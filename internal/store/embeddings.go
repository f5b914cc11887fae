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

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"math"
	"sort"

	"github.com/kraklabs/codescope/internal/model"
)

// encodeVector packs a []float32 into a little-endian byte blob for storage,
// avoiding the column-per-dimension explosion a relational schema would
// otherwise force on a vector column (spec §4.2.2).
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}

// CosineSimilarity implements the spec §4.2.3 formula: dot(a,b) / (|a| * |b|),
// returning 0 when either vector is zero-length or zero-magnitude. Exported
// so the linker's Stage B scoring (spec §4.6.2 step 4) shares this exact
// implementation instead of a second copy.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// UpsertEmbedding stores or replaces the symbol-level embedding vector for uri.
func (s *Store) UpsertEmbedding(uri model.SymbolUri, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO embeddings (uri, vector) VALUES (?, ?)
		ON CONFLICT(uri) DO UPDATE SET vector = excluded.vector
	`, uri.String(), encodeVector(vec))
	if err != nil {
		return cserrWrap("UpsertEmbedding", err)
	}
	return nil
}

// GetEmbedding returns the stored vector for uri, if present.
func (s *Store) GetEmbedding(uri model.SymbolUri) ([]float32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf []byte
	err := s.db.QueryRow(`SELECT vector FROM embeddings WHERE uri = ?`, uri.String()).Scan(&buf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, cserrWrap("GetEmbedding", err)
	}
	return decodeVector(buf), true, nil
}

// UpsertCallsiteEmbedding stores the embedding for an unresolved reference's
// call-site context text (spec §4.4's "call site" formatting).
func (s *Store) UpsertCallsiteEmbedding(referenceID int64, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO callsite_embeddings (reference_id, vector) VALUES (?, ?)
		ON CONFLICT(reference_id) DO UPDATE SET vector = excluded.vector
	`, referenceID, encodeVector(vec))
	if err != nil {
		return cserrWrap("UpsertCallsiteEmbedding", err)
	}
	return nil
}

// ScoredSymbol pairs a symbol URI with a similarity or boosted rank score.
type ScoredSymbol struct {
	Uri   model.SymbolUri
	Score float64
}

// SearchByVector returns the topK symbol embeddings most cosine-similar to
// query, each score multiplied by the file-type boost of its path (spec
// §4.2.3's ranking rule, shared with lexical search).
func (s *Store) SearchByVector(query []float32, topK int) ([]ScoredSymbol, error) {
	s.mu.Lock()
	rows, err := s.db.Query(`SELECT e.uri, e.vector, sy.path FROM embeddings e JOIN symbols sy ON sy.uri = e.uri`)
	s.mu.Unlock()
	if err != nil {
		return nil, cserrWrap("SearchByVector", err)
	}
	defer rows.Close()

	var candidates []ScoredSymbol
	for rows.Next() {
		var uriStr, path string
		var buf []byte
		if err := rows.Scan(&uriStr, &buf, &path); err != nil {
			return nil, cserrWrap("SearchByVector", err)
		}
		uri, err := model.Parse(uriStr)
		if err != nil {
			s.logger.Warn("store.embedding.bad_uri", "err", err)
			continue
		}
		sim := CosineSimilarity(query, decodeVector(buf))
		candidates = append(candidates, ScoredSymbol{Uri: uri, Score: sim * boostForPath(path)})
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("SearchByVector", err)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}
