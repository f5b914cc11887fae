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
	"sort"
	"strings"

	"github.com/kraklabs/codescope/internal/model"
)

// SearchContent implements the spec §4.2.3 lexical search: every whitespace
// token of query must appear (case-insensitively) in a symbol's name,
// content, or doc for it to match; matches are ranked by the same file-type
// boost vector search uses, then by name length as a tie-breaker favoring
// more specific (shorter) identifiers.
func (s *Store) SearchContent(query string, kind model.SymbolKind, topK int) ([]ScoredSymbol, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	rows, err := s.db.Query(`SELECT uri, kind, name, path, content, doc FROM symbols`)
	s.mu.Unlock()
	if err != nil {
		return nil, cserrWrap("SearchContent", err)
	}
	defer rows.Close()

	var out []ScoredSymbol
	for rows.Next() {
		var uriStr, kindStr, name, path, content, doc string
		if err := rows.Scan(&uriStr, &kindStr, &name, &path, &content, &doc); err != nil {
			return nil, cserrWrap("SearchContent", err)
		}
		if kind != "" && model.SymbolKind(kindStr) != kind {
			continue
		}
		haystack := strings.ToLower(name + " " + content + " " + doc)
		if !matchesAllTokens(haystack, tokens) {
			continue
		}
		uri, err := model.Parse(uriStr)
		if err != nil {
			s.logger.Warn("store.search.bad_uri", "err", err)
			continue
		}
		out = append(out, ScoredSymbol{Uri: uri, Score: boostForPath(path)})
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("SearchContent", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return len(out[i].Uri.Name) < len(out[j].Uri.Name)
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func matchesAllTokens(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}
