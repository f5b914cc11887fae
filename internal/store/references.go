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

// InsertUnresolvedReference records a call/inherits site emitted by an
// adapter, pending resolution by the linker, returning its assigned row id.
func (s *Store) InsertUnresolvedReference(ref model.UnresolvedReference) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO unresolved_references (from_uri, name, receiver, file_path, line, ref_kind, is_external)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ref.FromUri.String(), ref.Name, ref.Receiver, ref.FilePath, ref.Line, string(ref.RefKind), boolToInt(ref.IsExternal))
	if err != nil {
		return 0, cserrWrap("InsertUnresolvedReference", err)
	}
	return res.LastInsertId()
}

// FindUnresolvedReferences returns every stored reference, including those
// already marked external; the linker filters out the external ones before
// running either stage.
func (s *Store) FindUnresolvedReferences() ([]model.UnresolvedReference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, from_uri, name, receiver, file_path, line, ref_kind, is_external FROM unresolved_references`)
	if err != nil {
		return nil, cserrWrap("FindUnresolvedReferences", err)
	}
	defer rows.Close()

	var out []model.UnresolvedReference
	for rows.Next() {
		var ref model.UnresolvedReference
		var fromStr, refKindStr string
		var isExternal int
		if err := rows.Scan(&ref.ID, &fromStr, &ref.Name, &ref.Receiver, &ref.FilePath, &ref.Line, &refKindStr, &isExternal); err != nil {
			return nil, cserrWrap("FindUnresolvedReferences", err)
		}
		from, err := model.Parse(fromStr)
		if err != nil {
			s.logger.Warn("store.unresolved.bad_uri", "err", err)
			continue
		}
		ref.FromUri = from
		ref.RefKind = model.RefKind(refKindStr)
		ref.IsExternal = isExternal != 0
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("FindUnresolvedReferences", err)
	}
	return out, nil
}

// ResolveReference deletes a reference once Stage A or Stage B has bound it
// to a target (the resolution itself is persisted as an edge by the caller).
func (s *Store) ResolveReference(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM unresolved_references WHERE id = ?`, id); err != nil {
		return cserrWrap("ResolveReference", err)
	}
	if _, err := s.db.Exec(`DELETE FROM ambiguous_references WHERE reference_id = ?`, id); err != nil {
		return cserrWrap("ResolveReference", err)
	}
	if _, err := s.db.Exec(`DELETE FROM callsite_embeddings WHERE reference_id = ?`, id); err != nil {
		return cserrWrap("ResolveReference", err)
	}
	return nil
}

// MarkReferenceExternal flags a reference as exhausted: neither lexical nor
// semantic resolution produced a match, so later resolver runs skip it
// (spec §4.6.1 "External" outcome).
func (s *Store) MarkReferenceExternal(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`UPDATE unresolved_references SET is_external = 1 WHERE id = ?`, id); err != nil {
		return cserrWrap("MarkReferenceExternal", err)
	}
	return nil
}

// InsertImport records one import/use statement for a file.
func (s *Store) InsertImport(imp model.Import) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO imports (file_path, target_namespace, alias, line)
		VALUES (?, ?, ?, ?)
	`, imp.FilePath, imp.TargetNamespace, imp.Alias, imp.Line)
	if err != nil {
		return cserrWrap("InsertImport", err)
	}
	return nil
}

// FindImportsInFile returns every import statement recorded for path.
func (s *Store) FindImportsInFile(path string) ([]model.Import, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, file_path, target_namespace, alias, line FROM imports WHERE file_path = ?`, path)
	if err != nil {
		return nil, cserrWrap("FindImportsInFile", err)
	}
	defer rows.Close()

	var out []model.Import
	for rows.Next() {
		var imp model.Import
		if err := rows.Scan(&imp.ID, &imp.FilePath, &imp.TargetNamespace, &imp.Alias, &imp.Line); err != nil {
			return nil, cserrWrap("FindImportsInFile", err)
		}
		out = append(out, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("FindImportsInFile", err)
	}
	return out, nil
}

// InsertAmbiguousReference records one candidate of a reference that Stage A
// matched to more than one symbol (written with score 0.0).
func (s *Store) InsertAmbiguousReference(a model.AmbiguousReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO ambiguous_references (reference_id, candidate_uri, score)
		VALUES (?, ?, ?)
		ON CONFLICT(reference_id, candidate_uri) DO UPDATE SET score = excluded.score
	`, a.ReferenceID, a.CandidateUri.String(), a.Score)
	if err != nil {
		return cserrWrap("InsertAmbiguousReference", err)
	}
	return nil
}

// FindAmbiguousCandidates returns the recorded candidates for referenceID,
// ordered by descending score.
func (s *Store) FindAmbiguousCandidates(referenceID int64) ([]model.AmbiguousReference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT reference_id, candidate_uri, score FROM ambiguous_references WHERE reference_id = ? ORDER BY score DESC`, referenceID)
	if err != nil {
		return nil, cserrWrap("FindAmbiguousCandidates", err)
	}
	defer rows.Close()

	var out []model.AmbiguousReference
	for rows.Next() {
		var a model.AmbiguousReference
		var uriStr string
		if err := rows.Scan(&a.ReferenceID, &uriStr, &a.Score); err != nil {
			return nil, cserrWrap("FindAmbiguousCandidates", err)
		}
		uri, err := model.Parse(uriStr)
		if err != nil {
			s.logger.Warn("store.ambiguous.bad_uri", "err", err)
			continue
		}
		a.CandidateUri = uri
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("FindAmbiguousCandidates", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
