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

	"github.com/kraklabs/codescope/internal/model"
)

// UpsertSymbol replaces the row for s.Uri, atomically per call.
func (s *Store) UpsertSymbol(sym model.Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO symbols (uri, kind, name, path, line_start, line_end, doc, signature, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uri) DO UPDATE SET
			kind=excluded.kind, name=excluded.name, path=excluded.path,
			line_start=excluded.line_start, line_end=excluded.line_end,
			doc=excluded.doc, signature=excluded.signature, content=excluded.content
	`, sym.Uri.String(), string(sym.Kind), sym.Name, sym.Path, sym.LineStart, sym.LineEnd, sym.Doc, sym.Signature, sym.Content)
	if err != nil {
		return cserrWrap("UpsertSymbol", err)
	}
	return nil
}

// GetSymbol returns the symbol at uri, or (Symbol{}, false, nil) if absent
// (spec §7: SymbolNotFound is reported as an empty/absent result, never a panic).
func (s *Store) GetSymbol(uri model.SymbolUri) (model.Symbol, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getSymbolLocked(uri.String())
}

func (s *Store) getSymbolLocked(uriStr string) (model.Symbol, bool, error) {
	row := s.db.QueryRow(`SELECT uri, kind, name, path, line_start, line_end, doc, signature, content FROM symbols WHERE uri = ?`, uriStr)
	sym, err := scanSymbol(row)
	if err == sql.ErrNoRows {
		return model.Symbol{}, false, nil
	}
	if err != nil {
		return model.Symbol{}, false, cserrWrap("GetSymbol", err)
	}
	return sym, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSymbol(row rowScanner) (model.Symbol, error) {
	var uriStr, kindStr string
	var sym model.Symbol
	if err := row.Scan(&uriStr, &kindStr, &sym.Name, &sym.Path, &sym.LineStart, &sym.LineEnd, &sym.Doc, &sym.Signature, &sym.Content); err != nil {
		return model.Symbol{}, err
	}
	uri, err := model.Parse(uriStr)
	if err != nil {
		return model.Symbol{}, err
	}
	sym.Uri = uri
	sym.Kind = model.SymbolKind(kindStr)
	return sym, nil
}

// FindSymbolsInFile returns every symbol whose path equals path.
func (s *Store) FindSymbolsInFile(path string) ([]model.Symbol, error) {
	return s.querySymbols(`WHERE path = ?`, path)
}

// FindSymbolsByName returns every symbol whose name equals name.
func (s *Store) FindSymbolsByName(name string) ([]model.Symbol, error) {
	return s.querySymbols(`WHERE name = ?`, name)
}

// FindSymbolsByKind returns every symbol of the given kind.
func (s *Store) FindSymbolsByKind(kind model.SymbolKind) ([]model.Symbol, error) {
	return s.querySymbols(`WHERE kind = ?`, string(kind))
}

func (s *Store) querySymbols(where string, arg any) ([]model.Symbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT uri, kind, name, path, line_start, line_end, doc, signature, content FROM symbols `+where, arg)
	if err != nil {
		return nil, cserrWrap("querySymbols", err)
	}
	defer rows.Close()

	var out []model.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			// A malformed persisted URI is logged and skipped (spec §4.6.3),
			// not fatal to the rest of the scan.
			s.logger.Warn("store.symbol.bad_uri", "err", err)
			continue
		}
		out = append(out, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("querySymbols", err)
	}
	return out, nil
}

// DeleteFileData removes every row describing path, atomically, across all
// relations: symbols, their incoming and outgoing edges, embeddings,
// unresolved references, imports, typed declarations, ambiguous rows, and
// the file-hash row (spec invariants I2/I3).
func (s *Store) DeleteFileData(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return cserrWrap("DeleteFileData", err)
	}
	defer tx.Rollback() //nolint:errcheck

	uriRows, err := tx.Query(`SELECT uri FROM symbols WHERE path = ?`, path)
	if err != nil {
		return cserrWrap("DeleteFileData", err)
	}
	var uris []string
	for uriRows.Next() {
		var u string
		if err := uriRows.Scan(&u); err != nil {
			uriRows.Close()
			return cserrWrap("DeleteFileData", err)
		}
		uris = append(uris, u)
	}
	uriRows.Close()

	for _, u := range uris {
		if _, err := tx.Exec(`DELETE FROM edges WHERE from_uri = ? OR to_uri = ?`, u, u); err != nil {
			return cserrWrap("DeleteFileData", err)
		}
		if _, err := tx.Exec(`DELETE FROM embeddings WHERE uri = ?`, u); err != nil {
			return cserrWrap("DeleteFileData", err)
		}
	}

	refIDRows, err := tx.Query(`SELECT id FROM unresolved_references WHERE file_path = ?`, path)
	if err != nil {
		return cserrWrap("DeleteFileData", err)
	}
	var refIDs []int64
	for refIDRows.Next() {
		var id int64
		if err := refIDRows.Scan(&id); err != nil {
			refIDRows.Close()
			return cserrWrap("DeleteFileData", err)
		}
		refIDs = append(refIDs, id)
	}
	refIDRows.Close()

	for _, id := range refIDs {
		if _, err := tx.Exec(`DELETE FROM ambiguous_references WHERE reference_id = ?`, id); err != nil {
			return cserrWrap("DeleteFileData", err)
		}
		if _, err := tx.Exec(`DELETE FROM callsite_embeddings WHERE reference_id = ?`, id); err != nil {
			return cserrWrap("DeleteFileData", err)
		}
	}

	stmts := []string{
		`DELETE FROM symbols WHERE path = ?`,
		`DELETE FROM unresolved_references WHERE file_path = ?`,
		`DELETE FROM imports WHERE file_path = ?`,
		`DELETE FROM typed_decls WHERE file_path = ?`,
		`DELETE FROM file_hash WHERE path = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, path); err != nil {
			return cserrWrap("DeleteFileData", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return cserrWrap("DeleteFileData", err)
	}
	return nil
}
