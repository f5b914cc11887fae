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
	"errors"

	"github.com/kraklabs/codescope/internal/model"
)

// InsertTypedDecl records a field or parameter's declared type name, feeding
// the linker's interface-dispatch lookup (spec SPEC_FULL §C.1).
func (s *Store) InsertTypedDecl(d model.TypedDecl) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO typed_decls (file_path, var_name, type_name, line) VALUES (?, ?, ?, ?)
	`, d.FilePath, d.VarName, d.TypeName, d.Line)
	if err != nil {
		return cserrWrap("InsertTypedDecl", err)
	}
	return nil
}

// FindDeclaredType returns the most recently declared type name for varName
// within path, or ok=false when no declaration was recorded there.
func (s *Store) FindDeclaredType(path, varName string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var typeName string
	err := s.db.QueryRow(`
		SELECT type_name FROM typed_decls
		WHERE file_path = ? AND var_name = ?
		ORDER BY line DESC LIMIT 1
	`, path, varName).Scan(&typeName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, cserrWrap("FindDeclaredType", err)
	}
	return typeName, true, nil
}
