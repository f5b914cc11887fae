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
)

// GetFileHash returns the last-indexed content hash for path, used by the
// indexer's delta scan to classify a file as unchanged/modified/added.
func (s *Store) GetFileHash(path string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM file_hash WHERE path = ?`, path).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, cserrWrap("GetFileHash", err)
	}
	return hash, true, nil
}

// SetFileHash records path's content hash after a successful (re)index.
func (s *Store) SetFileHash(path, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO file_hash (path, hash) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash
	`, path, hash)
	if err != nil {
		return cserrWrap("SetFileHash", err)
	}
	return nil
}

// AllFileHashes returns every tracked path and its content hash, used by the
// indexer's deletion sweep to find files that disappeared from the project.
func (s *Store) AllFileHashes() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT path, hash FROM file_hash`)
	if err != nil {
		return nil, cserrWrap("AllFileHashes", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, cserrWrap("AllFileHashes", err)
		}
		out[path] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, cserrWrap("AllFileHashes", err)
	}
	return out, nil
}
