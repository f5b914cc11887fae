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
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kraklabs/codescope/internal/adapter"
)

// fileInfo is one walked file, relative to the repository root.
type fileInfo struct {
	RelPath string
	AbsPath string
	Size    int64
}

// walkRepo enumerates every regular file under root whose relative path
// matches none of excludeGlobs, sorted for deterministic processing order
// (grounded on vjache-cie's LocalPipeline.Run sorting loadResult.Files
// before parsing). Binary extensions are filtered later, at dispatch time,
// so the walk result still reflects exactly what is on disk.
func walkRepo(root string, excludeGlobs []string, maxFileSize int64) ([]fileInfo, error) {
	var files []fileInfo

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(excludeGlobs, rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			return statErr
		}
		if maxFileSize > 0 && info.Size() > maxFileSize {
			return nil
		}

		files = append(files, fileInfo{RelPath: rel, AbsPath: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// matchesAny reports whether rel matches one of globs, per
// github.com/bmatcuk/doublestar/v4's standard `**`-aware glob syntax (the
// project's own exclude list, layered on top of the binary skip list
// consulted separately at dispatch time via adapter.IsBinary).
func matchesAny(globs []string, rel string, isDir bool) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match(g, rel+"/"); ok {
				return true
			}
		}
	}
	return false
}

// isIndexable reports whether the file at rel should be parsed at all:
// not a registry-known binary extension.
func isIndexable(rel string) bool {
	return !adapter.IsBinary(rel)
}
