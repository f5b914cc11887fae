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

import "strings"

// boostForPath implements the spec §4.2.3 file-type boost table, applied to
// both lexical and vector search ranking. The path-substring rules (vendored
// trees, build output, a bare README) override extension matching, since a
// vendored .js file shouldn't earn the source-code boost just because of its
// suffix; extension matching is the fallback once those are ruled out.
func boostForPath(path string) float64 {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "node_modules") || strings.Contains(lower, "target/"):
		return 0.50
	case strings.Contains(lower, "readme"):
		return 0.90
	case hasAnySuffix(lower, ".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".rb", ".rs", ".c", ".h", ".cc", ".cpp", ".hpp"):
		return 1.20
	case hasAnySuffix(lower, ".md", ".rst", ".txt", ".adoc"):
		return 0.90
	case hasAnySuffix(lower, ".yaml", ".yml", ".json", ".toml", ".ini", ".cfg", ".conf"):
		return 0.70
	case hasAnySuffix(lower, ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".lock", ".sum"):
		return 0.50
	default:
		return 1.00
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
