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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkRepoSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {}")
	writeFile(t, root, "src/app.go", goSample)

	files, err := walkRepo(root, []string{"node_modules/**"}, 0)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.Contains(t, rels, "src/app.go")
	assert.NotContains(t, rels, "node_modules/pkg/index.js")
}

func TestWalkRepoSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.go", goSample)
	writeFile(t, root, "big.go", goSample+string(make([]byte, 2000)))

	files, err := walkRepo(root, nil, 100)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.Contains(t, rels, "small.go")
	assert.NotContains(t, rels, "big.go")
}

func TestWalkRepoIsSortedDeterministically(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.go", goSample)
	writeFile(t, root, "a.go", goSample)

	files, err := walkRepo(root, nil, 0)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].RelPath)
	assert.Equal(t, "z.go", files[1].RelPath)
}
