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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codescope/internal/store"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

const goSample = `package sample

func Greet() string {
	return "hi"
}
`

func TestRunIndexesNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", goSample)

	st := openTestStore(t)
	ix := New(root, "sample", nil, 0, st, nil)

	result, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Zero(t, result.Modified)
	assert.Greater(t, result.Symbols, 0)

	syms, err := st.FindSymbolsInFile("main.go")
	require.NoError(t, err)
	assert.NotEmpty(t, syms)
}

func TestRunIsIdempotentOnUnchangedContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", goSample)

	st := openTestStore(t)
	ix := New(root, "sample", nil, 0, st, nil)

	_, err := ix.Run(context.Background())
	require.NoError(t, err)

	result, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unchanged)
	assert.Zero(t, result.Added)
	assert.Zero(t, result.Modified)
}

func TestRunDetectsModifiedContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", goSample)

	st := openTestStore(t)
	ix := New(root, "sample", nil, 0, st, nil)
	_, err := ix.Run(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "main.go", goSample+"\nfunc Bye() string { return \"bye\" }\n")
	result, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Modified)

	syms, err := st.FindSymbolsInFile("main.go")
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, s := range syms {
		names[s.Name] = true
	}
	assert.True(t, names["Bye"])
}

func TestRunSweepsDeletedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", goSample)

	st := openTestStore(t)
	ix := New(root, "sample", nil, 0, st, nil)
	_, err := ix.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "main.go")))
	result, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	syms, err := st.FindSymbolsInFile("main.go")
	require.NoError(t, err)
	assert.Empty(t, syms)
}

func TestRunHonorsExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "vendor/lib.go", goSample)
	writeFile(t, root, "main.go", goSample)

	st := openTestStore(t)
	ix := New(root, "sample", []string{"vendor/**"}, 0, st, nil)
	result, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)

	syms, err := st.FindSymbolsInFile("vendor/lib.go")
	require.NoError(t, err)
	assert.Empty(t, syms)
}

func TestRunReportsProgress(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", goSample)
	writeFile(t, root, "b.go", goSample)

	var calls int
	st := openTestStore(t)
	ix := New(root, "sample", nil, 0, st, nil, WithProgress(func(current, total int64, phase string) {
		calls++
		assert.Equal(t, "parsing", phase)
		assert.LessOrEqual(t, current, total)
	}))

	_, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
