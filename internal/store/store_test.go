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
	"testing"

	"github.com/kraklabs/codescope/internal/model"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestEdgeInsertIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	a := model.New("r", "a.go", model.KindCallable, "A", 1)
	b := model.New("r", "b.go", model.KindCallable, "B", 1)
	e := model.Edge{From: a, To: b, Kind: model.EdgeCalls, Confidence: 0.9}

	require.NoError(t, st.InsertEdge(e))
	require.NoError(t, st.InsertEdge(e))

	edges, err := st.GetEdgesFrom(a)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.InDelta(t, 0.9, edges[0].Confidence, 1e-9)
}

// TestEdgeConfidenceMonotonic covers invariant I1: confidence never decreases
// across repeated inserts of the same (from, to, kind) triple.
func TestEdgeConfidenceMonotonic(t *testing.T) {
	st := openTestStore(t)
	a := model.New("r", "a.go", model.KindCallable, "A", 1)
	b := model.New("r", "b.go", model.KindCallable, "B", 1)

	require.NoError(t, st.InsertEdge(model.Edge{From: a, To: b, Kind: model.EdgeCalls, Confidence: 0.9}))
	require.NoError(t, st.InsertEdge(model.Edge{From: a, To: b, Kind: model.EdgeCalls, Confidence: 0.4}))

	edges, err := st.GetEdgesFrom(a)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.InDelta(t, 0.9, edges[0].Confidence, 1e-9, "lower-confidence reinsert must not overwrite a higher one")

	require.NoError(t, st.InsertEdge(model.Edge{From: a, To: b, Kind: model.EdgeCalls, Confidence: 0.99}))
	edges, err = st.GetEdgesFrom(a)
	require.NoError(t, err)
	require.InDelta(t, 0.99, edges[0].Confidence, 1e-9, "higher-confidence reinsert must win")
}

// TestDeleteFileDataIsAtomic covers invariant I3: re-indexing a file must
// leave no residue from its previous indexing in any of the eight relations.
func TestDeleteFileDataIsAtomic(t *testing.T) {
	st := openTestStore(t)
	sym := model.Symbol{Uri: model.New("r", "a.go", model.KindCallable, "A", 1), Kind: model.KindCallable, Name: "A", Path: "a.go"}
	other := model.Symbol{Uri: model.New("r", "b.go", model.KindCallable, "B", 1), Kind: model.KindCallable, Name: "B", Path: "b.go"}
	require.NoError(t, st.UpsertSymbol(sym))
	require.NoError(t, st.UpsertSymbol(other))
	require.NoError(t, st.InsertEdge(model.Edge{From: sym.Uri, To: other.Uri, Kind: model.EdgeCalls, Confidence: 1}))
	require.NoError(t, st.UpsertEmbedding(sym.Uri, []float32{1, 0, 0}))
	require.NoError(t, st.InsertImport(model.Import{FilePath: "a.go", TargetNamespace: "fmt"}))
	refID, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: sym.Uri, Name: "X", FilePath: "a.go", RefKind: model.RefCall})
	require.NoError(t, err)
	require.NoError(t, st.InsertAmbiguousReference(model.AmbiguousReference{ReferenceID: refID, CandidateUri: other.Uri, Score: 0.5}))
	require.NoError(t, st.SetFileHash("a.go", "deadbeef"))

	require.NoError(t, st.DeleteFileData("a.go"))

	_, found, err := st.GetSymbol(sym.Uri)
	require.NoError(t, err)
	require.False(t, found)

	edges, err := st.GetEdgesTo(other.Uri)
	require.NoError(t, err)
	require.Empty(t, edges)

	_, found, err = st.GetEmbedding(sym.Uri)
	require.NoError(t, err)
	require.False(t, found)

	imports, err := st.FindImportsInFile("a.go")
	require.NoError(t, err)
	require.Empty(t, imports)

	refs, err := st.FindUnresolvedReferences()
	require.NoError(t, err)
	require.Empty(t, refs)

	cands, err := st.FindAmbiguousCandidates(refID)
	require.NoError(t, err)
	require.Empty(t, cands)

	_, found, err = st.GetFileHash("a.go")
	require.NoError(t, err)
	require.False(t, found)

	// The unrelated symbol from b.go must survive.
	_, found, err = st.GetSymbol(other.Uri)
	require.NoError(t, err)
	require.True(t, found)
}

// TestSearchByVectorTopKDeterministic covers the spec §8 vector top-k
// determinism property: identical input always yields the same ranked order.
func TestSearchByVectorTopKDeterministic(t *testing.T) {
	st := openTestStore(t)
	vecs := map[string][]float32{
		"A": {1, 0, 0},
		"B": {0.9, 0.1, 0},
		"C": {0, 1, 0},
	}
	for name, v := range vecs {
		uri := model.New("r", name+".go", model.KindCallable, name, 1)
		require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: uri, Kind: model.KindCallable, Name: name, Path: name + ".go"}))
		require.NoError(t, st.UpsertEmbedding(uri, v))
	}

	var firstOrder []string
	for i := 0; i < 5; i++ {
		results, err := st.SearchByVector([]float32{1, 0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		order := []string{results[0].Uri.Name, results[1].Uri.Name}
		if i == 0 {
			firstOrder = order
		} else {
			require.Equal(t, firstOrder, order)
		}
	}
	require.Equal(t, "A", firstOrder[0], "exact match must rank first")
}

func TestSearchContentRequiresAllTokens(t *testing.T) {
	st := openTestStore(t)
	uri := model.New("r", "parser.go", model.KindCallable, "ParseTokens", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{
		Uri: uri, Kind: model.KindCallable, Name: "ParseTokens", Path: "parser.go",
		Doc: "parses a token stream into an AST",
	}))

	hits, err := st.SearchContent("token stream", "", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = st.SearchContent("token nonexistentword", "", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestStatsCountsAllRelations(t *testing.T) {
	st := openTestStore(t)
	uri := model.New("r", "a.go", model.KindCallable, "A", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: uri, Kind: model.KindCallable, Name: "A", Path: "a.go"}))
	require.NoError(t, st.SetFileHash("a.go", "h1"))

	stats, err := st.Stats()
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Symbols)
	require.EqualValues(t, 1, stats.Files)
}
