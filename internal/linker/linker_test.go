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

package linker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codescope/internal/embedding"
	"github.com/kraklabs/codescope/internal/model"
	"github.com/kraklabs/codescope/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// TestStageALocalBindsUniqueNameInSameFile exercises §4.6.1 Step 1.
func TestStageALocalBindsUniqueNameInSameFile(t *testing.T) {
	st := openTestStore(t)
	caller := model.New("r", "a.py", model.KindCallable, "caller", 1)
	callee := model.New("r", "a.py", model.KindCallable, "helper", 5)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: caller, Kind: model.KindCallable, Name: "caller", Path: "a.py"}))
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: callee, Kind: model.KindCallable, Name: "helper", Path: "a.py"}))

	refID, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "helper", FilePath: "a.py", Line: 2, RefKind: model.RefCall})
	require.NoError(t, err)

	root := t.TempDir()
	l := New(st, embedding.New(embedding.NewMockProvider()), root, nil)
	result, err := l.RunStageA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolved)

	edges, err := st.GetEdgesFrom(caller)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, callee, edges[0].To)
	assert.Equal(t, 1.0, edges[0].Confidence)

	refs, err := st.FindUnresolvedReferences()
	require.NoError(t, err)
	for _, r := range refs {
		assert.NotEqual(t, refID, r.ID)
	}
}

// TestStageAImportQualifiedScenarioS4 encodes spec §8 Scenario S4: a.py
// defines foo(), b.py imports it and calls it without a receiver.
func TestStageAImportQualifiedScenarioS4(t *testing.T) {
	st := openTestStore(t)
	foo := model.New("r", "a.py", model.KindCallable, "foo", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: foo, Kind: model.KindCallable, Name: "foo", Path: "a.py"}))

	caller := model.New("r", "b.py", model.KindCallable, "module", 1)
	require.NoError(t, st.InsertImport(model.Import{FilePath: "b.py", TargetNamespace: "a", Alias: "foo", Line: 1}))
	_, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "foo", FilePath: "b.py", Line: 2, RefKind: model.RefCall})
	require.NoError(t, err)

	root := t.TempDir()
	l := New(st, embedding.New(embedding.NewMockProvider()), root, nil)
	result, err := l.RunStageA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolved)
	assert.Zero(t, result.Ambiguous)

	edges, err := st.GetEdgesFrom(caller)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, foo, edges[0].To)
	assert.Equal(t, 1.0, edges[0].Confidence)
}

// TestStageAUnmatchedReferenceBecomesExternal covers the Step 3 "no
// candidates anywhere" external outcome.
func TestStageAUnmatchedReferenceBecomesExternal(t *testing.T) {
	st := openTestStore(t)
	caller := model.New("r", "a.py", model.KindCallable, "caller", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: caller, Kind: model.KindCallable, Name: "caller", Path: "a.py"}))
	_, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "nonexistent", FilePath: "a.py", Line: 2, RefKind: model.RefCall})
	require.NoError(t, err)

	root := t.TempDir()
	l := New(st, embedding.New(embedding.NewMockProvider()), root, nil)
	result, err := l.RunStageA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.External)

	refs, err := st.FindUnresolvedReferences()
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.True(t, refs[0].IsExternal)
}

// TestStageAAmbiguousTwoDefinitionsWritesCandidateRows covers §8 Scenario
// S5's Stage A half: two modules define send(x); the caller has no import
// naming either, so both survive to Step 3 as candidates.
func TestStageAAmbiguousTwoDefinitionsWritesCandidateRows(t *testing.T) {
	st := openTestStore(t)
	send1 := model.New("r", "m1.py", model.KindCallable, "send", 1)
	send2 := model.New("r", "m2.py", model.KindCallable, "send", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: send1, Kind: model.KindCallable, Name: "send", Path: "m1.py"}))
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: send2, Kind: model.KindCallable, Name: "send", Path: "m2.py"}))

	caller := model.New("r", "m3.py", model.KindCallable, "module", 1)
	refID, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "send", FilePath: "m3.py", Line: 2, RefKind: model.RefCall})
	require.NoError(t, err)

	root := t.TempDir()
	l := New(st, embedding.New(embedding.NewMockProvider()), root, nil)
	result, err := l.RunStageA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Ambiguous)

	candidates, err := st.FindAmbiguousCandidates(refID)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	refs, err := st.FindUnresolvedReferences()
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.False(t, refs[0].IsExternal)
}

// TestStageBResolvesWhenAboveThreshold: Stage B embeds the call site and
// scores it against the one cached symbol embedding; with the threshold at
// -1 any cosine score clears it, so the target receives the edge and the
// unresolved row clears.
func TestStageBResolvesWhenAboveThreshold(t *testing.T) {
	st := openTestStore(t)
	root := t.TempDir()
	writeFile(t, root, "m3.py", "def module():\n    send(msg)\n")

	caller := model.New("r", "m3.py", model.KindCallable, "module", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: caller, Kind: model.KindCallable, Name: "module", Path: "m3.py"}))

	target := model.New("r", "m1.py", model.KindCallable, "send", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: target, Kind: model.KindCallable, Name: "send", Path: "m1.py"}))

	eng := embedding.New(embedding.NewMockProvider())
	vec, err := eng.EmbedQuery(context.Background(), "anything")
	require.NoError(t, err)
	require.NoError(t, st.UpsertEmbedding(target, vec))

	_, err = st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "send", FilePath: "m3.py", Line: 2, RefKind: model.RefCall})
	require.NoError(t, err)

	l := New(st, eng, root, nil, WithThreshold(-1)) // force a match regardless of the mock hash
	result, err := l.RunStageB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolved)

	edges, err := st.GetEdgesFrom(caller)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, target, edges[0].To)

	refs, err := st.FindUnresolvedReferences()
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestStageBMarksExternalWhenNoMatchClearsThreshold(t *testing.T) {
	st := openTestStore(t)
	root := t.TempDir()
	writeFile(t, root, "m3.py", "def module():\n    send(msg)\n")

	caller := model.New("r", "m3.py", model.KindCallable, "module", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: caller, Kind: model.KindCallable, Name: "module", Path: "m3.py"}))

	_, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "send", FilePath: "m3.py", Line: 2, RefKind: model.RefCall})
	require.NoError(t, err)

	eng := embedding.New(embedding.NewMockProvider())
	l := New(st, eng, root, nil, WithThreshold(2)) // impossible to clear
	result, err := l.RunStageB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.External)

	refs, err := st.FindUnresolvedReferences()
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.True(t, refs[0].IsExternal)
}

// TestStageAInterfaceDispatchBindsThroughImplementer covers SPEC_FULL §C.1:
// a call through a field declared as an interface type resolves to the
// concrete method on a struct that implements it, not just a literal
// container-name match.
func TestStageAInterfaceDispatchBindsThroughImplementer(t *testing.T) {
	st := openTestStore(t)

	iface := model.New("r", "a.go", model.KindContainer, "Shape", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: iface, Kind: model.KindContainer, Name: "Shape", Path: "a.go"}))

	impl := model.New("r", "a.go", model.KindContainer, "Circle", 2)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: impl, Kind: model.KindContainer, Name: "Circle", Path: "a.go"}))
	require.NoError(t, st.InsertEdge(model.Edge{From: impl, To: iface, Kind: model.EdgeInherits, Confidence: 1.0}))

	area := model.New("r", "a.go", model.KindCallable, "Area", 3)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: area, Kind: model.KindCallable, Name: "Area", Path: "a.go"}))
	require.NoError(t, st.InsertEdge(model.Edge{From: impl, To: area, Kind: model.EdgeContains, Confidence: 1.0}))

	// The caller lives in another file so Step 1's local lookup cannot bind Area.
	caller := model.New("r", "b.go", model.KindCallable, "describe", 4)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: caller, Kind: model.KindCallable, Name: "describe", Path: "b.go"}))
	require.NoError(t, st.InsertTypedDecl(model.TypedDecl{FilePath: "b.go", VarName: "s", TypeName: "Shape", Line: 4}))

	_, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "Area", Receiver: "s", FilePath: "b.go", Line: 5, RefKind: model.RefCall})
	require.NoError(t, err)

	root := t.TempDir()
	l := New(st, embedding.New(embedding.NewMockProvider()), root, nil)
	result, err := l.RunStageA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolved)

	edges, err := st.GetEdgesFrom(caller)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, area, edges[0].To)
}

func TestRunOrdersStageABeforeStageB(t *testing.T) {
	st := openTestStore(t)
	root := t.TempDir()
	writeFile(t, root, "a.py", "def caller():\n    helper()\n")

	caller := model.New("r", "a.py", model.KindCallable, "caller", 1)
	helper := model.New("r", "a.py", model.KindCallable, "helper", 2)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: caller, Kind: model.KindCallable, Name: "caller", Path: "a.py"}))
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: helper, Kind: model.KindCallable, Name: "helper", Path: "a.py"}))
	_, err := st.InsertUnresolvedReference(model.UnresolvedReference{FromUri: caller, Name: "helper", FilePath: "a.py", Line: 2, RefKind: model.RefCall})
	require.NoError(t, err)

	eng := embedding.New(embedding.NewMockProvider())
	l := New(st, eng, root, nil)
	a, b, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, a.Resolved)
	assert.Zero(t, b.Total, "Stage B should see nothing left once Stage A resolved the only reference")
}
