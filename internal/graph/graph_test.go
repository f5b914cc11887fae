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

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestCallersAndCallees(t *testing.T) {
	st := openTestStore(t)
	a := model.New("r", "a.go", model.KindCallable, "a", 1)
	b := model.New("r", "b.go", model.KindCallable, "b", 1)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: a, Kind: model.KindCallable, Name: "a", Path: "a.go"}))
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: b, Kind: model.KindCallable, Name: "b", Path: "b.go"}))
	require.NoError(t, st.InsertEdge(model.Edge{From: a, To: b, Kind: model.EdgeCalls, Confidence: 1.0}))

	w := New(st)

	callees, err := w.Callees(a)
	require.NoError(t, err)
	require.Len(t, callees, 1)
	assert.Equal(t, "b", callees[0].Name)

	callers, err := w.Callers(b)
	require.NoError(t, err)
	require.Len(t, callers, 1)
	assert.Equal(t, "a", callers[0].Name)
}

// TestImpactFollowsDependencyEdgesAcrossMultipleLevels exercises the
// reverse-dependency BFS: a -calls-> b -calls-> c -> impact(c, 2) should
// surface both b (depth 1) and a (depth 2).
func TestImpactFollowsDependencyEdgesAcrossMultipleLevels(t *testing.T) {
	st := openTestStore(t)
	a := model.New("r", "a.go", model.KindCallable, "a", 1)
	b := model.New("r", "b.go", model.KindCallable, "b", 1)
	c := model.New("r", "c.go", model.KindCallable, "c", 1)
	for _, s := range []model.Symbol{
		{Uri: a, Kind: model.KindCallable, Name: "a", Path: "a.go"},
		{Uri: b, Kind: model.KindCallable, Name: "b", Path: "b.go"},
		{Uri: c, Kind: model.KindCallable, Name: "c", Path: "c.go"},
	} {
		require.NoError(t, st.UpsertSymbol(s))
	}
	require.NoError(t, st.InsertEdge(model.Edge{From: a, To: b, Kind: model.EdgeCalls, Confidence: 1.0}))
	require.NoError(t, st.InsertEdge(model.Edge{From: b, To: c, Kind: model.EdgeCalls, Confidence: 1.0}))

	w := New(st)
	affected, err := w.Impact(c, 2)
	require.NoError(t, err)
	require.Len(t, affected, 2)

	byName := map[string]int{}
	for _, e := range affected {
		byName[e.Symbol.Name] = e.Depth
	}
	assert.Equal(t, 1, byName["b"])
	assert.Equal(t, 2, byName["a"])
}

// TestImpactRespectsMaxDepth stops expansion at the configured depth.
func TestImpactRespectsMaxDepth(t *testing.T) {
	st := openTestStore(t)
	a := model.New("r", "a.go", model.KindCallable, "a", 1)
	b := model.New("r", "b.go", model.KindCallable, "b", 1)
	c := model.New("r", "c.go", model.KindCallable, "c", 1)
	for _, s := range []model.Symbol{
		{Uri: a, Kind: model.KindCallable, Name: "a", Path: "a.go"},
		{Uri: b, Kind: model.KindCallable, Name: "b", Path: "b.go"},
		{Uri: c, Kind: model.KindCallable, Name: "c", Path: "c.go"},
	} {
		require.NoError(t, st.UpsertSymbol(s))
	}
	require.NoError(t, st.InsertEdge(model.Edge{From: a, To: b, Kind: model.EdgeCalls, Confidence: 1.0}))
	require.NoError(t, st.InsertEdge(model.Edge{From: b, To: c, Kind: model.EdgeCalls, Confidence: 1.0}))

	w := New(st)
	affected, err := w.Impact(c, 1)
	require.NoError(t, err)
	require.Len(t, affected, 1)
	assert.Equal(t, "b", affected[0].Symbol.Name)
}

// TestImpactIgnoresNonDependencyEdges confirms a `contains` edge (not a
// dependency kind) doesn't widen the impact set.
func TestImpactIgnoresNonDependencyEdges(t *testing.T) {
	st := openTestStore(t)
	container := model.New("r", "a.go", model.KindContainer, "Widget", 1)
	method := model.New("r", "a.go", model.KindCallable, "Widget.Render", 2)
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: container, Kind: model.KindContainer, Name: "Widget", Path: "a.go"}))
	require.NoError(t, st.UpsertSymbol(model.Symbol{Uri: method, Kind: model.KindCallable, Name: "Widget.Render", Path: "a.go"}))
	require.NoError(t, st.InsertEdge(model.Edge{From: container, To: method, Kind: model.EdgeContains, Confidence: 1.0}))

	w := New(st)
	affected, err := w.Impact(method, 3)
	require.NoError(t, err)
	assert.Empty(t, affected)
}
