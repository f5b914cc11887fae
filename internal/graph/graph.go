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

// Package graph implements spec §1 item 3's traversal queries — callers,
// callees, and impact-set BFS — on top of internal/store's one-hop edge
// lookups.
//
// Grounded on the original implementation's in-memory SymbolGraph
// (original_source/src/graph.rs: find_callers, find_callees, and
// impact_analysis's reverse-dependency BFS), re-expressed here as
// store-backed queries rather than an in-memory adjacency map, since
// internal/store already persists every edge the traversal needs.
package graph

import (
	"github.com/kraklabs/codescope/internal/model"
	"github.com/kraklabs/codescope/internal/store"
)

// Walker runs traversal queries against a store.
type Walker struct {
	store *store.Store
}

// New builds a Walker over st.
func New(st *store.Store) *Walker {
	return &Walker{store: st}
}

// Callers returns every symbol with a `calls` edge into uri (spec
// Glossary "callers"), mirroring graph.rs's find_callers.
func (w *Walker) Callers(uri model.SymbolUri) ([]model.Symbol, error) {
	return w.relatedByKind(uri, model.EdgeCalls, true)
}

// Callees returns every symbol uri has a `calls` edge to (spec Glossary
// "callees"), mirroring graph.rs's find_callees.
func (w *Walker) Callees(uri model.SymbolUri) ([]model.Symbol, error) {
	return w.relatedByKind(uri, model.EdgeCalls, false)
}

// Subclasses returns every symbol with an `inherits` edge into uri,
// mirroring graph.rs's find_subclasses.
func (w *Walker) Subclasses(uri model.SymbolUri) ([]model.Symbol, error) {
	return w.relatedByKind(uri, model.EdgeInherits, true)
}

// Superclasses returns every symbol uri has an `inherits` edge to,
// mirroring graph.rs's find_superclasses.
func (w *Walker) Superclasses(uri model.SymbolUri) ([]model.Symbol, error) {
	return w.relatedByKind(uri, model.EdgeInherits, false)
}

// relatedByKind resolves the symbols on the other end of every edge of
// kind touching uri; incoming selects edges where uri is To (the edge's
// From is the related symbol), outgoing selects edges where uri is From.
func (w *Walker) relatedByKind(uri model.SymbolUri, kind model.EdgeKind, incoming bool) ([]model.Symbol, error) {
	var edges []model.Edge
	var err error
	if incoming {
		edges, err = w.store.GetEdgesTo(uri)
	} else {
		edges, err = w.store.GetEdgesFrom(uri)
	}
	if err != nil {
		return nil, err
	}

	var out []model.Symbol
	for _, e := range edges {
		if e.Kind != kind {
			continue
		}
		other := e.From
		if !incoming {
			other = e.To
		}
		sym, ok, err := w.store.GetSymbol(other)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, sym)
		}
	}
	return out, nil
}

// ImpactEntry pairs an affected symbol with its BFS distance from the
// traversal root.
type ImpactEntry struct {
	Symbol model.Symbol
	Depth  int
}

// Impact performs reverse-dependency BFS out to maxDepth levels from uri:
// at each level it follows every incoming edge whose kind.IsDependency()
// (calls|references|inherits, spec §4.2/Glossary) to find symbols that
// would be affected by a change to the current frontier. The starting
// symbol itself is never included in the result, matching graph.rs's
// impact_analysis (which also skips depth 0).
func (w *Walker) Impact(uri model.SymbolUri, maxDepth int) ([]ImpactEntry, error) {
	type frontierNode struct {
		uri   model.SymbolUri
		depth int
	}

	visited := map[string]bool{uri.String(): true}
	queue := []frontierNode{{uri, 0}}
	var affected []ImpactEntry

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}

		incoming, err := w.store.GetEdgesTo(current.uri)
		if err != nil {
			return nil, err
		}
		for _, e := range incoming {
			if !e.Kind.IsDependency() {
				continue
			}
			key := e.From.String()
			if visited[key] {
				continue
			}
			visited[key] = true

			sym, ok, err := w.store.GetSymbol(e.From)
			if err != nil {
				return nil, err
			}
			nextDepth := current.depth + 1
			if ok {
				affected = append(affected, ImpactEntry{Symbol: sym, Depth: nextDepth})
			}
			queue = append(queue, frontierNode{e.From, nextDepth})
		}
	}
	return affected, nil
}
