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

package model

// EdgeKind is the closed set of relationships between two symbols.
type EdgeKind string

const (
	EdgeDefines    EdgeKind = "defines"
	EdgeContains   EdgeKind = "contains"
	EdgeCalls      EdgeKind = "calls"
	EdgeReferences EdgeKind = "references"
	EdgeInherits   EdgeKind = "inherits"
	EdgeExports    EdgeKind = "exports"
)

// IsDependency reports whether the kind counts toward the impact set of
// spec §4.2/Glossary (calls|references|inherits).
func (k EdgeKind) IsDependency() bool {
	switch k {
	case EdgeCalls, EdgeReferences, EdgeInherits:
		return true
	default:
		return false
	}
}

// Edge is a directed, confidence-weighted relationship between two symbols.
// Equality for storage purposes is on the (From, To, Kind) triple; a fourth
// field, Confidence, is the monotone invariant described in spec I1.
type Edge struct {
	From       SymbolUri
	To         SymbolUri
	Kind       EdgeKind
	Confidence float64
}

// Reverse returns the edge with endpoints swapped, same kind, same
// confidence (spec §4.1: the inverse of an edge swaps From/To).
func (e Edge) Reverse() Edge {
	return Edge{From: e.To, To: e.From, Kind: e.Kind, Confidence: e.Confidence}
}
