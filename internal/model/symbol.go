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

// Symbol is the named entity addressed by a SymbolUri.
type Symbol struct {
	Uri       SymbolUri
	Kind      SymbolKind
	Name      string
	Path      string
	LineStart int
	LineEnd   int
	Doc       string // optional; empty when absent
	Signature string // optional; empty when absent
	Content   string
}

// RefKind distinguishes the two kinds of reference an adapter can emit
// before resolution.
type RefKind string

const (
	RefCall     RefKind = "call"
	RefInherits RefKind = "inherits"
)

// UnresolvedReference is a name use that was not bound at parse time.
type UnresolvedReference struct {
	ID         int64
	FromUri    SymbolUri
	Name       string
	Receiver   string // optional; empty when the reference has no dotted prefix
	FilePath   string
	Line       int
	RefKind    RefKind
	IsExternal bool
}

// Import is a single imported-namespace hint for the resolver.
type Import struct {
	ID              int64
	FilePath        string
	TargetNamespace string
	Alias           string // optional
	Line            int
}

// AmbiguousReference records one plausible target for an UnresolvedReference
// that the global linker could not bind deterministically.
type AmbiguousReference struct {
	ReferenceID  int64
	CandidateUri SymbolUri
	Score        float64
}

// TypedDecl records a field or parameter declaration's static type name, as
// captured by an adapter (e.g. Go's decl.name/decl.type pair). The linker
// uses this to resolve a call made through a field or parameter of
// interface type (spec SPEC_FULL §C.1's interface-dispatch lookup).
type TypedDecl struct {
	FilePath string
	VarName  string
	TypeName string
	Line     int
}

// FileState is the content-hash bookkeeping row used for incremental work.
type FileState struct {
	Path        string
	ContentHash string
}

// Embedding is a fixed-length vector attached to either a symbol URI or an
// unresolved-reference call site.
type Embedding struct {
	Key    string // URI string, or the reference ID rendered as a string
	Vector []float32
}
