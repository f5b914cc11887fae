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

// Package adapter implements C3: per-language extraction via tree-sitter
// query patterns, plus a document chunker fallback for unsupported files.
//
// The tree-sitter usage is grounded on standardbeagle-lci's internal/parser
// (parser_language_setup.go's per-language query strings, ast_store.go's
// QueryCursor.Matches loop), in preference to vjache-cie's own smacker/go-tree-sitter
// binding, because the official tree-sitter/go-tree-sitter package's Query/
// QueryCursor API maps directly onto the named-capture adapter contract of
// spec §6 (callable.*, container.*, call.name, import.module, …), whereas
// vjache-cie hand-walks node.Type() switches with no query layer.
package adapter

import "github.com/kraklabs/codescope/internal/model"

// Result is the scope graph an adapter produces for one file: the symbols it
// defines, the intra-file edges among them, and the unresolved references
// and imports left for the linker.
type Result struct {
	Symbols    []model.Symbol
	Edges      []model.Edge
	References []model.UnresolvedReference
	Imports    []model.Import
	TypedDecls []model.TypedDecl
}

// Adapter consumes one file's content and produces its scope graph.
type Adapter interface {
	Language() string
	Extensions() []string
	Parse(repo, path string, content []byte) (Result, error)
}
