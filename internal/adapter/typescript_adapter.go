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

package adapter

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const typescriptQuery = `
(function_declaration name: (identifier) @callable.name) @callable.def
(method_definition name: (property_identifier) @callable.name) @callable.def
(class_declaration name: (type_identifier) @container.name) @container.def
(class_declaration
    name: (type_identifier) @container.name
    (class_heritage (identifier) @inherits.base)) @container.def
(interface_declaration name: (type_identifier) @container.name) @container.def
(call_expression function: (identifier) @call.name) @call.site
(call_expression function: (member_expression
    object: (identifier) @call.receiver
    property: (property_identifier) @call.name)) @call.site
(import_statement source: (string) @import.module) @import.def
`

// typescriptAdapter dispatches between the .ts and .tsx tree-sitter grammar
// variants (tree-sitter-typescript ships two distinct Language values for
// them), matching standardbeagle-lci's setupTypeScript registering both
// extensions against a shared query.
type typescriptAdapter struct {
	ts  *queryAdapter
	tsx *queryAdapter
}

// NewTypeScriptAdapter builds the combined .ts/.tsx adapter.
func NewTypeScriptAdapter() Adapter {
	return &typescriptAdapter{
		ts:  newQueryAdapter("typescript", []string{".ts"}, sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()), typescriptQuery),
		tsx: newQueryAdapter("tsx", []string{".tsx"}, sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()), typescriptQuery),
	}
}

func (a *typescriptAdapter) Language() string     { return "typescript" }
func (a *typescriptAdapter) Extensions() []string { return []string{".ts", ".tsx"} }

func (a *typescriptAdapter) Parse(repo, path string, content []byte) (Result, error) {
	if strings.HasSuffix(path, ".tsx") {
		return a.tsx.Parse(repo, path, content)
	}
	return a.ts.Parse(repo, path, content)
}
