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
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

const goQuery = `
(function_declaration name: (identifier) @callable.name) @callable.def
(method_declaration
    receiver: (parameter_list) @method.receiver
    name: (field_identifier) @callable.name) @callable.def
(type_declaration (type_spec name: (type_identifier) @container.name type: (struct_type))) @container.def
(type_declaration (type_spec name: (type_identifier) @container.name type: (interface_type))) @container.def
(call_expression function: (identifier) @call.name) @call.site
(call_expression function: (selector_expression
    operand: (identifier) @call.receiver
    field: (field_identifier) @call.name)) @call.site
(import_spec path: (interpreted_string_literal) @import.module) @import.def
(parameter_declaration name: (identifier) @decl.name type: (type_identifier) @decl.type)
(parameter_declaration name: (identifier) @decl.name type: (pointer_type (type_identifier) @decl.type))
(field_declaration name: (field_identifier) @decl.name type: (type_identifier) @decl.type)
(field_declaration name: (field_identifier) @decl.name type: (pointer_type (type_identifier) @decl.type))
`

// NewGoAdapter builds the Go AST adapter, grounded on standardbeagle-lci's
// setupGo (internal/parser/parser_language_setup.go) with its query string
// generalized onto the spec §6 callable/container/call/import captures.
func NewGoAdapter() Adapter {
	lang := sitter.NewLanguage(tree_sitter_go.Language())
	return newQueryAdapter("go", []string{".go"}, lang, goQuery)
}
