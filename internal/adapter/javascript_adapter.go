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
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

const javascriptQuery = `
(function_declaration name: (identifier) @callable.name) @callable.def
(generator_function_declaration name: (identifier) @callable.name) @callable.def
(method_definition name: (property_identifier) @callable.name) @callable.def
(class_declaration name: (identifier) @container.name) @container.def
(class_declaration
    name: (identifier) @container.name
    (class_heritage (identifier) @inherits.base)) @container.def
(call_expression function: (identifier) @call.name) @call.site
(call_expression function: (member_expression
    object: (identifier) @call.receiver
    property: (property_identifier) @call.name)) @call.site
(import_statement source: (string) @import.module) @import.def
`

// NewJavaScriptAdapter builds the JavaScript AST adapter, grounded on
// standardbeagle-lci's setupJavaScript query.
func NewJavaScriptAdapter() Adapter {
	lang := sitter.NewLanguage(tree_sitter_javascript.Language())
	return newQueryAdapter("javascript", []string{".js", ".jsx"}, lang, javascriptQuery)
}
