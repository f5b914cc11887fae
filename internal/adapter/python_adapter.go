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
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const pythonQuery = `
(function_definition name: (identifier) @callable.name) @callable.def
(class_definition
    name: (identifier) @container.name
    superclasses: (argument_list (identifier) @inherits.base)) @container.def
(class_definition name: (identifier) @container.name) @container.def
(call function: (identifier) @call.name) @call.site
(call function: (attribute
    object: (identifier) @call.receiver
    attribute: (identifier) @call.name)) @call.site
(import_statement name: (dotted_name) @import.module) @import.def
(import_from_statement
    module_name: (dotted_name) @import.from_module
    name: (dotted_name) @import.name) @import.def
`

// NewPythonAdapter builds the Python AST adapter. The class/call/import
// capture shapes are grounded on the spec §8 S1 scenario (hello/Foo.bar/world
// with a print() unresolved call), generalized to the §6 capture contract.
func NewPythonAdapter() Adapter {
	lang := sitter.NewLanguage(tree_sitter_python.Language())
	return newQueryAdapter("python", []string{".py"}, lang, pythonQuery)
}
