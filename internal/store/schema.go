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

package store

// schemaDDL mirrors, table-for-table, the eight logical relations of spec
// §3/§4.2, plus the typed_decls table used by interface-dispatch
// resolution. It is adapted from vjache-cie's Datalog schema (pkg/ingestion/schema.go)
// onto plain relational DDL, since the persistent backend here is
// modernc.org/sqlite rather than an embedded CozoDB instance (see DESIGN.md).
const schemaDDL = `
CREATE TABLE IF NOT EXISTS symbols (
	uri        TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	path       TEXT NOT NULL,
	line_start INTEGER NOT NULL,
	line_end   INTEGER NOT NULL,
	doc        TEXT NOT NULL DEFAULT '',
	signature  TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);

CREATE TABLE IF NOT EXISTS edges (
	from_uri   TEXT NOT NULL,
	to_uri     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	confidence REAL NOT NULL,
	PRIMARY KEY (from_uri, to_uri, kind)
);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_uri);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_uri);
CREATE INDEX IF NOT EXISTS idx_edges_kind ON edges(kind);

CREATE TABLE IF NOT EXISTS embeddings (
	uri    TEXT PRIMARY KEY,
	vector BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS callsite_embeddings (
	reference_id INTEGER PRIMARY KEY,
	vector       BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS unresolved_references (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	from_uri    TEXT NOT NULL,
	name        TEXT NOT NULL,
	receiver    TEXT NOT NULL DEFAULT '',
	file_path   TEXT NOT NULL,
	line        INTEGER NOT NULL,
	ref_kind    TEXT NOT NULL,
	is_external INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_unresolved_path ON unresolved_references(file_path);
CREATE INDEX IF NOT EXISTS idx_unresolved_name ON unresolved_references(name);
CREATE INDEX IF NOT EXISTS idx_unresolved_external ON unresolved_references(is_external);

CREATE TABLE IF NOT EXISTS imports (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path        TEXT NOT NULL,
	target_namespace TEXT NOT NULL,
	alias            TEXT NOT NULL DEFAULT '',
	line             INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_imports_path ON imports(file_path);

CREATE TABLE IF NOT EXISTS ambiguous_references (
	reference_id  INTEGER NOT NULL,
	candidate_uri TEXT NOT NULL,
	score         REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (reference_id, candidate_uri)
);

CREATE TABLE IF NOT EXISTS file_hash (
	path TEXT PRIMARY KEY,
	hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS typed_decls (
	file_path TEXT NOT NULL,
	var_name  TEXT NOT NULL,
	type_name TEXT NOT NULL,
	line      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_typed_decls_lookup ON typed_decls(file_path, var_name);
`
