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

// Package model defines the identity and enumeration types shared by every
// other codescope component: symbol URIs, symbol kinds, and edge kinds.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kraklabs/codescope/internal/cserr"
)

// SymbolKind is the closed set of entity categories a Symbol can belong to.
type SymbolKind string

const (
	KindNamespace SymbolKind = "namespace"
	KindContainer SymbolKind = "container"
	KindCallable  SymbolKind = "callable"
	KindValue     SymbolKind = "value"
	KindDocument  SymbolKind = "document"
)

func (k SymbolKind) valid() bool {
	switch k {
	case KindNamespace, KindContainer, KindCallable, KindValue, KindDocument:
		return true
	default:
		return false
	}
}

const uriScheme = "codescope://"

// SymbolUri is the opaque, totally-ordered identity of a Symbol.
//
// Canonical textual form: codescope://<repo>/<path>#<kind>:<name>@<line>
type SymbolUri struct {
	Repo string
	Path string
	Kind SymbolKind
	Name string
	Line int
}

// New builds a SymbolUri from its components without validating separators;
// callers that parse untrusted text should use Parse instead.
func New(repo, path string, kind SymbolKind, name string, line int) SymbolUri {
	return SymbolUri{Repo: repo, Path: path, Kind: kind, Name: name, Line: line}
}

// String renders the canonical textual form. It is the inverse of Parse.
func (u SymbolUri) String() string {
	return fmt.Sprintf("%s%s/%s#%s:%s@%d", uriScheme, u.Repo, u.Path, u.Kind, u.Name, u.Line)
}

// Equal reports whether two URIs have identical components.
func (u SymbolUri) Equal(o SymbolUri) bool {
	return u.Repo == o.Repo && u.Path == o.Path && u.Kind == o.Kind && u.Name == o.Name && u.Line == o.Line
}

// Less gives the lexicographic total order over the textual form.
func (u SymbolUri) Less(o SymbolUri) bool {
	return u.String() < o.String()
}

// Parse parses the canonical textual form produced by String, failing with
// an InvalidUri-kind error (see package cserr) on any malformed input.
func Parse(s string) (SymbolUri, error) {
	rest, ok := strings.CutPrefix(s, uriScheme)
	if !ok {
		return SymbolUri{}, invalidURI(s, "missing scheme prefix")
	}

	hashIdx := strings.IndexByte(rest, '#')
	if hashIdx < 0 {
		return SymbolUri{}, invalidURI(s, "missing '#'")
	}
	repoAndPath, tail := rest[:hashIdx], rest[hashIdx+1:]

	slashIdx := strings.IndexByte(repoAndPath, '/')
	if slashIdx < 0 {
		return SymbolUri{}, invalidURI(s, "missing path separator")
	}
	repo, path := repoAndPath[:slashIdx], repoAndPath[slashIdx+1:]

	atIdx := strings.LastIndexByte(tail, '@')
	if atIdx < 0 {
		return SymbolUri{}, invalidURI(s, "missing '@'")
	}
	kindAndName, lineStr := tail[:atIdx], tail[atIdx+1:]

	colonIdx := strings.IndexByte(kindAndName, ':')
	if colonIdx < 0 {
		return SymbolUri{}, invalidURI(s, "kind:name missing ':'")
	}
	kindStr, name := kindAndName[:colonIdx], kindAndName[colonIdx+1:]

	kind := SymbolKind(kindStr)
	if !kind.valid() {
		return SymbolUri{}, invalidURI(s, "unrecognized kind "+kindStr)
	}

	line, err := strconv.ParseUint(lineStr, 10, 64)
	if err != nil {
		return SymbolUri{}, invalidURI(s, "line is not a base-10 unsigned integer")
	}

	return SymbolUri{Repo: repo, Path: path, Kind: kind, Name: name, Line: int(line)}, nil
}

func invalidURI(s, reason string) error {
	return cserr.New(cserr.InvalidUri, "model.Parse", errors.New(reason+": "+s))
}
