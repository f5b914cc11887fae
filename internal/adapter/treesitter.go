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

	"github.com/kraklabs/codescope/internal/cserr"
	"github.com/kraklabs/codescope/internal/model"
)

// queryAdapter is the shared engine behind every AST adapter: it runs one
// tree-sitter query per file and turns the captures into a scope graph,
// following the named-capture contract of spec §6 (callable.*, container.*,
// inherits.base, call.name/.receiver, import.*).
type queryAdapter struct {
	language   string
	extensions []string
	tsLanguage *sitter.Language
	query      *sitter.Query
}

func newQueryAdapter(language string, extensions []string, lang *sitter.Language, queryStr string) *queryAdapter {
	query, _ := sitter.NewQuery(lang, queryStr)
	return &queryAdapter{language: language, extensions: extensions, tsLanguage: lang, query: query}
}

func (a *queryAdapter) Language() string     { return a.language }
func (a *queryAdapter) Extensions() []string { return a.extensions }

type capturedNode struct {
	name  string
	node  sitter.Node
	text  string
	line1 int // 1-indexed start line
	line2 int // 1-indexed end line
}

// Parse implements Adapter.
func (a *queryAdapter) Parse(repo, path string, content []byte) (Result, error) {
	if a.query == nil {
		return Result{}, cserr.New(cserr.Adapter, "queryAdapter.Parse", errNilQuery(a.language))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(a.tsLanguage); err != nil {
		return Result{}, cserr.New(cserr.Adapter, "queryAdapter.Parse", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return Result{}, cserr.New(cserr.Parse, "queryAdapter.Parse", errParseFailed(path))
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	captureNames := a.query.CaptureNames()
	matches := cursor.Matches(a.query, tree.RootNode(), content)

	var callables, containers, calls, imports, decls []map[string][]capturedNode

	for {
		m := matches.Next()
		if m == nil {
			break
		}
		byName := make(map[string][]capturedNode)
		for _, c := range m.Captures {
			name := ""
			if int(c.Index) < len(captureNames) {
				name = captureNames[c.Index]
			}
			n := c.Node
			byName[name] = append(byName[name], capturedNode{
				name:  name,
				node:  n,
				text:  string(content[n.StartByte():n.EndByte()]),
				line1: int(n.StartPosition().Row) + 1,
				line2: int(n.EndPosition().Row) + 1,
			})
		}
		switch {
		case len(byName["callable.def"]) > 0:
			callables = append(callables, byName)
		case len(byName["container.def"]) > 0:
			containers = append(containers, byName)
		case len(byName["call.site"]) > 0:
			calls = append(calls, byName)
		case len(byName["import.def"]) > 0 || len(byName["import.module"]) > 0 || len(byName["import.from_module"]) > 0:
			imports = append(imports, byName)
		case len(byName["decl.name"]) > 0 && len(byName["decl.type"]) > 0:
			decls = append(decls, byName)
		}
	}

	return assembleResult(repo, path, content, callables, containers, calls, imports, decls), nil
}

// assembleResult turns the raw per-pattern capture groups into the scope
// graph, resolving callable/container nesting by byte-range containment
// (spec §4.3: "if inside a container ... a contains edge").
func assembleResult(repo, path string, content []byte, callables, containers, calls, imports, decls []map[string][]capturedNode) Result {
	var res Result

	lineCount := strings.Count(string(content), "\n") + 1
	stem := fileStem(path)
	nsUri := model.New(repo, path, model.KindNamespace, stem, 1)
	res.Symbols = append(res.Symbols, model.Symbol{
		Uri: nsUri, Kind: model.KindNamespace, Name: stem, Path: path,
		LineStart: 1, LineEnd: lineCount, Content: string(content),
	})

	type rangedContainer struct {
		uri        model.SymbolUri
		startByte  uint
		endByte    uint
	}
	var rangedContainers []rangedContainer

	for _, byName := range containers {
		defNode := byName["container.def"][0]
		nameCaps := byName["container.name"]
		if len(nameCaps) == 0 {
			continue
		}
		name := nameCaps[0].text
		uri := model.New(repo, path, model.KindContainer, name, defNode.line1)
		sym := model.Symbol{
			Uri: uri, Kind: model.KindContainer, Name: name, Path: path,
			LineStart: defNode.line1, LineEnd: defNode.line2, Content: defNode.text,
		}
		res.Symbols = append(res.Symbols, sym)
		res.Edges = append(res.Edges, model.Edge{From: nsUri, To: uri, Kind: model.EdgeDefines, Confidence: 1.0})
		rangedContainers = append(rangedContainers, rangedContainer{uri, defNode.node.StartByte(), defNode.node.EndByte()})

		for _, base := range byName["inherits.base"] {
			res.References = append(res.References, model.UnresolvedReference{
				FromUri: uri, Name: base.text, FilePath: path, Line: base.line1, RefKind: model.RefInherits,
			})
		}
	}

	for _, byName := range callables {
		defNode := byName["callable.def"][0]
		nameCaps := byName["callable.name"]
		if len(nameCaps) == 0 {
			continue
		}
		name := nameCaps[0].text
		if recv := byName["method.receiver"]; len(recv) > 0 {
			name = strings.TrimSpace(strings.Trim(recv[0].text, "()*")) + "." + name
		}
		uri := model.New(repo, path, model.KindCallable, name, defNode.line1)
		sym := model.Symbol{
			Uri: uri, Kind: model.KindCallable, Name: name, Path: path,
			LineStart: defNode.line1, LineEnd: defNode.line2, Content: defNode.text,
			Doc: extractLeadingDocstring(defNode.text),
		}
		res.Symbols = append(res.Symbols, sym)
		res.Edges = append(res.Edges, model.Edge{From: nsUri, To: uri, Kind: model.EdgeDefines, Confidence: 1.0})

		var best *rangedContainer
		for i := range rangedContainers {
			c := &rangedContainers[i]
			if defNode.node.StartByte() >= c.startByte && defNode.node.EndByte() <= c.endByte {
				if best == nil || (c.endByte-c.startByte) < (best.endByte-best.startByte) {
					best = c
				}
			}
		}
		if best != nil {
			res.Edges = append(res.Edges, model.Edge{From: best.uri, To: uri, Kind: model.EdgeContains, Confidence: 1.0})
		}
	}

	for _, byName := range calls {
		nameCaps := byName["call.name"]
		if len(nameCaps) == 0 {
			continue
		}
		name := nameCaps[0]
		receiver := ""
		if r := byName["call.receiver"]; len(r) > 0 {
			receiver = r[0].text
		}
		fromUri := enclosingSymbolUri(repo, path, name.node.StartByte(), callables, nsUri)
		res.References = append(res.References, model.UnresolvedReference{
			FromUri: fromUri, Name: name.text, Receiver: receiver, FilePath: path, Line: name.line1, RefKind: model.RefCall,
		})
	}

	for _, byName := range imports {
		if mod := byName["import.module"]; len(mod) > 0 {
			res.Imports = append(res.Imports, model.Import{FilePath: path, TargetNamespace: stripQuotes(mod[0].text), Line: mod[0].line1})
			continue
		}
		if from := byName["import.from_module"]; len(from) > 0 {
			alias := ""
			if a := byName["import.alias"]; len(a) > 0 {
				alias = a[0].text
			} else if n := byName["import.name"]; len(n) > 0 {
				alias = n[0].text
			}
			res.Imports = append(res.Imports, model.Import{FilePath: path, TargetNamespace: stripQuotes(from[0].text), Alias: alias, Line: from[0].line1})
		}
	}

	for _, byName := range decls {
		name := byName["decl.name"][0]
		typ := byName["decl.type"][0]
		res.TypedDecls = append(res.TypedDecls, model.TypedDecl{
			FilePath: path, VarName: name.text, TypeName: strings.TrimLeft(typ.text, "*"), Line: name.line1,
		})
	}

	return res
}

// enclosingSymbolUri finds the innermost callable (falling back to the file
// namespace) whose syntactic range contains byte offset b, used to set a
// call site's from_uri.
func enclosingSymbolUri(repo, path string, b uint, callables []map[string][]capturedNode, nsUri model.SymbolUri) model.SymbolUri {
	var best model.SymbolUri
	var bestSpan uint = ^uint(0)
	found := false
	for _, byName := range callables {
		defNode := byName["callable.def"][0]
		start, end := defNode.node.StartByte(), defNode.node.EndByte()
		if b >= start && b <= end {
			span := end - start
			if span < bestSpan {
				nameCaps := byName["callable.name"]
				if len(nameCaps) == 0 {
					continue
				}
				name := nameCaps[0].text
				if recv := byName["method.receiver"]; len(recv) > 0 {
					name = strings.TrimSpace(strings.Trim(recv[0].text, "()*")) + "." + name
				}
				best = model.New(repo, path, model.KindCallable, name, defNode.line1)
				bestSpan = span
				found = true
			}
		}
	}
	if found {
		return best
	}
	return nsUri
}

// extractLeadingDocstring returns the text of a bare string literal that is
// the first statement of a definition's body, trimmed of quotes (spec §4.3:
// "Docstrings are extracted from the first statement of a body when that
// statement is a bare string literal"). This best-effort heuristic scans the
// raw definition text rather than the tree, since the capture set varies
// across grammars.
func extractLeadingDocstring(defText string) string {
	lines := strings.SplitN(defText, "\n", 4)
	for _, l := range lines[1:] {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		if (strings.HasPrefix(t, `"""`) || strings.HasPrefix(t, `'''`)) && len(t) >= 6 {
			return strings.Trim(t, `"'`)
		}
		if strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`) && len(t) >= 2 {
			return strings.Trim(t, `"`)
		}
		break
	}
	return ""
}

func fileStem(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	return base
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func errNilQuery(lang string) error {
	return &adapterSetupError{"query failed to compile for " + lang}
}

func errParseFailed(path string) error {
	return &adapterSetupError{"parse returned nil tree for " + path}
}

type adapterSetupError struct{ msg string }

func (e *adapterSetupError) Error() string { return e.msg }
