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

package linker

import (
	"context"
	"strings"

	"github.com/kraklabs/codescope/internal/model"
)

// RunStageA binds every pending reference via the local → import-qualified
// → global lexical rules of spec §4.6.1, in that priority order, stopping
// at the first step that yields a single definite target.
func (l *Linker) RunStageA(ctx context.Context) (StageAResult, error) {
	refs, err := l.pendingReferences()
	if err != nil {
		return StageAResult{}, err
	}

	var result StageAResult
	for _, ref := range refs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Total++

		outcome, target, candidates, err := l.resolveLexically(ref)
		if err != nil {
			return result, err
		}

		switch outcome {
		case outcomeBind:
			if err := l.bind(ref, target, 1.0); err != nil {
				return result, err
			}
			result.Resolved++
		case outcomeAmbiguous:
			for _, c := range candidates {
				if err := l.store.InsertAmbiguousReference(model.AmbiguousReference{ReferenceID: ref.ID, CandidateUri: c, Score: 0.0}); err != nil {
					return result, err
				}
			}
			result.Ambiguous++
		case outcomeExternal:
			if err := l.store.MarkReferenceExternal(ref.ID); err != nil {
				return result, err
			}
			result.External++
		}
	}
	return result, nil
}

type lexicalOutcome int

const (
	outcomeBind lexicalOutcome = iota
	outcomeAmbiguous
	outcomeExternal
)

// resolveLexically runs Steps 1-3 of spec §4.6.1 in order, returning as
// soon as a step yields a single definite target.
func (l *Linker) resolveLexically(ref model.UnresolvedReference) (lexicalOutcome, model.SymbolUri, []model.SymbolUri, error) {
	var allCandidates []model.SymbolUri

	// Step 1 — Local.
	local, err := l.store.FindSymbolsInFile(ref.FilePath)
	if err != nil {
		return outcomeExternal, model.SymbolUri{}, nil, err
	}
	var localMatches []model.SymbolUri
	for _, s := range local {
		if s.Name == ref.Name {
			localMatches = append(localMatches, s.Uri)
		}
	}
	if len(localMatches) == 1 {
		return outcomeBind, localMatches[0], nil, nil
	}
	allCandidates = append(allCandidates, localMatches...)

	// Step 2 — Import-qualified.
	imports, err := l.store.FindImportsInFile(ref.FilePath)
	if err != nil {
		return outcomeExternal, model.SymbolUri{}, nil, err
	}
	var importMatches []model.SymbolUri
	for _, imp := range imports {
		if !importMatchesReference(imp, ref) {
			continue
		}
		named, err := l.store.FindSymbolsByName(ref.Name)
		if err != nil {
			return outcomeExternal, model.SymbolUri{}, nil, err
		}
		needle := "/" + imp.TargetNamespace
		for _, s := range named {
			if strings.Contains(s.Uri.String(), needle) {
				importMatches = append(importMatches, s.Uri)
			}
		}
	}
	if len(importMatches) == 1 {
		return outcomeBind, importMatches[0], nil, nil
	}
	allCandidates = append(allCandidates, importMatches...)

	// Step 3 — Global.
	global, err := l.store.FindSymbolsByName(ref.Name)
	if err != nil {
		return outcomeExternal, model.SymbolUri{}, nil, err
	}
	var globalMatches []model.SymbolUri
	for _, s := range global {
		if ref.Receiver == "" {
			globalMatches = append(globalMatches, s.Uri)
			continue
		}
		belongs, err := l.hasContainerNamed(s.Uri, ref.Receiver)
		if err != nil {
			return outcomeExternal, model.SymbolUri{}, nil, err
		}
		if belongs {
			globalMatches = append(globalMatches, s.Uri)
		}
	}
	if len(globalMatches) == 0 && ref.Receiver != "" {
		dispatched, err := l.interfaceDispatchMatches(ref)
		if err != nil {
			return outcomeExternal, model.SymbolUri{}, nil, err
		}
		globalMatches = append(globalMatches, dispatched...)
	}
	if len(globalMatches) == 1 {
		return outcomeBind, globalMatches[0], nil, nil
	}
	allCandidates = append(allCandidates, globalMatches...)

	if len(allCandidates) == 0 {
		return outcomeExternal, model.SymbolUri{}, nil, nil
	}
	return outcomeAmbiguous, model.SymbolUri{}, dedupURIs(allCandidates), nil
}

// importMatchesReference implements spec §4.6.1 Step 2's import-match test:
// a receiver reference matches on alias (falling back to the import's last
// dotted namespace segment), a bare reference matches alias == name.
func importMatchesReference(imp model.Import, ref model.UnresolvedReference) bool {
	if ref.Receiver != "" {
		if imp.Alias != "" {
			return imp.Alias == ref.Receiver
		}
		return lastSegment(imp.TargetNamespace) == ref.Receiver
	}
	return imp.Alias == ref.Name
}

func lastSegment(namespace string) string {
	idx := strings.LastIndexByte(namespace, '.')
	if idx < 0 {
		idx = strings.LastIndexByte(namespace, '/')
	}
	if idx < 0 {
		return namespace
	}
	return namespace[idx+1:]
}

// hasContainerNamed reports whether target has an incoming `contains` edge
// from a symbol named containerName — i.e. the method belongs to that type
// (spec §4.6.1 Step 3 receiver filter).
func (l *Linker) hasContainerNamed(target model.SymbolUri, containerName string) (bool, error) {
	incoming, err := l.store.GetEdgesTo(target)
	if err != nil {
		return false, err
	}
	for _, e := range incoming {
		if e.Kind != model.EdgeContains {
			continue
		}
		if e.From.Name == containerName {
			return true, nil
		}
	}
	return false, nil
}

// interfaceDispatchMatches implements SPEC_FULL §C.1's interface-dispatch
// lookup: when ref.Receiver doesn't name a container directly, it may
// instead name a field or parameter declared as an interface type. This
// resolves the receiver's declared type and, failing a direct container
// match, searches for concrete types that implement that interface.
func (l *Linker) interfaceDispatchMatches(ref model.UnresolvedReference) ([]model.SymbolUri, error) {
	declaredType, ok, err := l.store.FindDeclaredType(ref.FilePath, ref.Receiver)
	if err != nil || !ok {
		return nil, err
	}

	candidates, err := l.store.FindSymbolsByName(ref.Name)
	if err != nil {
		return nil, err
	}

	var matches []model.SymbolUri
	for _, s := range candidates {
		direct, err := l.hasContainerNamed(s.Uri, declaredType)
		if err != nil {
			return nil, err
		}
		if direct {
			matches = append(matches, s.Uri)
			continue
		}
		implements, err := l.belongsToImplementerOf(s.Uri, declaredType)
		if err != nil {
			return nil, err
		}
		if implements {
			matches = append(matches, s.Uri)
		}
	}
	return matches, nil
}

// belongsToImplementerOf reports whether target is contained by some type
// that itself has an `inherits` edge to interfaceName — i.e. target is a
// method implementing that interface on a concrete receiver.
func (l *Linker) belongsToImplementerOf(target model.SymbolUri, interfaceName string) (bool, error) {
	incoming, err := l.store.GetEdgesTo(target)
	if err != nil {
		return false, err
	}
	for _, e := range incoming {
		if e.Kind != model.EdgeContains {
			continue
		}
		outgoing, err := l.store.GetEdgesFrom(e.From)
		if err != nil {
			return false, err
		}
		for _, out := range outgoing {
			if out.Kind == model.EdgeInherits && out.To.Name == interfaceName {
				return true, nil
			}
		}
	}
	return false, nil
}

func (l *Linker) bind(ref model.UnresolvedReference, target model.SymbolUri, confidence float64) error {
	kind := model.EdgeCalls
	if ref.RefKind == model.RefInherits {
		kind = model.EdgeInherits
	}
	if err := l.store.InsertEdge(model.Edge{From: ref.FromUri, To: target, Kind: kind, Confidence: confidence}); err != nil {
		return err
	}
	return l.store.ResolveReference(ref.ID)
}

func dedupURIs(uris []model.SymbolUri) []model.SymbolUri {
	seen := make(map[string]bool, len(uris))
	out := uris[:0]
	for _, u := range uris {
		key := u.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}
