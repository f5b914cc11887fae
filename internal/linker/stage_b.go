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
	"sort"

	"github.com/kraklabs/codescope/internal/embedding"
	"github.com/kraklabs/codescope/internal/model"
	"github.com/kraklabs/codescope/internal/store"
)

// cachedSymbol is one (uri, vector) pair loaded once per Stage B run (spec
// §4.6.2 step 1's in-memory cache).
type cachedSymbol struct {
	uri model.SymbolUri
	vec []float32
}

// RunStageB embeds the remaining unresolved call sites in batches and
// binds each to the top cosine-similarity symbol matches above threshold
// (spec §4.6.2).
func (l *Linker) RunStageB(ctx context.Context) (StageBResult, error) {
	refs, err := l.pendingReferences()
	if err != nil {
		return StageBResult{}, err
	}
	if len(refs) == 0 {
		return StageBResult{}, nil
	}

	cache, err := l.loadSymbolCache()
	if err != nil {
		return StageBResult{}, err
	}

	var result StageBResult
	batchSize := l.batchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	for start := 0; start < len(refs); start += batchSize {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		end := start + batchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := refs[start:end]

		n, err := l.resolveBatch(ctx, batch, cache)
		if err != nil {
			return result, err
		}
		result.Total += len(batch)
		result.Resolved += n
		result.External += len(batch) - n
	}
	return result, nil
}

// loadSymbolCache pulls every symbol embedding into memory, skipping rows
// whose URI fails to parse — Store.SearchByVector already validates URIs
// internally, but Stage B needs the raw (uri, vector) pairs rather than a
// ranked search, so it walks the symbols table directly.
func (l *Linker) loadSymbolCache() ([]cachedSymbol, error) {
	var out []cachedSymbol
	for _, kind := range []model.SymbolKind{model.KindCallable, model.KindContainer, model.KindNamespace, model.KindValue, model.KindDocument} {
		symbols, err := l.store.FindSymbolsByKind(kind)
		if err != nil {
			return nil, err
		}
		for _, s := range symbols {
			vec, ok, err := l.store.GetEmbedding(s.Uri)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, cachedSymbol{uri: s.Uri, vec: vec})
		}
	}
	return out, nil
}

// resolveBatch embeds one batch of call sites and writes edges for every
// reference that clears the similarity threshold, returning how many of
// the batch were resolved.
func (l *Linker) resolveBatch(ctx context.Context, batch []model.UnresolvedReference, cache []cachedSymbol) (int, error) {
	inputs := make([]embedding.CallSiteInput, len(batch))
	for i, ref := range batch {
		inputs[i] = embedding.CallSiteInput{
			CallerName: ref.Name,
			Context:    l.readLines(ref.FilePath, ref.Line-2, ref.Line+2),
			Imports:    l.importStrings(ref.FilePath),
		}
	}

	vecs, err := l.engine.EmbedCallSites(ctx, inputs)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for i, ref := range batch {
		matches := topMatches(vecs[i], cache, l.threshold, l.topKOrDefault())
		if len(matches) == 0 {
			if err := l.store.MarkReferenceExternal(ref.ID); err != nil {
				return resolved, err
			}
			continue
		}

		for _, m := range matches {
			if err := l.store.InsertEdge(model.Edge{From: ref.FromUri, To: m.uri, Kind: model.EdgeCalls, Confidence: m.score}); err != nil {
				return resolved, err
			}
			if err := l.store.UpsertCallsiteEmbedding(ref.ID, vecs[i]); err != nil {
				return resolved, err
			}
		}
		if err := l.store.ResolveReference(ref.ID); err != nil {
			return resolved, err
		}
		resolved++
	}
	return resolved, nil
}

func (l *Linker) topKOrDefault() int {
	if l.topK <= 0 {
		return 5
	}
	return l.topK
}

// importStrings renders a file's imports as "<namespace> as <alias or '*'>"
// per spec §4.6.2 step 2(c).
func (l *Linker) importStrings(path string) []string {
	imports, err := l.store.FindImportsInFile(path)
	if err != nil {
		return nil
	}
	out := make([]string, len(imports))
	for i, imp := range imports {
		alias := imp.Alias
		if alias == "" {
			alias = "*"
		}
		out[i] = imp.TargetNamespace + " as " + alias
	}
	return out
}

type scoredURI struct {
	uri   model.SymbolUri
	score float64
}

// topMatches scores query against every cached symbol vector, keeping
// matches at or above threshold and returning at most topK, sorted
// descending (spec §4.6.2 step 4).
func topMatches(query []float32, cache []cachedSymbol, threshold float64, topK int) []scoredURI {
	var matches []scoredURI
	for _, c := range cache {
		score := store.CosineSimilarity(query, c.vec)
		if score >= threshold {
			matches = append(matches, scoredURI{uri: c.uri, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
