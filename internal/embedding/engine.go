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

// Package embedding implements C4: a thin wrapper around an opaque
// sentence-embedding model, formatting symbol and call-site text per
// spec §4.4 and exposing batched inference.
//
// vjache-cie's ingestion config (pkg/ingestion/config.go's
// IngestionConfig.EmbeddingProvider, "Options: mock, nomic, ollama, openai")
// is the grounding for this package's Provider seam: "mock" is the safe
// default used by the teacher's own test suite, reused here as Engine's
// dependency-free default; "ollama" is adapted into an HTTP-backed
// provider for real model inference.
package embedding

import (
	"context"
	"fmt"
)

// Provider is the opaque model boundary: given a batch of formatted texts,
// return one fixed-length vector per text in the same order.
type Provider interface {
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// SymbolEmbedding pairs a symbol's index in the input batch with one of its
// computed vectors — a symbol longer than the head window contributes one
// head vector plus zero or more body vectors (spec §4.4).
type SymbolEmbedding struct {
	SymbolIndex int
	Vector      []float32
	IsHead      bool
}

// Engine is the C4 public surface: embed_query, embed_symbols, embed_call_sites.
type Engine struct {
	provider Provider
}

func New(provider Provider) *Engine {
	return &Engine{provider: provider}
}

// EmbedQuery embeds a single free-text query.
func (e *Engine) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.provider.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding.EmbedQuery: %w", err)
	}
	return vecs[0], nil
}

// EmbedSymbols embeds a batch of SymbolInput, producing one head embedding
// per symbol plus sliding-window body embeddings for content beyond 1500
// bytes (spec §4.4). All vectors for the whole batch are computed in a
// single provider call.
func (e *Engine) EmbedSymbols(ctx context.Context, symbols []SymbolInput) ([]SymbolEmbedding, error) {
	var texts []string
	var owners []int
	var heads []bool

	for i, s := range symbols {
		texts = append(texts, formatSymbolHead(s))
		owners = append(owners, i)
		heads = append(heads, true)

		if len(s.Content) > 1500 {
			for _, w := range slidingWindows(s.Content, 1000, 100, 1000) {
				texts = append(texts, formatSymbolBody(s.Name, w))
				owners = append(owners, i)
				heads = append(heads, false)
			}
		}
	}

	vecs, err := e.provider.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding.EmbedSymbols: %w", err)
	}

	out := make([]SymbolEmbedding, len(vecs))
	for i, v := range vecs {
		out[i] = SymbolEmbedding{SymbolIndex: owners[i], Vector: v, IsHead: heads[i]}
	}
	return out, nil
}

// EmbedCallSites embeds a batch of call-site contexts, one vector per input
// in the same order (spec §4.4, §4.6.2 step 3).
func (e *Engine) EmbedCallSites(ctx context.Context, sites []CallSiteInput) ([][]float32, error) {
	texts := make([]string, len(sites))
	for i, s := range sites {
		texts[i] = formatCallSite(s)
	}
	vecs, err := e.provider.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding.EmbedCallSites: %w", err)
	}
	return vecs, nil
}

// SymbolInput is the subset of a Symbol the engine needs to format text.
type SymbolInput struct {
	Name      string
	Kind      string
	Signature string
	Content   string
}

// CallSiteInput is the text material for one call-site embedding.
type CallSiteInput struct {
	CallerName string
	Context    string
	Imports    []string
}
