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

package embedding

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSymbolHeadIncludesSignatureWhenPresent(t *testing.T) {
	text := formatSymbolHead(SymbolInput{Name: "Foo", Kind: "callable", Signature: "func Foo()", Content: "body"})
	assert.Contains(t, text, "Symbol: Foo\n")
	assert.Contains(t, text, "Kind: callable\n")
	assert.Contains(t, text, "Signature: func Foo()\n")
	assert.Contains(t, text, "Context: body\n")
}

func TestFormatSymbolHeadOmitsSignatureWhenAbsent(t *testing.T) {
	text := formatSymbolHead(SymbolInput{Name: "Foo", Kind: "callable", Content: "body"})
	assert.NotContains(t, text, "Signature:")
}

func TestFormatCallSiteOmitsEmptySections(t *testing.T) {
	text := formatCallSite(CallSiteInput{CallerName: "main"})
	assert.Equal(t, "Caller: main\n", text)

	full := formatCallSite(CallSiteInput{CallerName: "main", Context: "ctx", Imports: []string{"fmt", "os"}})
	assert.Contains(t, full, "Context: ctx\n")
	assert.Contains(t, full, "Imports: fmt, os\n")
}

func TestSlidingWindowsCoverUTF8Safely(t *testing.T) {
	content := strings.Repeat("a", 1000) + strings.Repeat("本", 500)
	windows := slidingWindows(content, 1000, 100, 1000)
	require.NotEmpty(t, windows)
	for _, w := range windows {
		assert.True(t, len(w) > 0)
	}
}

func TestEngineEmbedSymbolsEmitsBodyWindowsForLongContent(t *testing.T) {
	eng := New(NewMockProvider())
	short := SymbolInput{Name: "short", Kind: "callable", Content: "tiny"}
	long := SymbolInput{Name: "long", Kind: "callable", Content: strings.Repeat("x", 3000)}

	out, err := eng.EmbedSymbols(context.Background(), []SymbolInput{short, long})
	require.NoError(t, err)

	var shortCount, longCount int
	for _, e := range out {
		if e.SymbolIndex == 0 {
			shortCount++
		} else {
			longCount++
		}
	}
	assert.Equal(t, 1, shortCount, "short content should produce only a head embedding")
	assert.Greater(t, longCount, 1, "long content should produce head + body embeddings")
}

func TestMockProviderIsDeterministic(t *testing.T) {
	p := NewMockProvider()
	a, err := p.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)
	b, err := p.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a[0], MockDimension)
}
