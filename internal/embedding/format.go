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
	"strings"
	"unicode/utf8"
)

// formatSymbolHead renders the spec §4.4 head template:
// "Symbol: <name>\nKind: <kind>\n[Signature: <sig>\n]Context: <first 1500 chars of content>\n"
func formatSymbolHead(s SymbolInput) string {
	var b strings.Builder
	b.WriteString("Symbol: ")
	b.WriteString(s.Name)
	b.WriteString("\nKind: ")
	b.WriteString(s.Kind)
	b.WriteString("\n")
	if s.Signature != "" {
		b.WriteString("Signature: ")
		b.WriteString(s.Signature)
		b.WriteString("\n")
	}
	b.WriteString("Context: ")
	b.WriteString(truncateRunes(s.Content, 1500))
	b.WriteString("\n")
	return b.String()
}

// formatSymbolBody renders the spec §4.4 body template:
// "Context from <name>: <chunk>\n"
func formatSymbolBody(name, chunk string) string {
	return "Context from " + name + ": " + chunk + "\n"
}

// formatCallSite renders the spec §4.4 call-site template:
// "Caller: <name>\n[Context: …]\n[Imports: i1, i2, …]\n"
func formatCallSite(s CallSiteInput) string {
	var b strings.Builder
	b.WriteString("Caller: ")
	b.WriteString(s.CallerName)
	b.WriteString("\n")
	if s.Context != "" {
		b.WriteString("Context: ")
		b.WriteString(s.Context)
		b.WriteString("\n")
	}
	if len(s.Imports) > 0 {
		b.WriteString("Imports: ")
		b.WriteString(strings.Join(s.Imports, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// truncateRunes returns the first n runes of s, never splitting a codepoint.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// slidingWindows walks content starting at offset start in windows of size
// chunkSize with the given overlap, each boundary retreated to a UTF-8
// codepoint boundary (spec §4.4: "Window boundaries must respect codepoint
// boundaries").
func slidingWindows(content string, chunkSize, overlap, start int) []string {
	b := []byte(content)
	if start >= len(b) {
		return nil
	}
	var windows []string
	pos := start
	for pos < len(b) {
		end := pos + chunkSize
		if end > len(b) {
			end = len(b)
		}
		end = retreatToBoundary(b, end)
		if end <= pos {
			break
		}
		windows = append(windows, string(b[pos:end]))
		next := retreatToBoundary(b, end-overlap)
		if next <= pos {
			next = end
		}
		pos = next
	}
	return windows
}

func retreatToBoundary(b []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(b) {
		return len(b)
	}
	for i > 0 && !utf8.RuneStart(b[i]) {
		i--
	}
	return i
}
