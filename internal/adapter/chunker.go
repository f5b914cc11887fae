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
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/kraklabs/codescope/internal/model"
)

// Chunker configuration defaults (spec §4.3).
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
	MinChunkSize     = 100
)

// Chunk is one overlapping slice of a document's content.
type Chunk struct {
	Text      string
	StartByte int
	EndByte   int
	LineStart int
	LineEnd   int
}

// ChunkDocument splits content using the default chunk size and overlap.
func ChunkDocument(content []byte) []Chunk {
	return chunkWith(content, DefaultChunkSize, DefaultOverlap)
}

// chunkWith implements the spec §4.3 document chunker algorithm: emit a
// single chunk when content fits within chunkSize; otherwise walk forward,
// searching a ±500-byte window around each chunkSize-byte target for a
// paragraph break, then a line break, then a space, falling back to a hard
// cut, always retreating to a UTF-8 codepoint boundary, and carrying back
// `overlap` bytes into the next chunk.
func chunkWith(content []byte, chunkSize, overlap int) []Chunk {
	if chunkSize < MinChunkSize {
		chunkSize = MinChunkSize
	}
	if maxOverlap := chunkSize / 2; overlap > maxOverlap {
		overlap = maxOverlap
	}
	if len(content) <= chunkSize {
		return []Chunk{newChunk(content, 0, len(content))}
	}

	var chunks []Chunk
	pos := 0
	for pos < len(content) {
		target := pos + chunkSize
		if target >= len(content) {
			remainder := len(content) - pos
			if remainder < MinChunkSize && len(chunks) > 0 {
				last := &chunks[len(chunks)-1]
				last.EndByte = len(content)
				last.Text = string(content[last.StartByte:last.EndByte])
				last.LineEnd = lineAt(content, last.EndByte)
			} else {
				chunks = append(chunks, newChunk(content, pos, len(content)))
			}
			break
		}

		breakAt := findBreak(content, pos, target)
		chunks = append(chunks, newChunk(content, pos, breakAt))

		next := retreatToBoundary(content, breakAt-overlap)
		if next <= pos {
			next = breakAt
		}
		pos = next
	}
	return chunks
}

func findBreak(content []byte, pos, target int) int {
	lo, hi := target-500, target+500
	if lo < pos {
		lo = pos
	}
	if hi > len(content) {
		hi = len(content)
	}
	window := content[lo:hi]

	if idx := bytes.LastIndex(window, []byte("\n\n")); idx >= 0 {
		return retreatToBoundary(content, lo+idx+2)
	}
	if idx := bytes.LastIndexByte(window, '\n'); idx >= 0 {
		return retreatToBoundary(content, lo+idx+1)
	}
	if idx := bytes.LastIndexByte(window, ' '); idx >= 0 {
		return retreatToBoundary(content, lo+idx+1)
	}
	return retreatToBoundary(content, target)
}

func retreatToBoundary(content []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(content) {
		return len(content)
	}
	for i > 0 && !utf8.RuneStart(content[i]) {
		i--
	}
	return i
}

func newChunk(content []byte, start, end int) Chunk {
	return Chunk{
		Text:      string(content[start:end]),
		StartByte: start,
		EndByte:   end,
		LineStart: lineAt(content, start),
		LineEnd:   lineAt(content, end),
	}
}

func lineAt(content []byte, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return bytes.Count(content[:offset], []byte("\n")) + 1
}

// ChunkFile turns a non-code file into one or more Document symbols, named
// `<basename>` for a single chunk or `<basename>#chunk_N` (N starting at 1)
// for multiple, per spec §4.3.
func ChunkFile(repo, path string, content []byte) Result {
	base := fileStem(path)
	chunks := ChunkDocument(content)

	var res Result
	for i, c := range chunks {
		name := base
		if len(chunks) > 1 {
			name = fmt.Sprintf("%s#chunk_%d", base, i+1)
		}
		uri := model.New(repo, path, model.KindDocument, name, c.LineStart)
		res.Symbols = append(res.Symbols, model.Symbol{
			Uri: uri, Kind: model.KindDocument, Name: name, Path: path,
			LineStart: c.LineStart, LineEnd: c.LineEnd, Content: c.Text,
		})
	}
	return res
}
