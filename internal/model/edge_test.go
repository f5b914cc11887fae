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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeReverse(t *testing.T) {
	a := New("r", "a.py", KindCallable, "a", 1)
	b := New("r", "b.py", KindCallable, "b", 2)
	e := Edge{From: a, To: b, Kind: EdgeCalls, Confidence: 0.8}
	rev := e.Reverse()
	assert.True(t, rev.From.Equal(b))
	assert.True(t, rev.To.Equal(a))
	assert.Equal(t, e.Kind, rev.Kind)
	assert.Equal(t, e.Confidence, rev.Confidence)
}

func TestEdgeIsDependency(t *testing.T) {
	dep := []EdgeKind{EdgeCalls, EdgeReferences, EdgeInherits}
	for _, k := range dep {
		assert.True(t, k.IsDependency(), k)
	}
	nonDep := []EdgeKind{EdgeDefines, EdgeContains, EdgeExports}
	for _, k := range nonDep {
		assert.False(t, k.IsDependency(), k)
	}
}
