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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoostForPathExtensions(t *testing.T) {
	require.InDelta(t, 1.20, boostForPath("internal/store/boost.go"), 1e-9)
	require.InDelta(t, 0.90, boostForPath("docs/GUIDE.md"), 1e-9)
	require.InDelta(t, 0.70, boostForPath("config/app.yaml"), 1e-9)
	require.InDelta(t, 0.50, boostForPath("assets/logo.svg"), 1e-9)
	require.InDelta(t, 1.00, boostForPath("Makefile"), 1e-9)
}

// TestBoostForPathSubstrings covers spec §4.2.3's substring rules, which
// apply regardless of file extension.
func TestBoostForPathSubstrings(t *testing.T) {
	require.InDelta(t, 0.90, boostForPath("README"), 1e-9)
	require.InDelta(t, 0.90, boostForPath("project/README.rst"), 1e-9)
	require.InDelta(t, 0.50, boostForPath("vendor/node_modules/foo.js"), 1e-9)
	require.InDelta(t, 0.50, boostForPath("target/release/build"), 1e-9)
}
