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

// Package cliui renders TTY-aware colored status output for cmd/codescope,
// grounded on vjache-cie's cmd/cie (which imports fatih/color and
// mattn/go-isatty directly for this purpose; the teacher's own
// internal/ui wrapper package was not present in the retrieval pack, so
// this package fills the same role in codescope's own module path).
package cliui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// InitColors disables color output when noColor is set, NO_COLOR is
// present in the environment, or stdout is not a terminal.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Success prints a green-checked status line to stdout.
func Success(format string, args ...any) {
	successColor.Fprint(os.Stdout, "✓ ")
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

// Warningf prints a yellow warning line to stderr.
func Warningf(format string, args ...any) {
	warnColor.Fprint(os.Stderr, "! ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Errorf prints a red error line to stderr.
func Errorf(format string, args ...any) {
	errorColor.Fprint(os.Stderr, "✗ ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
