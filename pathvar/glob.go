// Copyright (C) 2021-2025 Chronicle Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package pathvar

import (
	"strings"
)

// HasGlob returns true if s contains a glob metacharacter.
func HasGlob(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// MatchName reports whether a variable name matches a glob pattern.
//
// The match is byte-wise and case-sensitive: `*` matches any run of bytes
// (including an empty one), `?` matches exactly one byte and every other byte
// matches itself. Bracket classes are not supported.
func MatchName(pattern, name string) bool {
	// Iterative matching with a single backtrack point for the last `*`.
	var (
		p, n         int
		starP, starN = -1, 0
	)
	for n < len(name) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			starP, starN = p, n
			p++
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == name[n]):
			p++
			n++
		case starP >= 0:
			starN++
			p, n = starP+1, starN
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
