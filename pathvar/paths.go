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

// tempPrefix is prepended to the file name of a staging file.
const tempPrefix = "tmp_"

// TempPath returns the staging path for target: the same directory with the
// file name prefixed with "tmp_". A target without a path separator is
// prefixed as a whole.
//
//	TempPath("/data/out.csv") = "/data/tmp_out.csv"
//	TempPath("out.csv")       = "tmp_out.csv"
func TempPath(target string) string {
	sep := strings.LastIndexAny(target, `/\`)
	if sep < 0 {
		return tempPrefix + target
	}
	return target[:sep+1] + tempPrefix + target[sep+1:]
}

// JoinPath joins two path components with exactly one separator between
// them. Either side may already end or start with a separator. Empty
// components are ignored.
func JoinPath(base, suffix string) string {
	if base == "" {
		return suffix
	}
	if suffix == "" {
		return base
	}
	baseSep := isSeparator(base[len(base)-1])
	suffixSep := isSeparator(suffix[0])
	switch {
	case baseSep && suffixSep:
		return base + suffix[1:]
	case !baseSep && !suffixSep:
		return base + "/" + suffix
	default:
		return base + suffix
	}
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}
