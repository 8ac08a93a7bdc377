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

// inlineSchemes are the prefixes of protocols whose paths carry their content
// or refer to session variables rather than to files.
var inlineSchemes = []string{
	"data:",
	"data+varchar:",
	"data+blob:",
	"variable:",
	"tmp_variable:",
	Scheme,
	TempScheme,
}

// maxSchemeLen is the position before which "://" must appear for a path to
// be considered to have an explicit scheme.
const maxSchemeLen = 20

// IsPassthrough returns true if path must not be rewritten by the append and
// prepend modifiers.
//
// With PassthroughInline set, paths of in-memory protocols (data:,
// data+varchar:, data+blob:, variable:, pathvariable: and their tmp_
// variants) pass through. With
// PassthroughExplicit set, paths with an explicit scheme such as s3:// or
// https:// pass through. Without either flag nothing passes through.
func IsPassthrough(path string, flags Flag) bool {
	if flags.Has(PassthroughInline) && hasInlineScheme(path) {
		return true
	}
	if flags.Has(PassthroughExplicit) && hasExplicitScheme(path) {
		return true
	}
	return false
}

func hasInlineScheme(path string) bool {
	for _, s := range inlineSchemes {
		if strings.HasPrefix(path, s) {
			return true
		}
	}
	return false
}

func hasExplicitScheme(path string) bool {
	pos := strings.Index(path, "://")
	if pos <= 0 || pos >= maxSchemeLen {
		return false
	}
	return !strings.ContainsAny(path[:pos], `/\`)
}
