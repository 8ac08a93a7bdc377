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

// Package pathvar resolves path-variable references into file paths.
//
// A path-variable reference names a session variable whose value is a file
// path (or a list of file paths) instead of file content:
//
//	pathvariable:[modifier[!value]:]...name[!value]
//
// The name may itself be a glob pattern over variable names (`*` matches any
// run of characters, `?` matches a single character). Every resolved path
// may be a glob pattern over the filesystem, which is expanded through the
// Probe.
//
// Modifiers:
//
//	no-glob       do not expand globs in resolved paths
//	search        return only the first resolved path that exists
//	no-missing    drop resolved paths that do not exist
//	no-scalarfs   do not rewrite in-memory protocol paths (data:, variable:, ...)
//	no-protocols  do not rewrite paths with an explicit scheme (s3://, https://)
//	no-cache      bypass the glob cache of the filesystem
//	append!value  join value after every path
//	prepend!value join value before every path
//
// A modifier value starting with `$` refers to another variable, which must
// hold text or a list of text. The value of append or prepend may also be
// given after the variable name:
//
//	pathvariable:append!/data.csv:roots
//	pathvariable:append:roots!/data.csv
//
// The tmp_pathvariable: scheme refers to the same variable, but single-file
// operations target the sibling staging file (see TempPath) which is used
// while a file is written before it is renamed to its final name.
package pathvar
