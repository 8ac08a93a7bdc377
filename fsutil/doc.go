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

// Package fsutil provides virtual file systems that map names with a
// protocol prefix to in-memory content, session variables or other files.
//
// Each protocol implements the Protocol interface. The Mux routes a name to
// the first protocol that can handle it and falls back to the OS file
// system, protocols receive the Mux as their parent so they can refer to
// files of any other protocol:
//
//	data:, data+varchar:, data+blob:   literal content (DataFS)
//	variable:, tmp_variable:           content of a session variable (VariableFS)
//	pathvariable:, tmp_pathvariable:   files referenced by a session variable (PathVariableFS)
//	decompress+gz:, decompress+zstd:   decompressed content of another file (DecompressFS)
//
// Example:
//
//	store := vars.NewMemoryStore()
//	store.Set("inputs", vars.TextList("/data/a.csv", "/data/b.csv"))
//
//	fsys := fsutil.New(store)
//
//	// Expand the reference into the files it refers to.
//	files, err := fsys.Glob("pathvariable:no-missing:inputs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Read a compressed file referenced by a variable.
//	store.Set("report", vars.Text("/data/report.csv.gz"))
//	b, err := fsys.ReadFile("decompress+gz:pathvariable:report")
//	if err != nil {
//		log.Fatal(err)
//	}
package fsutil
