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

// Command scalarfs reads, writes and resolves names through the scalarfs
// protocols.
//
// Session variables are taken from an HCL configuration file and from the
// --var and --list flags:
//
//	scalarfs --list files=a.csv,b.csv resolve 'pathvariable:prepend!/data:files'
//	scalarfs --var out=result.csv write pathvariable:out < result.csv
//	scalarfs cat 'decompress+gz:/data/report.csv.gz'
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
