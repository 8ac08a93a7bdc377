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

// Package errutil contains helpers for accumulating and inspecting errors
// returned by the filesystem layers.
package errutil

import (
	"strings"
)

// Append combines err with errs. Nil errors are skipped and nested
// MultiError values are flattened. It returns nil if no error remains and the
// error itself if only one remains.
func Append(err error, errs ...error) error {
	var m MultiError
	m = m.add(err)
	for _, e := range errs {
		m = m.add(e)
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}

// MultiError is a collection of errors that occurred during a single
// operation, e.g. closing both the decoder and the underlying file.
type MultiError []error

func (m MultiError) add(err error) MultiError {
	if err == nil {
		return m
	}
	// Only direct MultiErrors are flattened, wrapped ones are kept as is.
	if e, ok := err.(MultiError); ok {
		return append(m, e...)
	}
	return append(m, err)
}

// Error implements the error interface.
func (m MultiError) Error() string {
	switch len(m) {
	case 0:
		return ""
	case 1:
		return m[0].Error()
	}
	var b strings.Builder
	b.WriteString("multiple errors: [")
	for i, err := range m {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	b.WriteString("]")
	return b.String()
}

// Unwrap returns all collected errors, so errors.Is and errors.As inspect
// every one of them.
func (m MultiError) Unwrap() []error {
	return m
}
