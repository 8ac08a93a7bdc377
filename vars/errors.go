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

package vars

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a named variable does not exist.
	ErrNotFound = errors.New("variable not found")

	// ErrNullValue is returned when a variable exists but holds null, or when
	// a list holds a null element.
	ErrNullValue = errors.New("variable is null")

	// ErrTypeMismatch is returned when a variable holds a value of a type
	// that cannot be used in the requested context.
	ErrTypeMismatch = errors.New("variable has unsupported type")
)

// Error describes a failed variable access. Err is one of ErrNotFound,
// ErrNullValue or ErrTypeMismatch.
type Error struct {
	Name   string // Variable name.
	Type   string // Observed type, set for type mismatches.
	Detail string // Optional additional context.
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string
	switch {
	case errors.Is(e.Err, ErrNotFound):
		msg = fmt.Sprintf("variable '%s' not found", e.Name)
	case errors.Is(e.Err, ErrNullValue):
		msg = fmt.Sprintf("variable '%s' is NULL", e.Name)
	case errors.Is(e.Err, ErrTypeMismatch):
		msg = fmt.Sprintf("variable '%s' has unsupported type %s", e.Name, e.Type)
	default:
		msg = fmt.Sprintf("variable '%s': %v", e.Name, e.Err)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the underlying error kind.
func (e *Error) Unwrap() error { return e.Err }

func errNotFoundFn(name string) error {
	return &Error{Name: name, Err: ErrNotFound}
}

func errNullValueFn(name string) error {
	return &Error{Name: name, Err: ErrNullValue}
}
