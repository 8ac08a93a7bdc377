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
	"errors"
	"fmt"
)

var (
	// ErrNotPathVariable is returned by Parse for strings that do not start
	// with a path-variable scheme.
	ErrNotPathVariable = errors.New("not a path-variable reference")

	// ErrEmptyResult reports that a reference matched no files. Resolve does
	// not return it, callers use it when an empty result is fatal to them.
	ErrEmptyResult = errors.New("no files matched")

	// ErrRecursiveReference reports path-variable references nested deeper
	// than MaxNestingDepth, usually a variable that refers to itself.
	ErrRecursiveReference = errors.New("recursive path-variable reference")
)

var errEmptyVariableRef = errors.New("empty variable reference")

// MaxNestingDepth is the number of path-variable references that may be
// nested in the paths of another reference.
const MaxNestingDepth = 8

func errNotPathVariableFn(ref string) error {
	return fmt.Errorf("pathvar: %w: %q", ErrNotPathVariable, ref)
}

// EmptyResultError returns an ErrEmptyResult error for the given reference.
func EmptyResultError(ref string) error {
	return fmt.Errorf("pathvar: %w: %s", ErrEmptyResult, ref)
}

// RecursiveReferenceError returns an ErrRecursiveReference error for the
// given reference.
func RecursiveReferenceError(ref string) error {
	return fmt.Errorf("pathvar: %w: %s", ErrRecursiveReference, ref)
}

func errModifierFn(modifier string, err error) error {
	return fmt.Errorf("pathvar: %s modifier: %w", modifier, err)
}

func errGlobFn(path string, err error) error {
	return fmt.Errorf("pathvar: glob %q: %w", path, err)
}
