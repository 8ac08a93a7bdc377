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
	"github.com/chronicleprotocol/scalarfs/vars"
)

// ExtractPaths returns the paths held by a variable value.
//
// A text or blob value yields a single path, a list yields its elements in
// order. Lists must contain only text or blob elements and no nulls. Null
// values and values of any other type are rejected.
//
// Returned errors are *vars.Error values with an empty Name.
func ExtractPaths(v vars.Value) ([]string, error) {
	switch v.Kind() {
	case vars.KindText, vars.KindBlob:
		s, _ := v.Str()
		return []string{s}, nil
	case vars.KindList:
		elems := v.Elems()
		paths := make([]string, 0, len(elems))
		for _, e := range elems {
			if e.IsNull() {
				return nil, &vars.Error{Detail: "list contains NULL element", Err: vars.ErrNullValue}
			}
			s, ok := e.Str()
			if !ok {
				return nil, &vars.Error{
					Type:   v.Type(),
					Detail: "list elements must be text or blob",
					Err:    vars.ErrTypeMismatch,
				}
			}
			paths = append(paths, s)
		}
		return paths, nil
	case vars.KindNull:
		return nil, &vars.Error{Err: vars.ErrNullValue}
	default:
		return nil, &vars.Error{
			Type:   v.Type(),
			Detail: "must be text, blob or a list of these",
			Err:    vars.ErrTypeMismatch,
		}
	}
}

// lookupPaths looks up a variable that must exist and extracts its paths.
// Errors name the variable.
func lookupPaths(r vars.Reader, name string) ([]string, error) {
	v, err := vars.Lookup(r, name)
	if err != nil {
		return nil, err
	}
	paths, err := ExtractPaths(v)
	if err != nil {
		return nil, withName(err, name)
	}
	return paths, nil
}

// withName returns a copy of a *vars.Error with the variable name set.
func withName(err error, name string) error {
	e, ok := err.(*vars.Error)
	if !ok {
		return err
	}
	c := *e
	c.Name = name
	return &c
}
