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

package config

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/chronicleprotocol/scalarfs/vars"
)

// ToValue converts a cty value to a session variable value.
//
// Strings become text, lists, tuples and sets become lists with their
// elements converted recursively and null becomes null. Every other type is
// kept as an opaque value named after its cty type.
func ToValue(v cty.Value) vars.Value {
	if v.IsNull() {
		return vars.Null()
	}
	if !v.IsKnown() {
		return vars.Other("unknown", nil)
	}
	v, _ = v.Unmark()
	t := v.Type()
	switch {
	case t == cty.String:
		return vars.Text(v.AsString())
	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		elems := make([]vars.Value, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			elems = append(elems, ToValue(e))
		}
		return vars.List(elems...)
	case t == cty.Number:
		return vars.Other(t.FriendlyName(), v.AsBigFloat().Text('g', -1))
	case t == cty.Bool:
		return vars.Other(t.FriendlyName(), v.True())
	default:
		return vars.Other(t.FriendlyName(), v.GoString())
	}
}
