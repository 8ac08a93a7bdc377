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

// Package vars models session variables: the values a query session can
// store under a name, and the stores that hold them.
//
// Only text-like values (Text, Blob) and lists of them can be used as file
// paths or file contents. Every other type is represented as Other and keeps
// its type name for diagnostics.
package vars

import (
	"fmt"
	"strings"
)

// Kind is the kind of a variable value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindBlob
	KindList
	KindOther
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	case KindList:
		return "list"
	default:
		return "other"
	}
}

// Value is an immutable variable value.
//
// The zero value is a null value.
type Value struct {
	kind  Kind
	str   string
	elems []Value
	typ   string
	raw   any
}

// Null returns a null value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Blob returns a binary value.
func Blob(b []byte) Value { return Value{kind: KindBlob, str: string(b)} }

// List returns a list value with the given elements.
func List(elems ...Value) Value {
	c := make([]Value, len(elems))
	copy(c, elems)
	return Value{kind: KindList, elems: c}
}

// TextList returns a list of text values.
func TextList(ss ...string) Value {
	elems := make([]Value, len(ss))
	for i, s := range ss {
		elems[i] = Text(s)
	}
	return Value{kind: KindList, elems: elems}
}

// Other returns a value of a type that cannot be used as a path or as file
// content. The type name is reported in type mismatch errors.
func Other(typeName string, v any) Value {
	return Value{kind: KindOther, typ: typeName, raw: v}
}

// Of converts a Go value to a Value.
//
// Supported conversions: nil to Null, string to Text, []byte to Blob,
// []string and []any to List. A Value is returned as is. Any other type
// becomes Other named after its Go type.
func Of(v any) Value {
	switch v := v.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case string:
		return Text(v)
	case []byte:
		return Blob(v)
	case []string:
		return TextList(v...)
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			elems[i] = Of(e)
		}
		return Value{kind: KindList, elems: elems}
	default:
		return Other(fmt.Sprintf("%T", v), v)
	}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true if the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the content of a Text or Blob value. The second result is false
// for every other kind.
func (v Value) Str() (string, bool) {
	if v.kind == KindText || v.kind == KindBlob {
		return v.str, true
	}
	return "", false
}

// Elems returns the elements of a list value, nil for other kinds.
func (v Value) Elems() []Value {
	if v.kind != KindList {
		return nil
	}
	c := make([]Value, len(v.elems))
	copy(c, v.elems)
	return c
}

// Type returns a human readable type name, e.g. "text", "list<text>" or the
// name given to Other.
func (v Value) Type() string {
	switch v.kind {
	case KindList:
		elem := ""
		for _, e := range v.elems {
			if e.IsNull() {
				continue
			}
			switch {
			case elem == "":
				elem = e.Type()
			case elem != e.Type():
				return "list<mixed>"
			}
		}
		if elem == "" {
			return "list"
		}
		return "list<" + elem + ">"
	case KindOther:
		return v.typ
	default:
		return v.kind.String()
	}
}

// String returns the value rendered as file content. Lists are rendered as
// "[a, b]", null as an empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindText, KindBlob:
		return v.str
	case KindList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if e.IsNull() {
				b.WriteString("NULL")
				continue
			}
			b.WriteString(e.String())
		}
		b.WriteByte(']')
		return b.String()
	default:
		return fmt.Sprint(v.raw)
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText, KindBlob:
		return v.str == o.str
	case KindList:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	default:
		return v.typ == o.typ && fmt.Sprint(v.raw) == fmt.Sprint(o.raw)
	}
}
