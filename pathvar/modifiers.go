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

const (
	// Scheme is the prefix of a path-variable reference.
	Scheme = "pathvariable:"

	// TempScheme is the prefix of a reference to the staging file of a
	// path variable.
	TempScheme = "tmp_pathvariable:"
)

// Flag is a set of modifiers. Flags can be combined with the | operator.
type Flag uint8

const (
	NoGlob              Flag = 1 << iota // no-glob
	Search                               // search
	IgnoreMissing                        // no-missing
	Append                               // append
	Prepend                              // prepend
	PassthroughInline                    // no-scalarfs
	PassthroughExplicit                  // no-protocols
	NoCache                              // no-cache
)

// modifiers maps modifier keywords to flags. The order of the slice is the
// canonical order used by Request.String.
var modifiers = []struct {
	keyword string
	flag    Flag
}{
	{"no-glob", NoGlob},
	{"search", Search},
	{"no-missing", IgnoreMissing},
	{"no-scalarfs", PassthroughInline},
	{"no-protocols", PassthroughExplicit},
	{"no-cache", NoCache},
	{"prepend", Prepend},
	{"append", Append},
}

// Has returns true if all flags in f2 are set in f.
func (f Flag) Has(f2 Flag) bool {
	return f&f2 == f2
}

// String returns the modifier keywords of the set flags joined with ":".
func (f Flag) String() string {
	var kw []string
	for _, m := range modifiers {
		if f.Has(m.flag) {
			kw = append(kw, m.keyword)
		}
	}
	return strings.Join(kw, ":")
}

// ModifierValue is the value of the append or prepend modifier. It is either
// a literal text or a reference to another variable.
type ModifierValue struct {
	Value      string
	IsVariable bool
}

// Literal returns a literal modifier value.
func Literal(s string) ModifierValue {
	return ModifierValue{Value: s}
}

// VariableRef returns a modifier value that refers to the named variable.
func VariableRef(name string) ModifierValue {
	return ModifierValue{Value: name, IsVariable: true}
}

// IsZero returns true if no value was given.
func (v ModifierValue) IsZero() bool {
	return v == ModifierValue{}
}

// String returns the value in reference syntax.
func (v ModifierValue) String() string {
	if v.IsVariable {
		return "$" + v.Value
	}
	return v.Value
}

func parseValue(s string) (ModifierValue, error) {
	if name, ok := strings.CutPrefix(s, "$"); ok {
		if name == "" {
			return ModifierValue{}, errEmptyVariableRef
		}
		return VariableRef(name), nil
	}
	return Literal(s), nil
}

// Request is a parsed path-variable reference.
type Request struct {
	// Pattern is the variable name. It may contain glob metacharacters.
	Pattern string

	// Flags is the set of modifiers.
	Flags Flag

	// AppendValue is the value of the append modifier.
	AppendValue ModifierValue

	// PrependValue is the value of the prepend modifier.
	PrependValue ModifierValue

	// Temporary is true for the tmp_pathvariable: scheme.
	Temporary bool
}

// String returns the reference in canonical form: modifiers in a fixed
// order, values attached to their modifiers, followed by the name.
func (r Request) String() string {
	var b strings.Builder
	if r.Temporary {
		b.WriteString(TempScheme)
	} else {
		b.WriteString(Scheme)
	}
	for _, m := range modifiers {
		if !r.Flags.Has(m.flag) {
			continue
		}
		b.WriteString(m.keyword)
		switch {
		case m.flag == Append && !r.AppendValue.IsZero():
			b.WriteString("!" + r.AppendValue.String())
		case m.flag == Prepend && !r.PrependValue.IsZero():
			b.WriteString("!" + r.PrependValue.String())
		}
		b.WriteByte(':')
	}
	b.WriteString(r.Pattern)
	return b.String()
}

// CanHandle returns true if name is a path-variable reference.
func CanHandle(name string) bool {
	return strings.HasPrefix(name, Scheme) || strings.HasPrefix(name, TempScheme)
}

// Parse parses a path-variable reference.
//
// The part after the scheme is split on ":". Leading segments that are
// modifier keywords are consumed as modifiers, the first segment that is not
// a modifier and all segments after it form the variable name, so names may
// contain colons. If append or prepend was given without a value, the text
// after the last "!" of the name is used as its value.
func Parse(ref string) (Request, error) {
	var (
		req  Request
		rest string
	)
	switch {
	case strings.HasPrefix(ref, TempScheme):
		req.Temporary = true
		rest = ref[len(TempScheme):]
	case strings.HasPrefix(ref, Scheme):
		rest = ref[len(Scheme):]
	default:
		return Request{}, errNotPathVariableFn(ref)
	}
	segments := strings.Split(rest, ":")
	for i, seg := range segments {
		ok, err := req.parseModifier(seg)
		if err != nil {
			return Request{}, err
		}
		if ok {
			continue
		}
		if err := req.parseName(strings.Join(segments[i:], ":")); err != nil {
			return Request{}, err
		}
		break
	}
	return req, nil
}

func (r *Request) parseModifier(seg string) (bool, error) {
	keyword, value, _ := strings.Cut(seg, "!")
	for _, m := range modifiers {
		if m.keyword != keyword {
			continue
		}
		r.Flags |= m.flag
		var err error
		switch m.flag {
		case Append:
			r.AppendValue, err = parseValue(value)
		case Prepend:
			r.PrependValue, err = parseValue(value)
		}
		if err != nil {
			return false, errModifierFn(keyword, err)
		}
		return true, nil
	}
	return false, nil
}

func (r *Request) parseName(name string) error {
	r.Pattern = name
	bang := strings.LastIndexByte(name, '!')
	if bang < 0 {
		return nil
	}
	var keyword string
	switch {
	case r.Flags.Has(Append) && r.AppendValue.IsZero():
		keyword = "append"
	case r.Flags.Has(Prepend) && r.PrependValue.IsZero():
		keyword = "prepend"
	default:
		// Without a pending modifier the "!" is part of the name.
		return nil
	}
	value, err := parseValue(name[bang+1:])
	if err != nil {
		return errModifierFn(keyword, err)
	}
	if keyword == "append" {
		r.AppendValue = value
	} else {
		r.PrependValue = value
	}
	r.Pattern = name[:bang]
	return nil
}
