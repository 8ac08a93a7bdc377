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

package sliceutil

// Copy returns a shallow copy of the slice. A nil slice stays nil.
func Copy[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// FlatMapErr applies f to each element and concatenates the returned slices
// in order. It stops at the first error.
func FlatMapErr[T, U any](s []T, f func(T) ([]U, error)) ([]U, error) {
	out := make([]U, 0, len(s))
	for _, x := range s {
		u, err := f(x)
		if err != nil {
			return nil, err
		}
		out = append(out, u...)
	}
	return out, nil
}

// Filter returns a new slice with the elements of the original slice that
// satisfy the predicate f.
func Filter[T any](s []T, f func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, x := range s {
		if f(x) {
			out = append(out, x)
		}
	}
	return out
}

// First returns the first element that satisfies the predicate f.
func First[T any](s []T, f func(T) bool) (v T, ok bool) {
	for _, x := range s {
		if f(x) {
			return x, true
		}
	}
	return v, false
}

// Product returns the cartesian product of outer and inner combined with f.
// The outer slice drives the outer loop, so the result is grouped by the
// elements of outer:
//
//	Product([a, b], [1, 2], f) = [f(a,1), f(a,2), f(b,1), f(b,2)]
func Product[T, U, V any](outer []T, inner []U, f func(T, U) V) []V {
	out := make([]V, 0, len(outer)*len(inner))
	for _, o := range outer {
		for _, i := range inner {
			out = append(out, f(o, i))
		}
	}
	return out
}
