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
	"maps"
	"sync"
)

// Entry is a named variable value.
type Entry struct {
	Name  string
	Value Value
}

// Reader provides read access to session variables.
//
// Implementations must be safe for concurrent reads. Names are looked up as
// given, whether a store folds case is up to the store.
type Reader interface {
	// Get returns the value of the named variable. The second result is false
	// if the variable does not exist.
	Get(name string) (Value, bool)

	// Enumerate returns a snapshot of all variables. The order is not
	// specified and may differ between calls.
	Enumerate() []Entry
}

// Store provides read and write access to session variables.
type Store interface {
	Reader

	// Set creates or replaces the named variable.
	Set(name string, value Value)

	// Remove deletes the named variable. Removing a missing variable is not
	// an error.
	Remove(name string)
}

// Lookup returns the value of a variable that must exist and must not be
// null.
func Lookup(r Reader, name string) (Value, error) {
	v, ok := r.Get(name)
	if !ok {
		return Value{}, errNotFoundFn(name)
	}
	if v.IsNull() {
		return Value{}, errNullValueFn(name)
	}
	return v, nil
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vars: make(map[string]Value)}
}

// MemoryStore is an in-memory Store guarded by a read-write lock.
type MemoryStore struct {
	mu   sync.RWMutex
	vars map[string]Value
}

// Get implements the Reader interface.
func (s *MemoryStore) Get(name string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Enumerate implements the Reader interface. Entries are returned in map
// iteration order.
func (s *MemoryStore) Enumerate() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.vars))
	for name, v := range s.vars {
		out = append(out, Entry{Name: name, Value: v})
	}
	return out
}

// Set implements the Store interface.
func (s *MemoryStore) Set(name string, value Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

// Remove implements the Store interface.
func (s *MemoryStore) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vars, name)
}

// SetAll sets all variables from the map at once.
func (s *MemoryStore) SetAll(vs map[string]Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.vars, vs)
}
