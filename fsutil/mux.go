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

package fsutil

import (
	"io"
	"io/fs"
)

type MuxOption func(*Mux)

// WithMuxRoot sets the file system used for names no protocol handles.
// The default is the OS file system.
func WithMuxRoot(root FileSystem) MuxOption {
	return func(m *Mux) {
		m.root = root
	}
}

// WithMuxProtocols registers protocols. For each name, the first protocol
// that can handle it is used.
func WithMuxProtocols(ps ...ProtoFunc) MuxOption {
	return func(m *Mux) {
		m.protoFns = append(m.protoFns, ps...)
	}
}

// WithMuxCache caches the Glob and Exists results protocols get from their
// parent. Writes through the multiplexer drop all cached results.
func WithMuxCache(opts ...CacheFSOption) MuxOption {
	return func(m *Mux) {
		m.cacheOpts = opts
		m.cached = true
	}
}

// NewMux creates a new multiplexer that routes names to registered protocols
// based on their prefix. Names that no protocol handles are passed to the
// root file system.
//
// Protocols receive the multiplexer as their parent, so a protocol can
// refer to files of any other protocol. With WithMuxCache the parent is a
// CacheFS over the multiplexer.
func NewMux(opts ...MuxOption) *Mux {
	m := &Mux{}
	for _, opt := range opts {
		opt(m)
	}
	if m.root == nil {
		m.root = NewOSFS()
	}
	var parent FileSystem = m
	if m.cached {
		m.cache = NewCacheFS(m, m.cacheOpts...)
		parent = m.cache
	}
	for _, fn := range m.protoFns {
		m.protos = append(m.protos, fn(parent))
	}
	return m
}

// Mux is a FileSystem that multiplexes protocols.
//
// Mux implements the pathvar.Probe interface.
type Mux struct {
	root     FileSystem
	protoFns []ProtoFunc
	protos   []Protocol

	cached    bool
	cacheOpts []CacheFSOption
	cache     *CacheFS
}

// Open implements the FileSystem interface.
func (m *Mux) Open(name string) (fs.File, error) {
	return m.route(name).Open(name)
}

// Stat implements the FileSystem interface.
func (m *Mux) Stat(name string) (fs.FileInfo, error) {
	return m.route(name).Stat(name)
}

// ReadFile implements the FileSystem interface.
func (m *Mux) ReadFile(name string) ([]byte, error) {
	return m.route(name).ReadFile(name)
}

// Create implements the FileSystem interface.
func (m *Mux) Create(name string) (io.WriteCloser, error) {
	w, err := m.route(name).Create(name)
	if err != nil || m.cache == nil {
		return w, err
	}
	return &purgeOnClose{WriteCloser: w, purge: m.cache.Purge}, nil
}

// Remove implements the FileSystem interface.
func (m *Mux) Remove(name string) error {
	defer m.purge()
	return m.route(name).Remove(name)
}

// Rename implements the FileSystem interface.
//
// Both names must be handled by the same protocol.
func (m *Mux) Rename(oldName, newName string) error {
	f := m.route(oldName)
	if m.route(newName) != f {
		return errUnsupportedFn("rename", newName)
	}
	defer m.purge()
	return f.Rename(oldName, newName)
}

// Exists implements the FileSystem interface.
func (m *Mux) Exists(name string) bool {
	return m.route(name).Exists(name)
}

// Glob implements the FileSystem interface.
func (m *Mux) Glob(pattern string) ([]string, error) {
	return m.route(pattern).Glob(pattern)
}

func (m *Mux) purge() {
	if m.cache != nil {
		m.cache.Purge()
	}
}

func (m *Mux) route(name string) FileSystem {
	for _, p := range m.protos {
		if p.CanHandle(name) {
			return p
		}
	}
	return m.root
}
