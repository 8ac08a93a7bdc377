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
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/chronicleprotocol/scalarfs/pathvar"
	"github.com/chronicleprotocol/scalarfs/sliceutil"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Second
)

type CacheFSOption func(*CacheFS)

// WithCacheSize sets the maximum number of cached glob and exists results
// each. The default is 256.
func WithCacheSize(size int) CacheFSOption {
	return func(c *CacheFS) {
		c.size = size
	}
}

// WithCacheTTL sets how long cached results are used. The default is 5s.
func WithCacheTTL(ttl time.Duration) CacheFSOption {
	return func(c *CacheFS) {
		c.ttl = ttl
	}
}

// NewCacheFS creates a new cache file system.
//
// The cache file system caches the results of Glob and Exists calls of the
// underlying file system for a limited time. All other calls are passed
// through, writes through the cache file system drop all cached results.
//
// CacheFS implements the pathvar.UncachedProbe interface, so path-variable
// references with the no-cache modifier bypass the cache.
func NewCacheFS(fs FileSystem, opts ...CacheFSOption) *CacheFS {
	c := &CacheFS{fs: fs, size: defaultCacheSize, ttl: defaultCacheTTL}
	for _, opt := range opts {
		opt(c)
	}
	c.globs = expirable.NewLRU[string, []string](c.size, nil, c.ttl)
	c.exists = expirable.NewLRU[string, bool](c.size, nil, c.ttl)
	return c
}

type CacheFS struct {
	fs     FileSystem
	size   int
	ttl    time.Duration
	globs  *expirable.LRU[string, []string]
	exists *expirable.LRU[string, bool]
}

// Uncached implements the pathvar.UncachedProbe interface.
func (c *CacheFS) Uncached() pathvar.Probe {
	return c.fs
}

// Purge drops all cached results.
func (c *CacheFS) Purge() {
	c.globs.Purge()
	c.exists.Purge()
}

// Open implements the FileSystem interface.
func (c *CacheFS) Open(name string) (fs.File, error) {
	return c.fs.Open(name)
}

// Stat implements the FileSystem interface.
func (c *CacheFS) Stat(name string) (fs.FileInfo, error) {
	return c.fs.Stat(name)
}

// ReadFile implements the FileSystem interface.
func (c *CacheFS) ReadFile(name string) ([]byte, error) {
	return c.fs.ReadFile(name)
}

// Create implements the FileSystem interface.
func (c *CacheFS) Create(name string) (io.WriteCloser, error) {
	w, err := c.fs.Create(name)
	if err != nil {
		return nil, err
	}
	return &purgeOnClose{WriteCloser: w, purge: c.Purge}, nil
}

// Remove implements the FileSystem interface.
func (c *CacheFS) Remove(name string) error {
	defer c.Purge()
	return c.fs.Remove(name)
}

// Rename implements the FileSystem interface.
func (c *CacheFS) Rename(oldName, newName string) error {
	defer c.Purge()
	return c.fs.Rename(oldName, newName)
}

// Exists implements the FileSystem interface.
func (c *CacheFS) Exists(name string) bool {
	if ok, hit := c.exists.Get(name); hit {
		return ok
	}
	ok := c.fs.Exists(name)
	c.exists.Add(name, ok)
	return ok
}

// Glob implements the FileSystem interface. Failed globs are not cached.
func (c *CacheFS) Glob(pattern string) ([]string, error) {
	if m, hit := c.globs.Get(pattern); hit {
		return sliceutil.Copy(m), nil
	}
	m, err := c.fs.Glob(pattern)
	if err != nil {
		return nil, err
	}
	c.globs.Add(pattern, sliceutil.Copy(m))
	return m, nil
}

type purgeOnClose struct {
	io.WriteCloser
	purge func()
}

func (p *purgeOnClose) Close() error {
	defer p.purge()
	return p.WriteCloser.Close()
}
