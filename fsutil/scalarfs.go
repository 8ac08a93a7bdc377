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
	"log/slog"
	"time"

	"github.com/chronicleprotocol/scalarfs/vars"
)

type Option func(*options)

type options struct {
	workingDir      string
	globCacheSize   int
	globCacheTTL    time.Duration
	decompressLimit int64
	logger          *slog.Logger
}

// WithWorkingDir sets the directory relative OS paths are resolved against.
func WithWorkingDir(wd string) Option {
	return func(o *options) {
		o.workingDir = wd
	}
}

// WithGlobCache enables caching of glob and exists results used by
// path-variable references. A size of zero disables the cache, a zero TTL
// uses the default of 5s.
func WithGlobCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.globCacheSize = size
		o.globCacheTTL = ttl
	}
}

// WithDecompressLimit sets the maximum size of decompressed data.
func WithDecompressLimit(limit int64) Option {
	return func(o *options) {
		o.decompressLimit = limit
	}
}

// WithLogger sets the logger used by the protocols.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a file system with all scalarfs protocols registered: data:,
// data+varchar: and data+blob: literals, variable: and tmp_variable:
// contents, pathvariable: and tmp_pathvariable: references and the
// decompress+gz: and decompress+zstd: wrappers. All other names are OS
// paths.
func New(store vars.Store, opts ...Option) *Mux {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	var decompressOpts []DecompressFSOption
	if o.decompressLimit > 0 {
		decompressOpts = append(decompressOpts, WithDecompressReadLimit(o.decompressLimit))
	}
	muxOpts := []MuxOption{
		WithMuxRoot(NewOSFS(WithOSWorkingDir(o.workingDir))),
		WithMuxProtocols(
			DataProto,
			VariableProto(store),
			PathVariableProto(store, WithPathVariableLogger(o.logger)),
			DecompressProto(decompressOpts...),
		),
	}
	if o.globCacheSize > 0 {
		cacheOpts := []CacheFSOption{WithCacheSize(o.globCacheSize)}
		if o.globCacheTTL > 0 {
			cacheOpts = append(cacheOpts, WithCacheTTL(o.globCacheTTL))
		}
		muxOpts = append(muxOpts, WithMuxCache(cacheOpts...))
	}
	return NewMux(muxOpts...)
}
