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

// Package config loads scalarfs configuration files.
//
// A configuration file is written in HCL. It declares session variables in
// "variables" blocks and configures the file system in an optional
// "filesystem" block:
//
//	variables {
//	  root  = "/data"
//	  files = ["${var.root}/a.csv", "${var.root}/b.csv"]
//	  blob  = to_blob_uri("a\tb")
//	}
//
//	filesystem {
//	  working_dir      = "/srv"
//	  glob_cache_size  = 128
//	  glob_cache_ttl   = "5s"
//	  decompress_limit = 134217728
//	}
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/chronicleprotocol/scalarfs/fsutil"
	"github.com/chronicleprotocol/scalarfs/vars"
)

// Config is a parsed configuration file.
type Config struct {
	FileSystem *FileSystem `hcl:"filesystem,block"`

	// Variables holds the values declared in variables blocks.
	Variables map[string]vars.Value
}

// FileSystem configures the file system.
type FileSystem struct {
	// WorkingDir is the directory relative OS paths are resolved against.
	WorkingDir string `hcl:"working_dir,optional"`

	// GlobCacheSize is the number of cached glob results, zero disables
	// the cache.
	GlobCacheSize int `hcl:"glob_cache_size,optional"`

	// GlobCacheTTL is the duration cached glob results are used for, in
	// time.ParseDuration syntax.
	GlobCacheTTL string `hcl:"glob_cache_ttl,optional"`

	// DecompressLimit is the maximum size of decompressed data in bytes.
	DecompressLimit int64 `hcl:"decompress_limit,optional"`

	Range hcl.Range `hcl:",def_range"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errConfigFn(err)
	}
	return Parse(src, path)
}

// Parse parses a configuration file. The filename is used in error messages.
func Parse(src []byte, filename string) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errConfigFn(diags)
	}
	ctx := &hcl.EvalContext{Functions: Functions()}
	body, diags := Variables(ctx, file.Body)
	if diags.HasErrors() {
		return nil, errConfigFn(diags)
	}
	cfg := &Config{}
	if diags := gohcl.DecodeBody(body, ctx, cfg); diags.HasErrors() {
		return nil, errConfigFn(diags)
	}
	cfg.Variables = make(map[string]vars.Value)
	for name, v := range ctx.Variables[varObjectName].AsValueMap() {
		cfg.Variables[name] = ToValue(v)
	}
	if cfg.FileSystem != nil {
		if _, err := cfg.FileSystem.globCacheTTL(); err != nil {
			return nil, errConfigFn(err)
		}
	}
	return cfg, nil
}

// Store returns a new variable store with the declared variables.
func (c *Config) Store() *vars.MemoryStore {
	s := vars.NewMemoryStore()
	s.SetAll(c.Variables)
	return s
}

// Options returns the file system options.
func (c *Config) Options() []fsutil.Option {
	if c.FileSystem == nil {
		return nil
	}
	f := c.FileSystem
	var opts []fsutil.Option
	if f.WorkingDir != "" {
		opts = append(opts, fsutil.WithWorkingDir(f.WorkingDir))
	}
	if f.GlobCacheSize > 0 {
		ttl, _ := f.globCacheTTL()
		opts = append(opts, fsutil.WithGlobCache(f.GlobCacheSize, ttl))
	}
	if f.DecompressLimit > 0 {
		opts = append(opts, fsutil.WithDecompressLimit(f.DecompressLimit))
	}
	return opts
}

func (f *FileSystem) globCacheTTL() (time.Duration, error) {
	if f.GlobCacheTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(f.GlobCacheTTL)
	if err != nil {
		return 0, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid glob_cache_ttl",
			Detail:   err.Error(),
			Subject:  f.Range.Ptr(),
		}
	}
	return ttl, nil
}

func errConfigFn(err error) error {
	return fmt.Errorf("config: %w", err)
}
