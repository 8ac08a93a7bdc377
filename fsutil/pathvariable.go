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
	"log/slog"

	"github.com/chronicleprotocol/scalarfs/pathvar"
	"github.com/chronicleprotocol/scalarfs/vars"
)

type PathVariableFSOption func(*PathVariableFS)

// WithPathVariableLogger sets the logger used for debug messages.
func WithPathVariableLogger(logger *slog.Logger) PathVariableFSOption {
	return func(p *PathVariableFS) {
		p.logger = logger
	}
}

// NewPathVariableFS creates the path-variable protocol.
//
// Names are path-variable references (see the pathvar package). Glob expands
// a reference into the files it refers to, using parent to expand globs and
// check whether files exist. All other operations resolve the reference to
// the single path held by the variable and delegate to parent.
//
// If parent implements pathvar.UncachedProbe, references with the no-cache
// modifier bypass its cache.
func NewPathVariableFS(store vars.Reader, parent FileSystem, opts ...PathVariableFSOption) *PathVariableFS {
	p := &PathVariableFS{store: store, parent: parent}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.resolver = pathvar.NewResolver(pathvar.WithLogger(p.logger))
	return p
}

// PathVariableProto returns a ProtoFunc for NewPathVariableFS that uses the
// multiplexer as the parent file system.
func PathVariableProto(store vars.Reader, opts ...PathVariableFSOption) ProtoFunc {
	return func(parent FileSystem) Protocol {
		return NewPathVariableFS(store, parent, opts...)
	}
}

type PathVariableFS struct {
	store    vars.Reader
	parent   FileSystem
	resolver *pathvar.Resolver
	logger   *slog.Logger
}

// CanHandle implements the Protocol interface.
func (p *PathVariableFS) CanHandle(name string) bool {
	return pathvar.CanHandle(name)
}

// Open implements the FileSystem interface.
func (p *PathVariableFS) Open(name string) (fs.File, error) {
	target, err := p.target("open", name)
	if err != nil {
		return nil, err
	}
	return p.parent.Open(target)
}

// Stat implements the FileSystem interface.
func (p *PathVariableFS) Stat(name string) (fs.FileInfo, error) {
	target, err := p.target("stat", name)
	if err != nil {
		return nil, err
	}
	return p.parent.Stat(target)
}

// ReadFile implements the FileSystem interface.
func (p *PathVariableFS) ReadFile(name string) ([]byte, error) {
	target, err := p.target("open", name)
	if err != nil {
		return nil, err
	}
	return p.parent.ReadFile(target)
}

// Create implements the FileSystem interface.
//
// Writing to "tmp_pathvariable:NAME" creates the staging file next to the
// target, a subsequent rename to "pathvariable:NAME" moves it in place.
func (p *PathVariableFS) Create(name string) (io.WriteCloser, error) {
	target, err := p.target("create", name)
	if err != nil {
		return nil, err
	}
	return p.parent.Create(target)
}

// Remove implements the FileSystem interface.
func (p *PathVariableFS) Remove(name string) error {
	target, err := p.target("remove", name)
	if err != nil {
		return err
	}
	return p.parent.Remove(target)
}

// Rename implements the FileSystem interface. Both names must be
// path-variable references.
func (p *PathVariableFS) Rename(oldName, newName string) error {
	src, err := p.target("rename", oldName)
	if err != nil {
		return err
	}
	dst, err := p.target("rename", newName)
	if err != nil {
		return err
	}
	return p.parent.Rename(src, dst)
}

// Exists implements the FileSystem interface. References that cannot be
// resolved do not exist.
func (p *PathVariableFS) Exists(name string) bool {
	target, err := p.target("stat", name)
	if err != nil {
		return false
	}
	return p.parent.Exists(target)
}

// Glob implements the FileSystem interface.
//
// Resolved paths that are path-variable references themselves are expanded
// as well, up to pathvar.MaxNestingDepth levels.
func (p *PathVariableFS) Glob(pattern string) ([]string, error) {
	return p.glob(pattern, 0)
}

func (p *PathVariableFS) glob(pattern string, depth int) ([]string, error) {
	if depth > pathvar.MaxNestingDepth {
		return nil, pathError("glob", pattern, pathvar.RecursiveReferenceError(pattern))
	}
	req, err := pathvar.Parse(pattern)
	if err != nil {
		return nil, pathError("glob", pattern, err)
	}
	probe := nestedProbe{pv: p, probe: p.parent, depth: depth}
	paths, err := p.resolver.Resolve(req, p.store, probe)
	if err != nil {
		return nil, pathError("glob", pattern, err)
	}
	return paths, nil
}

// target resolves name to the path used by single-file operations. Targets
// that are path-variable references themselves are followed.
func (p *PathVariableFS) target(op, name string) (string, error) {
	target := name
	for depth := 0; pathvar.CanHandle(target); depth++ {
		if depth > pathvar.MaxNestingDepth {
			return "", pathError(op, name, pathvar.RecursiveReferenceError(name))
		}
		req, err := pathvar.Parse(target)
		if err != nil {
			return "", pathError(op, name, err)
		}
		if target, err = p.resolver.Target(req, p.store); err != nil {
			return "", pathError(op, name, err)
		}
	}
	p.logger.Debug("Resolved path variable target", "op", op, "name", name, "target", target)
	return target, nil
}

// nestedProbe expands path-variable globs directly instead of through the
// parent file system, so that the nesting depth is known.
type nestedProbe struct {
	pv    *PathVariableFS
	probe pathvar.Probe
	depth int
}

func (n nestedProbe) Exists(name string) bool {
	return n.probe.Exists(name)
}

func (n nestedProbe) Glob(pattern string) ([]string, error) {
	if pathvar.CanHandle(pattern) {
		return n.pv.glob(pattern, n.depth+1)
	}
	return n.probe.Glob(pattern)
}

// Uncached implements the pathvar.UncachedProbe interface.
func (n nestedProbe) Uncached() pathvar.Probe {
	if u, ok := n.probe.(pathvar.UncachedProbe); ok {
		return nestedProbe{pv: n.pv, probe: u.Uncached(), depth: n.depth}
	}
	return n
}
