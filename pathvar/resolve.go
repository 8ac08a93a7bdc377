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
	"log/slog"
	"slices"

	"github.com/chronicleprotocol/scalarfs/sliceutil"
	"github.com/chronicleprotocol/scalarfs/vars"
)

// Probe gives the resolver access to the filesystem that resolved paths
// refer to.
type Probe interface {
	// Exists reports whether a file exists.
	Exists(name string) bool

	// Glob returns the names of all files that match the pattern.
	Glob(pattern string) ([]string, error)
}

// UncachedProbe is implemented by probes that cache results. The resolver
// uses the uncached probe for requests with the no-cache modifier.
type UncachedProbe interface {
	Probe
	Uncached() Probe
}

type Option func(*Resolver)

// WithLogger sets the logger used for debug messages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a new path-variable resolver.
//
// The resolver holds no state between calls and may be used concurrently.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

type Resolver struct {
	logger *slog.Logger
}

// Resolve expands a request into a sorted list of paths.
//
// The variable pattern is resolved against store: a plain name is looked up
// directly, a glob pattern collects the paths of every matching variable
// that holds text or a list of text. The prepend and append modifiers are
// applied as a cartesian product, every path that contains glob
// metacharacters is expanded through probe, and the search and no-missing
// modifiers filter the result.
//
// If a plain name does not resolve to a usable value, the canonical reference
// is returned as the only path, so that opening it reports the actual
// problem. Errors in modifier values abort the resolution.
func (r *Resolver) Resolve(req Request, store vars.Reader, probe Probe) ([]string, error) {
	if req.Flags.Has(NoCache) {
		if u, ok := probe.(UncachedProbe); ok {
			probe = u.Uncached()
		}
	}
	paths, ok := r.resolveNames(req, store)
	if !ok {
		return []string{req.String()}, nil
	}
	var err error
	if req.Flags.Has(Prepend) {
		if paths, err = r.applyPrepend(req, store, paths); err != nil {
			return nil, err
		}
	}
	if req.Flags.Has(Append) {
		if paths, err = r.applyAppend(req, store, paths); err != nil {
			return nil, err
		}
	}
	if !req.Flags.Has(NoGlob) {
		if paths, err = expandGlobs(paths, probe); err != nil {
			return nil, err
		}
	}
	if req.Flags.Has(Search) {
		// Search keeps the resolution order, earlier roots take precedence.
		if p, ok := sliceutil.First(paths, probe.Exists); ok {
			r.logger.Debug("Search found existing path", "pattern", req.Pattern, "path", p)
			return []string{p}, nil
		}
		r.logger.Debug("Search found no existing path", "pattern", req.Pattern, "candidates", len(paths))
		return []string{}, nil
	}
	if req.Flags.Has(IgnoreMissing) {
		paths = sliceutil.Filter(paths, probe.Exists)
	}
	slices.Sort(paths)
	r.logger.Debug("Resolved path variable", "pattern", req.Pattern, "flags", req.Flags.String(), "paths", len(paths))
	return paths, nil
}

// Target resolves a request to the single file path used by single-file
// operations like open, remove or rename.
//
// The variable is looked up directly (the pattern is not treated as a glob)
// and must hold text or a blob. For temporary requests the staging path of
// the target is returned. Modifiers are ignored.
func (r *Resolver) Target(req Request, store vars.Reader) (string, error) {
	v, err := vars.Lookup(store, req.Pattern)
	if err != nil {
		return "", err
	}
	switch v.Kind() {
	case vars.KindText, vars.KindBlob:
	case vars.KindList:
		return "", &vars.Error{
			Name:   req.Pattern,
			Type:   v.Type(),
			Detail: "list variables can be read through globbing but not used for single-file operations",
			Err:    vars.ErrTypeMismatch,
		}
	default:
		return "", &vars.Error{
			Name:   req.Pattern,
			Type:   v.Type(),
			Detail: "must be text or blob to be used as a path",
			Err:    vars.ErrTypeMismatch,
		}
	}
	target, _ := v.Str()
	if req.Temporary {
		return TempPath(target), nil
	}
	return target, nil
}

// resolveNames returns the paths held by the variables that match the
// request pattern. The second result is false if the pattern is a plain name
// that does not resolve to paths.
func (r *Resolver) resolveNames(req Request, store vars.Reader) ([]string, bool) {
	if !HasGlob(req.Pattern) {
		paths, err := lookupPaths(store, req.Pattern)
		if err != nil {
			r.logger.Debug("Deferring unresolved path variable", "name", req.Pattern, "error", err)
			return nil, false
		}
		return paths, true
	}
	paths := make([]string, 0)
	for _, e := range store.Enumerate() {
		if !MatchName(req.Pattern, e.Name) {
			continue
		}
		p, err := ExtractPaths(e.Value)
		if err != nil {
			r.logger.Debug("Skipping variable", "name", e.Name, "pattern", req.Pattern, "error", withName(err, e.Name))
			continue
		}
		paths = append(paths, p...)
	}
	return paths, true
}

func (r *Resolver) applyPrepend(req Request, store vars.Reader, paths []string) ([]string, error) {
	prefixes, err := modifierValues(store, req.PrependValue)
	if err != nil {
		return nil, errModifierFn("prepend", err)
	}
	if len(prefixes) == 0 {
		return paths, nil
	}
	return sliceutil.Product(prefixes, paths, func(prefix, path string) string {
		if IsPassthrough(path, req.Flags) {
			return path
		}
		return JoinPath(prefix, path)
	}), nil
}

func (r *Resolver) applyAppend(req Request, store vars.Reader, paths []string) ([]string, error) {
	suffixes, err := modifierValues(store, req.AppendValue)
	if err != nil {
		return nil, errModifierFn("append", err)
	}
	if len(suffixes) == 0 {
		return paths, nil
	}
	return sliceutil.Product(paths, suffixes, func(path, suffix string) string {
		if IsPassthrough(path, req.Flags) {
			return path
		}
		return JoinPath(path, suffix)
	}), nil
}

// modifierValues resolves a modifier value to the list of strings it
// stands for. A missing value yields an empty list.
func modifierValues(store vars.Reader, v ModifierValue) ([]string, error) {
	if v.IsZero() {
		return nil, nil
	}
	if !v.IsVariable {
		return []string{v.Value}, nil
	}
	return lookupPaths(store, v.Value)
}

func expandGlobs(paths []string, probe Probe) ([]string, error) {
	return sliceutil.FlatMapErr(paths, func(p string) ([]string, error) {
		if !HasGlob(p) {
			return []string{p}, nil
		}
		m, err := probe.Glob(p)
		if err != nil {
			return nil, errGlobFn(p, err)
		}
		return m, nil
	})
}
