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
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

type OSFSOption func(*OSFS)

// WithOSWorkingDir sets the directory relative names are resolved against.
// By default relative names are resolved against the process working
// directory.
func WithOSWorkingDir(wd string) OSFSOption {
	return func(f *OSFS) {
		f.wd = wd
	}
}

// NewOSFS creates a file system backed by the local file system.
func NewOSFS(opts ...OSFSOption) *OSFS {
	f := &OSFS{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OSFS is a FileSystem for local paths.
//
// Glob supports the doublestar syntax, including "**" for any number of
// directories. Glob results of relative patterns are relative to the
// working directory.
type OSFS struct {
	wd string
}

// Open implements the FileSystem interface.
func (f *OSFS) Open(name string) (fs.File, error) {
	file, err := os.Open(f.osPath(name))
	if err != nil {
		return nil, errOSFSFn(err)
	}
	return file, nil
}

// Stat implements the FileSystem interface.
func (f *OSFS) Stat(name string) (fs.FileInfo, error) {
	fi, err := os.Stat(f.osPath(name))
	if err != nil {
		return nil, errOSFSFn(err)
	}
	return fi, nil
}

// ReadFile implements the FileSystem interface.
func (f *OSFS) ReadFile(name string) ([]byte, error) {
	b, err := os.ReadFile(f.osPath(name))
	if err != nil {
		return nil, errOSFSFn(err)
	}
	return b, nil
}

// Create implements the FileSystem interface.
func (f *OSFS) Create(name string) (io.WriteCloser, error) {
	file, err := os.Create(f.osPath(name))
	if err != nil {
		return nil, errOSFSFn(err)
	}
	return file, nil
}

// Remove implements the FileSystem interface.
func (f *OSFS) Remove(name string) error {
	if err := os.Remove(f.osPath(name)); err != nil {
		return errOSFSFn(err)
	}
	return nil
}

// Rename implements the FileSystem interface.
func (f *OSFS) Rename(oldName, newName string) error {
	if err := os.Rename(f.osPath(oldName), f.osPath(newName)); err != nil {
		return errOSFSFn(err)
	}
	return nil
}

// Exists implements the FileSystem interface.
func (f *OSFS) Exists(name string) bool {
	_, err := os.Stat(f.osPath(name))
	return err == nil
}

// Glob implements the FileSystem interface.
func (f *OSFS) Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, errOSFSFn(&fs.PathError{Op: "glob", Path: pattern, Err: doublestar.ErrBadPattern})
	}
	hits, err := doublestar.FilepathGlob(f.osPath(pattern))
	if err != nil {
		return nil, errOSFSFn(&fs.PathError{Op: "glob", Path: pattern, Err: err})
	}
	if !f.relative(pattern) {
		return hits, nil
	}
	for i, h := range hits {
		if rel, err := filepath.Rel(f.wd, h); err == nil {
			hits[i] = rel
		}
	}
	return hits, nil
}

func (f *OSFS) relative(name string) bool {
	return f.wd != "" && !filepath.IsAbs(name)
}

func (f *OSFS) osPath(name string) string {
	if f.relative(name) {
		return filepath.Join(f.wd, name)
	}
	return name
}

func errOSFSFn(err error) error {
	return fmt.Errorf("fsutil.osFS: %w", err)
}
