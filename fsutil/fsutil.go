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
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"
)

var (
	// ErrReadOnly is returned by write operations on protocols whose files
	// cannot be written.
	ErrReadOnly = errors.New("read-only file system")

	// ErrUnsupported is returned for operations a protocol does not support.
	ErrUnsupported = errors.New("operation not supported")
)

// FileSystem is a virtual file system addressed by full names. A name may
// carry a protocol prefix such as "variable:" or be a plain OS path.
//
// Unlike fs.FS, names are not restricted to unrooted slash-separated paths.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(name string) (fs.File, error)

	// Stat returns a FileInfo describing the named file.
	Stat(name string) (fs.FileInfo, error)

	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// Create creates or truncates the named file. The content is visible
	// after the returned writer is closed.
	Create(name string) (io.WriteCloser, error)

	// Remove removes the named file.
	Remove(name string) error

	// Rename moves the file oldName to newName.
	Rename(oldName, newName string) error

	// Exists reports whether the named file exists. It never fails.
	Exists(name string) bool

	// Glob returns the names of all files matching pattern.
	Glob(pattern string) ([]string, error)
}

// Protocol is a file system that handles names with a specific prefix.
type Protocol interface {
	FileSystem

	// CanHandle reports whether the protocol handles the name.
	CanHandle(name string) bool
}

// ProtoFunc creates a Protocol. The parent is the file system the protocol
// is registered in, protocols use it to access files they refer to.
type ProtoFunc func(parent FileSystem) Protocol

// fileInfo implements the fs.FileInfo interface.
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
	sys     any
}

func (i *fileInfo) Name() string       { return i.name }
func (i *fileInfo) Size() int64        { return i.size }
func (i *fileInfo) Mode() fs.FileMode  { return i.mode }
func (i *fileInfo) ModTime() time.Time { return i.modTime }
func (i *fileInfo) IsDir() bool        { return i.isDir }
func (i *fileInfo) Sys() any           { return i.sys }

// file implements the fs.File interface for in-memory content.
type file struct {
	reader io.Reader
	info   fs.FileInfo
}

func (f *file) Stat() (fs.FileInfo, error)       { return f.info, nil }
func (f *file) Read(p []byte) (n int, err error) { return f.reader.Read(p) }
func (f *file) Close() error                     { return nil }

// memFile returns a read-only file with the given content.
func memFile(name string, content []byte) fs.File {
	return &file{
		reader: bytes.NewReader(content),
		info:   memFileInfo(name, len(content)),
	}
}

func memFileInfo(name string, size int) fs.FileInfo {
	return &fileInfo{
		name:    name,
		size:    int64(size),
		mode:    0o444,
		modTime: time.Now(),
	}
}

// writer buffers written data and passes it to the commit function on Close.
type writer struct {
	buf    bytes.Buffer
	commit func([]byte) error
	closed bool
}

func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *writer) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true
	return w.commit(w.buf.Bytes())
}

func pathError(op, name string, err error) error {
	var pErr *fs.PathError
	if errors.As(err, &pErr) {
		return err
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}

func errReadOnlyFn(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: ErrReadOnly}
}

func errUnsupportedFn(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: ErrUnsupported}
}

func errUnexpectedNameFn(component, name string) error {
	return fmt.Errorf("fsutil.%s: unexpected name: %q", component, name)
}
