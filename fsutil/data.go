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
	"strings"
)

// NewDataFS creates the literal-content protocol.
//
// The protocol handles data:, data+varchar: and data+blob: URIs. The file
// content is the decoded URI payload. Files cannot be written.
func NewDataFS() *DataFS {
	return &DataFS{}
}

// DataProto is a ProtoFunc for NewDataFS.
func DataProto(FileSystem) Protocol {
	return NewDataFS()
}

type DataFS struct{}

// CanHandle implements the Protocol interface.
func (d *DataFS) CanHandle(name string) bool {
	return strings.HasPrefix(name, DataScheme) ||
		strings.HasPrefix(name, VarcharScheme) ||
		strings.HasPrefix(name, BlobScheme)
}

// Open implements the FileSystem interface.
func (d *DataFS) Open(name string) (fs.File, error) {
	b, err := d.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return memFile(name, b), nil
}

// Stat implements the FileSystem interface.
func (d *DataFS) Stat(name string) (fs.FileInfo, error) {
	b, err := d.decode("stat", name)
	if err != nil {
		return nil, err
	}
	return memFileInfo(name, len(b)), nil
}

// ReadFile implements the FileSystem interface.
func (d *DataFS) ReadFile(name string) ([]byte, error) {
	return d.decode("open", name)
}

// Create implements the FileSystem interface.
func (d *DataFS) Create(name string) (io.WriteCloser, error) {
	return nil, errReadOnlyFn("create", name)
}

// Remove implements the FileSystem interface.
func (d *DataFS) Remove(name string) error {
	return errReadOnlyFn("remove", name)
}

// Rename implements the FileSystem interface.
func (d *DataFS) Rename(oldName, _ string) error {
	return errReadOnlyFn("rename", oldName)
}

// Exists implements the FileSystem interface. Every URI the protocol
// handles exists, even a malformed one.
func (d *DataFS) Exists(name string) bool {
	return d.CanHandle(name)
}

// Glob implements the FileSystem interface. Data URIs are returned as-is.
func (d *DataFS) Glob(pattern string) ([]string, error) {
	return []string{pattern}, nil
}

func (d *DataFS) decode(op, name string) ([]byte, error) {
	if !d.CanHandle(name) {
		return nil, pathError(op, abbrev(name), errUnexpectedNameFn("dataFS", abbrev(name)))
	}
	b, err := DecodeScalarfsURI(name)
	if err != nil {
		return nil, pathError(op, abbrev(name), err)
	}
	return b, nil
}
