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
	"io"
	"io/fs"
	"strings"

	"github.com/chronicleprotocol/scalarfs/vars"
)

const (
	// VariableScheme is the prefix of names that refer to the content of a
	// session variable.
	VariableScheme = "variable:"

	// TempVariableScheme is the staging counterpart of VariableScheme.
	// "tmp_variable:NAME" refers to the variable "tmp_NAME".
	TempVariableScheme = "tmp_variable:"
)

// NewVariableFS creates the variable content protocol backed by store.
//
// Reading "variable:NAME" returns the content of the variable NAME. Written
// data is stored in the variable when the writer is closed: as a blob if it
// contains a NUL byte, as text otherwise.
func NewVariableFS(store vars.Store) *VariableFS {
	return &VariableFS{store: store}
}

// VariableProto returns a ProtoFunc for NewVariableFS.
func VariableProto(store vars.Store) ProtoFunc {
	return func(FileSystem) Protocol {
		return NewVariableFS(store)
	}
}

type VariableFS struct {
	store vars.Store
}

// CanHandle implements the Protocol interface.
func (v *VariableFS) CanHandle(name string) bool {
	return strings.HasPrefix(name, VariableScheme) || strings.HasPrefix(name, TempVariableScheme)
}

// Open implements the FileSystem interface.
func (v *VariableFS) Open(name string) (fs.File, error) {
	b, err := v.read("open", name)
	if err != nil {
		return nil, err
	}
	return memFile(name, b), nil
}

// Stat implements the FileSystem interface.
func (v *VariableFS) Stat(name string) (fs.FileInfo, error) {
	b, err := v.read("stat", name)
	if err != nil {
		return nil, err
	}
	return memFileInfo(name, len(b)), nil
}

// ReadFile implements the FileSystem interface.
func (v *VariableFS) ReadFile(name string) ([]byte, error) {
	return v.read("open", name)
}

// Create implements the FileSystem interface.
//
// An empty write leaves the variable unchanged.
func (v *VariableFS) Create(name string) (io.WriteCloser, error) {
	varName, err := v.varName("create", name)
	if err != nil {
		return nil, err
	}
	return &writer{commit: func(b []byte) error {
		if len(b) == 0 {
			return nil
		}
		if bytes.IndexByte(b, 0) >= 0 {
			v.store.Set(varName, vars.Blob(b))
		} else {
			v.store.Set(varName, vars.Text(string(b)))
		}
		return nil
	}}, nil
}

// Remove implements the FileSystem interface. Removing a variable resets
// it, removing a missing variable is not an error.
func (v *VariableFS) Remove(name string) error {
	varName, err := v.varName("remove", name)
	if err != nil {
		return err
	}
	v.store.Remove(varName)
	return nil
}

// Rename implements the FileSystem interface. The value of the source
// variable is moved to the target variable.
func (v *VariableFS) Rename(oldName, newName string) error {
	src, err := v.varName("rename", oldName)
	if err != nil {
		return err
	}
	dst, err := v.varName("rename", newName)
	if err != nil {
		return err
	}
	val, ok := v.store.Get(src)
	if !ok {
		return pathError("rename", oldName, &vars.Error{Name: src, Err: vars.ErrNotFound})
	}
	v.store.Set(dst, val)
	if src != dst {
		v.store.Remove(src)
	}
	return nil
}

// Exists implements the FileSystem interface. A variable exists if it is
// set to a non-null value.
func (v *VariableFS) Exists(name string) bool {
	varName, err := v.varName("stat", name)
	if err != nil {
		return false
	}
	val, ok := v.store.Get(varName)
	return ok && !val.IsNull()
}

// Glob implements the FileSystem interface. Variable names are returned
// as-is.
func (v *VariableFS) Glob(pattern string) ([]string, error) {
	return []string{pattern}, nil
}

func (v *VariableFS) read(op, name string) ([]byte, error) {
	varName, err := v.varName(op, name)
	if err != nil {
		return nil, err
	}
	val, err := vars.Lookup(v.store, varName)
	if err != nil {
		return nil, pathError(op, name, err)
	}
	return []byte(val.String()), nil
}

// varName returns the variable a name refers to.
func (v *VariableFS) varName(op, name string) (string, error) {
	switch {
	case strings.HasPrefix(name, TempVariableScheme):
		return "tmp_" + name[len(TempVariableScheme):], nil
	case strings.HasPrefix(name, VariableScheme):
		return name[len(VariableScheme):], nil
	}
	return "", pathError(op, name, errUnexpectedNameFn("variableFS", name))
}
