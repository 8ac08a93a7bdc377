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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/chronicleprotocol/scalarfs/errutil"
)

const (
	// GzipScheme is the prefix of names whose gzip-compressed content is
	// decompressed on read.
	GzipScheme = "decompress+gz:"

	// ZstdScheme is the prefix of names whose zstd-compressed content is
	// decompressed on read.
	ZstdScheme = "decompress+zstd:"

	defaultDecompressReadLimit = 1024 * 1024 * 128 // 128MiB
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

var (
	errReadLimitExceeded = errors.New("decompressed data exceeds read limit")
	errNotGzip           = errors.New("content is not in gzip format")
	errNotZstd           = errors.New("content is not in zstd format")
)

type DecompressFSOption func(*DecompressFS)

// WithDecompressReadLimit sets the maximum size of the decompressed data.
// Reading past the limit fails. The default limit is 128MiB.
func WithDecompressReadLimit(limit int64) DecompressFSOption {
	return func(d *DecompressFS) {
		d.readLimit = limit
	}
}

// NewDecompressFS creates the decompression protocol.
//
// "decompress+gz:PATH" and "decompress+zstd:PATH" read PATH through parent
// and decompress the content. PATH may use any protocol the parent
// supports. Files cannot be written.
func NewDecompressFS(parent FileSystem, opts ...DecompressFSOption) *DecompressFS {
	d := &DecompressFS{parent: parent, readLimit: defaultDecompressReadLimit}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecompressProto returns a ProtoFunc for NewDecompressFS.
func DecompressProto(opts ...DecompressFSOption) ProtoFunc {
	return func(parent FileSystem) Protocol {
		return NewDecompressFS(parent, opts...)
	}
}

type DecompressFS struct {
	parent    FileSystem
	readLimit int64
}

// CanHandle implements the Protocol interface.
func (d *DecompressFS) CanHandle(name string) bool {
	return strings.HasPrefix(name, GzipScheme) || strings.HasPrefix(name, ZstdScheme)
}

// Open implements the FileSystem interface.
func (d *DecompressFS) Open(name string) (fs.File, error) {
	scheme, inner, err := d.split("open", name)
	if err != nil {
		return nil, err
	}
	f, err := d.parent.Open(inner)
	if err != nil {
		return nil, errDecompressFSFn(err)
	}
	df, err := newDecompressFile(name, f, scheme, d.readLimit)
	if err != nil {
		return nil, errutil.Append(pathError("open", name, errDecompressFSFn(err)), f.Close())
	}
	df.stat = func() (fs.FileInfo, error) { return d.Stat(name) }
	return df, nil
}

// Stat implements the FileSystem interface. The file is decompressed to
// determine its size.
func (d *DecompressFS) Stat(name string) (fs.FileInfo, error) {
	b, err := d.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return memFileInfo(name, len(b)), nil
}

// ReadFile implements the FileSystem interface.
func (d *DecompressFS) ReadFile(name string) ([]byte, error) {
	f, err := d.Open(name)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errutil.Append(pathError("read", name, errDecompressFSFn(err)), f.Close())
	}
	if err := f.Close(); err != nil {
		return nil, errDecompressFSFn(err)
	}
	return b, nil
}

// Create implements the FileSystem interface.
func (d *DecompressFS) Create(name string) (io.WriteCloser, error) {
	return nil, errReadOnlyFn("create", name)
}

// Remove implements the FileSystem interface.
func (d *DecompressFS) Remove(name string) error {
	return errReadOnlyFn("remove", name)
}

// Rename implements the FileSystem interface.
func (d *DecompressFS) Rename(oldName, _ string) error {
	return errReadOnlyFn("rename", oldName)
}

// Exists implements the FileSystem interface. The compressed file must
// exist, its content is not checked.
func (d *DecompressFS) Exists(name string) bool {
	_, inner, err := d.split("stat", name)
	if err != nil {
		return false
	}
	return d.parent.Exists(inner)
}

// Glob implements the FileSystem interface. Names are returned as-is.
func (d *DecompressFS) Glob(pattern string) ([]string, error) {
	return []string{pattern}, nil
}

func (d *DecompressFS) split(op, name string) (scheme, inner string, err error) {
	for _, s := range []string{GzipScheme, ZstdScheme} {
		if strings.HasPrefix(name, s) {
			return s, name[len(s):], nil
		}
	}
	return "", "", pathError(op, name, errUnexpectedNameFn("decompressFS", name))
}

// decompressFile is a file that decompresses the content of an underlying
// file and fails once more than n bytes have been decompressed.
type decompressFile struct {
	name string
	f    fs.File
	r    io.ReadCloser // nil for empty input
	n    int64         // bytes remaining
	err  error
	stat func() (fs.FileInfo, error)
}

func newDecompressFile(name string, f fs.File, scheme string, n int64) (*decompressFile, error) {
	br := bufio.NewReader(f)
	magic := gzipMagic
	if scheme == ZstdScheme {
		magic = zstdMagic
	}
	head, err := br.Peek(len(magic))
	if len(head) == 0 && errors.Is(err, io.EOF) {
		// Empty input decompresses to empty output.
		return &decompressFile{name: name, f: f, n: n}, nil
	}
	if !bytes.Equal(head, magic) {
		if scheme == ZstdScheme {
			return nil, errNotZstd
		}
		return nil, errNotGzip
	}
	var r io.ReadCloser
	switch scheme {
	case GzipScheme:
		g, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		r = g
	case ZstdScheme:
		z, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		r = z.IOReadCloser()
	}
	return &decompressFile{name: name, f: f, r: r, n: n}, nil
}

// Stat implements the fs.File interface. The size is the decompressed size,
// the content is decompressed a second time to determine it.
func (c *decompressFile) Stat() (fs.FileInfo, error) {
	return c.stat()
}

// Read implements the fs.File interface.
func (c *decompressFile) Read(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.r == nil {
		return 0, io.EOF
	}
	if c.n <= 0 {
		if _, err := c.r.Read(make([]byte, 1)); errors.Is(err, io.EOF) {
			c.err = io.EOF
			return 0, c.err
		}
		c.err = errReadLimitExceeded
		return 0, c.err
	}
	if int64(len(p)) > c.n {
		p = p[0:c.n]
	}
	n, err = c.r.Read(p)
	if err != nil {
		c.err = err
	}
	c.n -= int64(n)
	return n, err
}

// Close implements the fs.File interface.
func (c *decompressFile) Close() error {
	var err error
	if c.r != nil {
		err = errutil.Append(err, c.r.Close())
	}
	return errutil.Append(err, c.f.Close())
}

func errDecompressFSFn(err error) error {
	return fmt.Errorf("fsutil.decompressFS: %w", err)
}
