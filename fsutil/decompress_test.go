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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicleprotocol/scalarfs/vars"
)

func TestDecompressFS(t *testing.T) {
	var (
		testData = []byte("test content")
		large    = []byte(strings.Repeat("x", 64))
	)
	tc := []struct {
		name     string
		value    vars.Value
		file     string
		opts     []DecompressFSOption
		wantData []byte
		wantErr  error
	}{
		{
			name:     "gzip",
			value:    vars.Blob(gzipData(t, testData)),
			file:     "decompress+gz:variable:v",
			wantData: testData,
		},
		{
			name:     "zstd",
			value:    vars.Blob(zstdData(t, testData)),
			file:     "decompress+zstd:variable:v",
			wantData: testData,
		},
		{
			name:     "empty gzip input",
			value:    vars.Blob([]byte{}),
			file:     "decompress+gz:variable:v",
			wantData: []byte{},
		},
		{
			name:     "empty zstd input",
			value:    vars.Text(""),
			file:     "decompress+zstd:variable:v",
			wantData: []byte{},
		},
		{
			name:    "not gzip",
			value:   vars.Text("plain text"),
			file:    "decompress+gz:variable:v",
			wantErr: errNotGzip,
		},
		{
			name:    "not zstd",
			value:   vars.Blob(gzipData(t, testData)),
			file:    "decompress+zstd:variable:v",
			wantErr: errNotZstd,
		},
		{
			name:     "within limit",
			value:    vars.Blob(gzipData(t, large)),
			file:     "decompress+gz:variable:v",
			opts:     []DecompressFSOption{WithDecompressReadLimit(64)},
			wantData: large,
		},
		{
			name:    "gzip over limit",
			value:   vars.Blob(gzipData(t, large)),
			file:    "decompress+gz:variable:v",
			opts:    []DecompressFSOption{WithDecompressReadLimit(63)},
			wantErr: errReadLimitExceeded,
		},
		{
			name:    "zstd over limit",
			value:   vars.Blob(zstdData(t, large)),
			file:    "decompress+zstd:variable:v",
			opts:    []DecompressFSOption{WithDecompressReadLimit(10)},
			wantErr: errReadLimitExceeded,
		},
		{
			name:    "missing inner file",
			file:    "decompress+gz:variable:missing",
			wantErr: vars.ErrNotFound,
		},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			store := vars.NewMemoryStore()
			store.Set("v", tt.value)
			m := NewMux(WithMuxProtocols(VariableProto(store), DecompressProto(tt.opts...)))

			b, err := m.ReadFile(tt.file)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, b)

			fi, err := m.Stat(tt.file)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.wantData)), fi.Size())

			f, err := m.Open(tt.file)
			require.NoError(t, err)
			fi, err = f.Stat()
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.wantData)), fi.Size())
			require.NoError(t, f.Close())
		})
	}
}

func TestDecompressFSNested(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.csv.gz"), gzipData(t, []byte("a,b\n")), 0o600))

	store := vars.NewMemoryStore()
	store.Set("report", vars.Text(filepath.Join(dir, "report.csv.gz")))
	m := New(store)

	b, err := m.ReadFile("decompress+gz:pathvariable:report")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(b))

	b, err = m.ReadFile("decompress+gz:" + EncodeDataURI(gzipData(t, []byte("inline"))))
	require.NoError(t, err)
	assert.Equal(t, "inline", string(b))

	f, err := m.Open("decompress+gz:pathvariable:report")
	require.NoError(t, err)
	b, err = io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "a,b\n", string(b))

	assert.True(t, m.Exists("decompress+gz:pathvariable:report"))
	assert.False(t, m.Exists("decompress+gz:pathvariable:missing"))
}

func TestDecompressFSReadOnly(t *testing.T) {
	d := NewDecompressFS(NewMux())
	_, err := d.Create("decompress+gz:/tmp/x.gz")
	require.ErrorIs(t, err, ErrReadOnly)
	require.ErrorIs(t, d.Remove("decompress+gz:/tmp/x.gz"), ErrReadOnly)
	require.ErrorIs(t, d.Rename("decompress+gz:/tmp/x.gz", "decompress+gz:/tmp/y.gz"), ErrReadOnly)

	m, err := d.Glob("decompress+zstd:/tmp/*.zst")
	require.NoError(t, err)
	assert.Equal(t, []string{"decompress+zstd:/tmp/*.zst"}, m)
}

func gzipData(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdData(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}
