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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFS(t *testing.T) {
	d := NewDataFS()

	t.Run("can handle", func(t *testing.T) {
		assert.True(t, d.CanHandle("data:,x"))
		assert.True(t, d.CanHandle("data+varchar:x"))
		assert.True(t, d.CanHandle("data+blob:x"))
		assert.False(t, d.CanHandle("variable:x"))
		assert.False(t, d.CanHandle("/data/x"))
	})
	t.Run("open", func(t *testing.T) {
		f, err := d.Open("data+varchar:a,b\n1,2\n")
		require.NoError(t, err)
		defer f.Close()
		b, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(b))
		fi, err := f.Stat()
		require.NoError(t, err)
		assert.Equal(t, int64(8), fi.Size())
	})
	t.Run("read file", func(t *testing.T) {
		b, err := d.ReadFile(`data+blob:x\ty`)
		require.NoError(t, err)
		assert.Equal(t, "x\ty", string(b))
	})
	t.Run("stat", func(t *testing.T) {
		fi, err := d.Stat("data:;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, int64(5), fi.Size())
		assert.False(t, fi.IsDir())
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := d.ReadFile("data:no-comma")
		require.ErrorIs(t, err, ErrInvalidURI)
		var pErr *fs.PathError
		require.ErrorAs(t, err, &pErr)
		assert.Equal(t, "open", pErr.Op)
	})
	t.Run("read-only", func(t *testing.T) {
		_, err := d.Create("data+varchar:x")
		require.ErrorIs(t, err, ErrReadOnly)
		require.ErrorIs(t, d.Remove("data+varchar:x"), ErrReadOnly)
		require.ErrorIs(t, d.Rename("data+varchar:x", "data+varchar:y"), ErrReadOnly)
	})
	t.Run("exists and glob", func(t *testing.T) {
		assert.True(t, d.Exists("data+varchar:*"))
		assert.True(t, d.Exists("data:broken"))
		m, err := d.Glob("data+varchar:*")
		require.NoError(t, err)
		assert.Equal(t, []string{"data+varchar:*"}, m)
	})
}
