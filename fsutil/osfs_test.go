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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFS(t *testing.T) {
	dir := testTree(t, map[string]string{
		"a.csv":          "a",
		"sub/b.csv":      "b",
		"sub/deep/c.csv": "c",
		"sub/d.json":     "d",
	})

	t.Run("absolute", func(t *testing.T) {
		f := NewOSFS()
		b, err := f.ReadFile(filepath.Join(dir, "a.csv"))
		require.NoError(t, err)
		assert.Equal(t, "a", string(b))

		g, err := f.Glob(filepath.Join(dir, "sub", "*.csv"))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "sub", "b.csv")}, g)
	})
	t.Run("working dir", func(t *testing.T) {
		f := NewOSFS(WithOSWorkingDir(dir))
		b, err := f.ReadFile("sub/b.csv")
		require.NoError(t, err)
		assert.Equal(t, "b", string(b))
		assert.True(t, f.Exists("sub/deep/c.csv"))
		assert.False(t, f.Exists("sub/none.csv"))

		g, err := f.Glob("sub/**/*.csv")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join("sub", "b.csv"),
			filepath.Join("sub", "deep", "c.csv"),
		}, g)
	})
	t.Run("write", func(t *testing.T) {
		f := NewOSFS(WithOSWorkingDir(dir))
		w, err := f.Create("new.txt")
		require.NoError(t, err)
		_, err = io.WriteString(w, "new")
		require.NoError(t, err)
		require.NoError(t, w.Close())

		require.NoError(t, f.Rename("new.txt", "renamed.txt"))
		fi, err := f.Stat("renamed.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(3), fi.Size())

		require.NoError(t, f.Remove("renamed.txt"))
		_, err = f.Open("renamed.txt")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
	t.Run("bad pattern", func(t *testing.T) {
		_, err := NewOSFS().Glob(filepath.Join(dir, "[a"))
		require.Error(t, err)
	})
}
