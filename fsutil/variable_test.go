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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicleprotocol/scalarfs/vars"
)

func TestVariableFS(t *testing.T) {
	tc := []struct {
		name    string
		vars    map[string]vars.Value
		file    string
		want    string
		wantErr error
	}{
		{
			name: "text",
			vars: map[string]vars.Value{"content": vars.Text("a,b\n1,2\n")},
			file: "variable:content",
			want: "a,b\n1,2\n",
		},
		{
			name: "blob",
			vars: map[string]vars.Value{"content": vars.Blob([]byte{'a', 0, 'b'})},
			file: "variable:content",
			want: "a\x00b",
		},
		{
			name: "temporary",
			vars: map[string]vars.Value{"tmp_content": vars.Text("staged")},
			file: "tmp_variable:content",
			want: "staged",
		},
		{
			name: "other type",
			vars: map[string]vars.Value{"n": vars.Other("INTEGER", 42)},
			file: "variable:n",
			want: "42",
		},
		{
			name:    "missing",
			file:    "variable:missing",
			wantErr: vars.ErrNotFound,
		},
		{
			name:    "null",
			vars:    map[string]vars.Value{"n": vars.Null()},
			file:    "variable:n",
			wantErr: vars.ErrNullValue,
		},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			store := vars.NewMemoryStore()
			store.SetAll(tt.vars)
			v := NewVariableFS(store)
			b, err := v.ReadFile(tt.file)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, v.Exists(tt.file))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
			assert.True(t, v.Exists(tt.file))

			f, err := v.Open(tt.file)
			require.NoError(t, err)
			b, err = io.ReadAll(f)
			require.NoError(t, err)
			require.NoError(t, f.Close())
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestVariableFSWrite(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		store := vars.NewMemoryStore()
		v := NewVariableFS(store)
		w, err := v.Create("variable:out")
		require.NoError(t, err)
		_, err = io.WriteString(w, "hello ")
		require.NoError(t, err)
		_, err = io.WriteString(w, "world")
		require.NoError(t, err)

		_, ok := store.Get("out")
		assert.False(t, ok, "content must not be visible before close")

		require.NoError(t, w.Close())
		got, ok := store.Get("out")
		require.True(t, ok)
		assert.Equal(t, vars.Text("hello world"), got)
	})
	t.Run("blob", func(t *testing.T) {
		store := vars.NewMemoryStore()
		v := NewVariableFS(store)
		w, err := v.Create("variable:out")
		require.NoError(t, err)
		_, err = w.Write([]byte{1, 0, 2})
		require.NoError(t, err)
		require.NoError(t, w.Close())
		got, _ := store.Get("out")
		assert.Equal(t, vars.Blob([]byte{1, 0, 2}), got)
	})
	t.Run("empty write keeps value", func(t *testing.T) {
		store := vars.NewMemoryStore()
		store.Set("out", vars.Text("old"))
		v := NewVariableFS(store)
		w, err := v.Create("variable:out")
		require.NoError(t, err)
		require.NoError(t, w.Close())
		got, _ := store.Get("out")
		assert.Equal(t, vars.Text("old"), got)
	})
	t.Run("write after close", func(t *testing.T) {
		v := NewVariableFS(vars.NewMemoryStore())
		w, err := v.Create("variable:out")
		require.NoError(t, err)
		require.NoError(t, w.Close())
		_, err = w.Write([]byte("x"))
		require.Error(t, err)
		require.Error(t, w.Close())
	})
	t.Run("staging", func(t *testing.T) {
		store := vars.NewMemoryStore()
		store.Set("out", vars.Text("old"))
		v := NewVariableFS(store)
		w, err := v.Create("tmp_variable:out")
		require.NoError(t, err)
		_, err = io.WriteString(w, "new")
		require.NoError(t, err)
		require.NoError(t, w.Close())

		got, _ := store.Get("tmp_out")
		assert.Equal(t, vars.Text("new"), got)

		require.NoError(t, v.Rename("tmp_variable:out", "variable:out"))
		got, _ = store.Get("out")
		assert.Equal(t, vars.Text("new"), got)
		_, ok := store.Get("tmp_out")
		assert.False(t, ok)
	})
}

func TestVariableFSRemoveRename(t *testing.T) {
	store := vars.NewMemoryStore()
	store.Set("a", vars.Text("x"))
	v := NewVariableFS(store)

	require.NoError(t, v.Rename("variable:a", "variable:a"))
	assert.True(t, v.Exists("variable:a"))

	require.ErrorIs(t, v.Rename("variable:missing", "variable:b"), vars.ErrNotFound)

	require.NoError(t, v.Remove("variable:a"))
	assert.False(t, v.Exists("variable:a"))
	require.NoError(t, v.Remove("variable:a"))

	require.Error(t, v.Remove("/tmp/a"))
	assert.False(t, v.Exists("/tmp/a"))

	m, err := v.Glob("variable:a*")
	require.NoError(t, err)
	assert.Equal(t, []string{"variable:a*"}, m)
}
