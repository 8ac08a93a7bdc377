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
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicleprotocol/scalarfs/pathvar"
	"github.com/chronicleprotocol/scalarfs/vars"
)

// testTree creates files relative to a temporary directory and returns the
// directory.
func testTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func TestPathVariableFSGlob(t *testing.T) {
	dir := testTree(t, map[string]string{
		"data/1.csv":  "1",
		"data/2.csv":  "2",
		"data/3.json": "3",
		"b/f.csv":     "b",
		"a/f.csv":     "a",
	})
	p := func(name string) string { return filepath.Join(dir, filepath.FromSlash(name)) }

	store := vars.NewMemoryStore()
	store.SetAll(map[string]vars.Value{
		"csv":   vars.Text(p("data/*.csv")),
		"roots": vars.TextList(p("c"), p("b"), p("a")),
		"mixed": vars.TextList(p("data/1.csv"), p("data/9.csv"), "data+varchar:x"),
		"int":   vars.Other("INTEGER", 1),
	})
	m := New(store)

	tc := []struct {
		ref     string
		want    []string
		wantErr error
	}{
		{ref: "pathvariable:csv", want: []string{p("data/1.csv"), p("data/2.csv")}},
		{ref: "pathvariable:no-glob:csv", want: []string{p("data/*.csv")}},
		{ref: "pathvariable:search:append!f.csv:roots", want: []string{p("b/f.csv")}},
		{ref: "pathvariable:search:append!none.csv:roots", want: []string{}},
		{ref: "pathvariable:no-missing:mixed", want: []string{p("data/1.csv"), "data+varchar:x"}},
		{ref: "pathvariable:missing", want: []string{"pathvariable:missing"}},
		{ref: "pathvariable:int", want: []string{"pathvariable:int"}},
		{ref: "pathvariable:append!$missing:roots", wantErr: vars.ErrNotFound},
		{ref: "variable:csv", wantErr: pathvar.ErrNotPathVariable},
	}
	for _, tt := range tc {
		t.Run(tt.ref, func(t *testing.T) {
			pv := NewPathVariableFS(store, m)
			got, err := pv.Glob(tt.ref)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The multiplexer routes to the same protocol.
			if pathvar.CanHandle(tt.ref) {
				got, err = m.Glob(tt.ref)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPathVariableFSSingleFile(t *testing.T) {
	dir := testTree(t, map[string]string{"in.csv": "a,b\n"})
	store := vars.NewMemoryStore()
	store.SetAll(map[string]vars.Value{
		"in":   vars.Text(filepath.Join(dir, "in.csv")),
		"list": vars.TextList(filepath.Join(dir, "in.csv")),
		"int":  vars.Other("INTEGER", 7),
		"null": vars.Null(),
	})
	m := New(store)

	b, err := m.ReadFile("pathvariable:in")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(b))

	f, err := m.Open("pathvariable:in")
	require.NoError(t, err)
	b, err = io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "a,b\n", string(b))

	fi, err := m.Stat("pathvariable:in")
	require.NoError(t, err)
	assert.Equal(t, int64(4), fi.Size())

	assert.True(t, m.Exists("pathvariable:in"))
	assert.False(t, m.Exists("pathvariable:list"))
	assert.False(t, m.Exists("pathvariable:missing"))
	assert.False(t, m.Exists("tmp_pathvariable:in"))

	_, err = m.ReadFile("pathvariable:missing")
	require.ErrorIs(t, err, vars.ErrNotFound)
	_, err = m.ReadFile("pathvariable:null")
	require.ErrorIs(t, err, vars.ErrNullValue)
	_, err = m.Open("pathvariable:list")
	require.ErrorIs(t, err, vars.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "list")

	_, err = m.Open("pathvariable:int")
	require.ErrorIs(t, err, vars.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "'int'")
	assert.Contains(t, err.Error(), "INTEGER")

	require.NoError(t, m.Remove("pathvariable:in"))
	assert.False(t, m.Exists("pathvariable:in"))
}

func TestPathVariableFSStaging(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.csv")
	store := vars.NewMemoryStore()
	store.Set("out", vars.Text(target))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := New(store, WithLogger(logger))

	w, err := m.Create("tmp_pathvariable:out")
	require.NoError(t, err)
	_, err = io.WriteString(w, "x,y\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.FileExists(t, filepath.Join(dir, "tmp_out.csv"))
	assert.NoFileExists(t, target)

	require.NoError(t, m.Rename("tmp_pathvariable:out", "pathvariable:out"))
	assert.NoFileExists(t, filepath.Join(dir, "tmp_out.csv"))
	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(b))

	assert.Contains(t, logs.String(), "Resolved path variable target")
}

func TestPathVariableFSVariableTarget(t *testing.T) {
	store := vars.NewMemoryStore()
	store.Set("out", vars.Text("variable:result"))
	m := New(store)

	w, err := m.Create("tmp_pathvariable:out")
	require.NoError(t, err)
	_, err = io.WriteString(w, "42")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, ok := store.Get("tmp_result")
	require.True(t, ok)
	assert.Equal(t, vars.Text("42"), got)

	require.NoError(t, m.Rename("tmp_pathvariable:out", "pathvariable:out"))
	got, ok = store.Get("result")
	require.True(t, ok)
	assert.Equal(t, vars.Text("42"), got)
}

func TestPathVariableFSNoCache(t *testing.T) {
	dir := testTree(t, map[string]string{"c/1.csv": "1"})
	store := vars.NewMemoryStore()
	store.Set("g", vars.Text(filepath.Join(dir, "c", "*.csv")))
	m := New(store, WithGlobCache(16, time.Hour))

	got, err := m.Glob("pathvariable:g")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c", "2.csv"), []byte("2"), 0o600))

	got, err = m.Glob("pathvariable:g")
	require.NoError(t, err)
	assert.Len(t, got, 1, "cached result expected")

	got, err = m.Glob("pathvariable:no-cache:g")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPathVariableFSNested(t *testing.T) {
	dir := testTree(t, map[string]string{
		"a.csv": "a",
		"b.csv": "b",
	})
	store := vars.NewMemoryStore()
	store.SetAll(map[string]vars.Value{
		"csv":   vars.Text(filepath.Join(dir, "*.csv")),
		"inner": vars.Text(filepath.Join(dir, "a.csv")),
		"outer": vars.TextList("pathvariable:cs*", "pathvariable:no-glob:inner"),
		"alias": vars.Text("pathvariable:inner"),
	})
	m := New(store)

	got, err := m.Glob("pathvariable:outer")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv"), "pathvariable:no-glob:inner"}, got)

	b, err := m.ReadFile("pathvariable:alias")
	require.NoError(t, err)
	assert.Equal(t, "a", string(b))
	assert.True(t, m.Exists("pathvariable:alias"))
}

func TestPathVariableFSRecursive(t *testing.T) {
	tc := []struct {
		name  string
		value vars.Value
		ref   string
	}{
		{name: "self glob", value: vars.Text("pathvariable:loo*"), ref: "pathvariable:loo*"},
		{name: "self glob in list", value: vars.TextList("/a.csv", "pathvariable:no-cache:l*"), ref: "pathvariable:l*"},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			store := vars.NewMemoryStore()
			store.Set("loop", tt.value)
			m := New(store, WithGlobCache(16, time.Minute))

			_, err := m.Glob(tt.ref)
			require.ErrorIs(t, err, pathvar.ErrRecursiveReference)
		})
	}

	t.Run("self target", func(t *testing.T) {
		store := vars.NewMemoryStore()
		store.Set("self", vars.Text("pathvariable:self"))
		m := New(store)

		_, err := m.ReadFile("pathvariable:self")
		require.ErrorIs(t, err, pathvar.ErrRecursiveReference)
		_, err = m.Create("tmp_pathvariable:self")
		require.ErrorIs(t, err, pathvar.ErrRecursiveReference)
		assert.False(t, m.Exists("pathvariable:self"))
	})
}

func TestPathVariableFSCachePurgedOnWrite(t *testing.T) {
	dir := t.TempDir()
	store := vars.NewMemoryStore()
	store.Set("out", vars.Text(filepath.Join(dir, "out.csv")))
	m := New(store, WithGlobCache(16, time.Minute))

	got, err := m.Glob("pathvariable:search:out")
	require.NoError(t, err)
	assert.Empty(t, got)

	w, err := m.Create("pathvariable:out")
	require.NoError(t, err)
	_, err = io.WriteString(w, "x")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err = m.Glob("pathvariable:search:out")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "out.csv")}, got)

	require.NoError(t, m.Remove("pathvariable:out"))
	got, err = m.Glob("pathvariable:no-missing:out")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Writes to other protocols purge the cache too.
	store.Set("v", vars.Text("variable:content"))
	got, err = m.Glob("pathvariable:search:v")
	require.NoError(t, err)
	assert.Empty(t, got)
	w, err = m.Create("variable:content")
	require.NoError(t, err)
	_, err = io.WriteString(w, "y")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	got, err = m.Glob("pathvariable:search:v")
	require.NoError(t, err)
	assert.Equal(t, []string{"variable:content"}, got)
}
