package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name:    "with BOM",
			options: WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}}, BOMPrefix: true},
			want:    "\xEF\xBB\xBFa,b\n1,2\n",
		},
		{
			name:    "without BOM",
			options: WriteOptions{Headers: []string{"a"}, Records: [][]string{{"x,y"}}},
			want:    "a\n\"x,y\"\n",
		},
		{
			name:    "headers only",
			options: WriteOptions{Headers: []string{"a"}},
			want:    "a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewCSVWriter(t.TempDir(), nil)
			path, err := w.WriteCSV("table.csv", tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(w.Dir(), "table.csv"), path)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(content))
		})
	}
}

func TestWriteCSVReplacesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")
	w := NewCSVWriter(dir, nil)

	_, err := w.WriteSimpleCSV("t.csv", []string{"a"}, [][]string{{"1"}, {"2"}})
	require.NoError(t, err)
	path, err := w.WriteSimpleCSV("t.csv", []string{"a"}, [][]string{{"3"}})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n3\n", string(bytes.TrimPrefix(content, utf8BOM)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCSVAbsolutePath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "elsewhere.csv")
	path, err := NewCSVWriter(t.TempDir(), nil).WriteSimpleCSV(target, []string{"a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, target, path)
	assert.FileExists(t, target)
}
