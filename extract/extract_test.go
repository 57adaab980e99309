package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/casesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtAndName(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		name string
	}{
		{"/cases/Smith Deposition.TXT", "txt", "Smith Deposition"},
		{"notes.final.docx", "docx", "notes.final"},
		{"README", "", "README"},
		{"dir.v2/file.xyz", "xyz", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ext, Ext(tt.path))
			assert.Equal(t, tt.name, Name(tt.path))
		})
	}
}

func TestEstimatePages(t *testing.T) {
	text := strings.Repeat("a", 10) + strings.Repeat(" ", 10) + strings.Repeat("b", 5)
	pages := EstimatePages(text, 10)

	require.Len(t, pages, 2)
	assert.Equal(t, core.Page{Number: 1, Text: strings.Repeat("a", 10)}, pages[0])
	assert.Equal(t, core.Page{Number: 3, Text: "bbbbb"}, pages[1], "blank window advances numbering")

	assert.Empty(t, EstimatePages("", 10))
	assert.Len(t, EstimatePages(strings.Repeat("x", DefaultCharsPerPage+1), 0), 2)
}

func TestPlainText_Extract(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "memo.txt", "Hello there. General Kenobi.")

	p := &PlainText{CharsPerPage: 8}

	t.Run("without pages", func(t *testing.T) {
		e, err := p.Extract(path, false)
		require.NoError(t, err)
		assert.Equal(t, "Hello there. General Kenobi.", e.Text)
		assert.Empty(t, e.Pages)
		assert.False(t, e.Estimated)
	})

	t.Run("with estimated pages", func(t *testing.T) {
		e, err := p.Extract(path, true)
		require.NoError(t, err)
		assert.True(t, e.Estimated)
		assert.Len(t, e.Pages, 4)
	})

	t.Run("empty file", func(t *testing.T) {
		empty := writeFile(t, dir, "empty.txt", "  \n")
		_, err := p.Extract(empty, true)
		assert.ErrorIs(t, err, core.ErrExtractionFailed)
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := p.Extract(filepath.Join(dir, "missing.txt"), true)
		assert.ErrorIs(t, err, core.ErrExtractionFailed)
	})
}

func TestRegistry_Extract(t *testing.T) {
	dir := t.TempDir()
	registry := NewRegistry(DefaultCharsPerPage)

	t.Run("plain text", func(t *testing.T) {
		e, err := registry.Extract(writeFile(t, dir, "a.txt", "Some text."), true)
		require.NoError(t, err)
		assert.Equal(t, []core.Page{{Number: 1, Text: "Some text."}}, e.Pages)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := registry.Extract(writeFile(t, dir, "a.xyz", "data"), true)
		assert.ErrorIs(t, err, core.ErrExtractionFailed)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("pdf without handler", func(t *testing.T) {
		assert.False(t, registry.Supports("pdf"))
		_, err := registry.Extract(writeFile(t, dir, "a.pdf", "%PDF"), true)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("registered handler errors are wrapped", func(t *testing.T) {
		registry.Register(".DOC", ExtractorFunc(func(string, bool) (*core.Extraction, error) {
			return nil, errors.New("corrupt")
		}))
		assert.True(t, registry.Supports("doc"))
		_, err := registry.Extract(writeFile(t, dir, "a.doc", "x"), true)
		assert.ErrorIs(t, err, core.ErrExtractionFailed)
		assert.Contains(t, err.Error(), "corrupt")
	})

	t.Run("falsy result is a failure", func(t *testing.T) {
		registry.Register("pdf", ExtractorFunc(func(string, bool) (*core.Extraction, error) {
			return nil, nil
		}))
		_, err := registry.Extract(writeFile(t, dir, "b.pdf", "x"), true)
		assert.ErrorIs(t, err, core.ErrExtractionFailed)
	})
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x")
	b := writeFile(t, dir, "sub/b.PDF", "x")
	writeFile(t, dir, "sub/ignored.xyz", "x")
	c := writeFile(t, dir, "sub/deeper/c.docx", "x")
	direct := writeFile(t, t.TempDir(), "direct.xyz", "x")

	files := ExpandPaths([]string{dir, direct}, nil)
	assert.ElementsMatch(t, []string{a, b, c, direct}, files)
}
