package vectors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/casesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `contract 0.1 0.2 0.3
the 1 1 1
ab 0.5 0.5 0.5
1999 0.1 0.1 0.1
witness 0.4 -0.2 0.9
broken 1 2
garbled x y z
verdict 1e-1 2E-1 3
`

func TestParseInline(t *testing.T) {
	src, err := ParseInline(strings.NewReader(sampleTable), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, src.Dimension())
	assert.Equal(t, []string{"contract", "verdict", "witness"}, src.Words())
	assert.Equal(t, 3, src.Len())

	vec, ok := src.Lookup("witness")
	require.True(t, ok)
	assert.Equal(t, []float64{0.4, -0.2, 0.9}, vec)

	for _, dropped := range []string{"the", "ab", "1999", "broken", "garbled"} {
		_, ok := src.Lookup(dropped)
		assert.False(t, ok, dropped)
	}
}

func TestParseInline_Empty(t *testing.T) {
	_, err := ParseInline(strings.NewReader("the 1 2\n"), nil)
	assert.ErrorIs(t, err, ErrEmptyLibrary)
}

func TestLoadInline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0644))

	src, err := LoadInline(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, src.Len())

	_, err = LoadInline(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
