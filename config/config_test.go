package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/casesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, IndexNearest, cfg.Index.Mode)
	assert.Equal(t, KNNBruteForce, cfg.Index.KNN)
	assert.Equal(t, 10, cfg.Index.MinResults)
	assert.Equal(t, 25, cfg.Index.AverageBinSize)
	assert.Equal(t, SegmentSentence, cfg.Segmenter.Kind)
	assert.Equal(t, 8, cfg.Ingestion.Workers)
	assert.Equal(t, 200, cfg.Ingestion.DisplayLimit)
	assert.Equal(t, 3000, cfg.Ingestion.CharsPerPage)
	assert.Empty(t, cfg.Vectors.Mode)
}

func TestNew(t *testing.T) {
	t.Run("with vectors file", func(t *testing.T) {
		cfg := New(WithVectorsFile("vectors.txt"))
		assert.Equal(t, VectorsInline, cfg.Vectors.Mode)
		assert.Equal(t, "vectors.txt", cfg.Vectors.File)
	})

	t.Run("library replaces file", func(t *testing.T) {
		cfg := New(WithVectorsFile("vectors.txt"), WithLibrary(VectorsBadger, "lib"))
		assert.Equal(t, VectorsBadger, cfg.Vectors.Mode)
		assert.Equal(t, "lib", cfg.Vectors.Library)
		assert.Empty(t, cfg.Vectors.File)
	})

	t.Run("with tuning", func(t *testing.T) {
		cfg := New(WithWorkers(2), WithMinResults(5), WithIndex(IndexBins, KNNVPTree))
		assert.Equal(t, 2, cfg.Ingestion.Workers)
		assert.Equal(t, 5, cfg.Index.MinResults)
		assert.Equal(t, IndexBins, cfg.Index.Mode)
		assert.Equal(t, KNNVPTree, cfg.Index.KNN)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid inline", func(t *testing.T) {
		cfg := New(WithVectorsFile("vectors.txt"))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("infers sharded mode", func(t *testing.T) {
		cfg := Default()
		cfg.Vectors.Library = "lib"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, VectorsSharded, cfg.Vectors.Mode)
	})

	t.Run("normalizes case", func(t *testing.T) {
		cfg := New(WithVectorsFile("v.txt"), WithIndex(" Bins ", "VPTree"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, IndexBins, cfg.Index.Mode)
		assert.Equal(t, KNNVPTree, cfg.Index.KNN)
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no source", func(c *Config) {}},
		{"both sources", func(c *Config) { c.Vectors.File = "a"; c.Vectors.Library = "b" }},
		{"inline without file", func(c *Config) { c.Vectors.Mode = VectorsInline }},
		{"badger without library", func(c *Config) { c.Vectors.Mode = VectorsBadger }},
		{"unknown mode", func(c *Config) { c.Vectors.Mode = "remote"; c.Vectors.Library = "x" }},
		{"unknown index", func(c *Config) { c.Vectors.File = "a"; c.Index.Mode = "exact" }},
		{"unknown knn", func(c *Config) { c.Vectors.File = "a"; c.Index.KNN = "annoy" }},
		{"unknown segmenter", func(c *Config) { c.Vectors.File = "a"; c.Segmenter.Kind = "words" }},
		{"overlap too large", func(c *Config) { c.Vectors.File = "a"; c.Segmenter.ChunkOverlap = 400 }},
		{"zero workers", func(c *Config) { c.Vectors.File = "a"; c.Ingestion.Workers = 0 }},
		{"negative min results", func(c *Config) { c.Vectors.File = "a"; c.Index.MinResults = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrConfiguration)
		})
	}
}

func TestLoadSave(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "casesearch.yaml")
		cfg := New(WithLibrary(VectorsBadger, "/var/lib/words"), WithWorkers(3))

		require.NoError(t, Save(path, cfg))
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("partial file gets defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "casesearch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vectors:\n  file: words.txt\nindex:\n  mode: bins\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "words.txt", cfg.Vectors.File)
		assert.Equal(t, IndexBins, cfg.Index.Mode)
		assert.Equal(t, KNNBruteForce, cfg.Index.KNN)
		assert.Equal(t, 8, cfg.Ingestion.Workers)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("vectors: [unclosed"), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})
}
