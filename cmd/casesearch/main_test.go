package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/casesearch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeFixtures(t *testing.T) (table, docs string) {
	t.Helper()
	dir := t.TempDir()
	table = filepath.Join(dir, "vectors.txt")
	require.NoError(t, os.WriteFile(table, []byte(
		"tiger 1 0 0\nstripes 0.9 0.1 0\nengine 0 1 0\nwheel 0 0.9 0.1\ngarden 0 0 1\n"), 0644))

	docs = filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "cats.txt"), []byte("The tiger has stripes."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "cars.txt"), []byte("The engine turns a wheel."), 0644))
	return table, docs
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"casesearch"}, args...))
	return out.String(), err
}

func findCommand(t *testing.T, name string) *cli.Command {
	t.Helper()
	for _, cmd := range newApp().Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestSearchCommandFlags(t *testing.T) {
	t.Run("query is required", func(t *testing.T) {
		_, err := runApp(t, "search", "docs")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("config reads CASESEARCH_CONFIG", func(t *testing.T) {
		cmd := findCommand(t, "search")
		var configFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "config" {
				configFlag = f
				break
			}
		}
		require.NotNil(t, configFlag)
		assert.Equal(t, defaultConfigPath, configFlag.Value)
		assert.Contains(t, configFlag.EnvVars, "CASESEARCH_CONFIG")
	})

	t.Run("paths are required", func(t *testing.T) {
		table, _ := writeFixtures(t)
		_, err := runApp(t, "search", "--vectors", table, "-q", "tiger")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document path")
	})

	t.Run("invalid granularity", func(t *testing.T) {
		_, err := runApp(t, "search", "-q", "tiger", "--granularity", "page", "docs")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid granularity")
	})

	t.Run("missing vector source", func(t *testing.T) {
		_, docs := writeFixtures(t)
		missing := filepath.Join(t.TempDir(), "absent.yaml")
		_, err := runApp(t, "search", "--config", missing, "-q", "tiger", docs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestSearchCommand(t *testing.T) {
	table, docs := writeFixtures(t)
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	t.Run("inline vectors", func(t *testing.T) {
		out, err := runApp(t, "search", "--config", missing, "--vectors", table,
			"-q", "tiger stripes", docs)
		require.NoError(t, err)
		assert.Contains(t, out, "Sentences (")
		assert.Contains(t, out, "Documents (")
		assert.Contains(t, out, "1: [")
		assert.Contains(t, out, "(cats, pg 1")
	})

	t.Run("document granularity with vptree", func(t *testing.T) {
		out, err := runApp(t, "search", "--config", missing, "--vectors", table,
			"--knn", "vptree", "--granularity", "document", "-q", "engine", docs)
		require.NoError(t, err)
		assert.NotContains(t, out, "Sentences (")
		assert.Contains(t, out, "Documents (")
		assert.Contains(t, out, "cars")
	})

	t.Run("badger library", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "library")
		out, err := runApp(t, "import-library", "--table", table, "--db", db, "--batch-size", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 5 words")

		out, err = runApp(t, "search", "--config", missing, "--library", db,
			"--library-mode", config.VectorsBadger, "-q", "garden tiger", docs)
		require.NoError(t, err)
		assert.Contains(t, out, "cats")
	})

	t.Run("library mode from config file", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "library")
		_, err := runApp(t, "import-library", "--table", table, "--db", db)
		require.NoError(t, err)

		cfgPath := filepath.Join(t.TempDir(), "casesearch.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("vectors:\n  mode: badger\n"), 0644))

		out, err := runApp(t, "search", "--config", cfgPath, "--library", db, "-q", "garden tiger", docs)
		require.NoError(t, err)
		assert.Contains(t, out, "cats")
	})

	t.Run("reports failed extensions", func(t *testing.T) {
		_, withScan := writeFixtures(t)
		require.NoError(t, os.WriteFile(filepath.Join(withScan, "scan.doc"), []byte("binary"), 0644))

		out, err := runApp(t, "search", "--config", missing, "--vectors", table, "-q", "tiger", withScan)
		require.NoError(t, err)
		assert.Contains(t, out, "Failed extensions: doc")
	})

	t.Run("no failed extensions line for clean corpus", func(t *testing.T) {
		out, err := runApp(t, "search", "--config", missing, "--vectors", table, "-q", "tiger", docs)
		require.NoError(t, err)
		assert.NotContains(t, out, "Failed extensions")
	})
}

func TestLoadConfigLibraryMode(t *testing.T) {
	load := func(t *testing.T, args ...string) *config.Config {
		t.Helper()
		var cfg *config.Config
		app := &cli.App{
			Name:  "test",
			Flags: caseFlags(),
			Action: func(c *cli.Context) error {
				var err error
				cfg, err = loadConfig(c)
				return err
			},
		}
		require.NoError(t, app.Run(append([]string{"test"}, args...)))
		return cfg
	}

	writeConfig := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "casesearch.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}

	t.Run("config file mode is kept", func(t *testing.T) {
		cfg := load(t, "--config", writeConfig(t, "vectors:\n  mode: badger\n"), "--library", "db")
		assert.Equal(t, config.VectorsBadger, cfg.Vectors.Mode)
		assert.Equal(t, "db", cfg.Vectors.Library)
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		cfg := load(t, "--config", writeConfig(t, "vectors:\n  mode: badger\n"),
			"--library", "db", "--library-mode", config.VectorsSharded)
		assert.Equal(t, config.VectorsSharded, cfg.Vectors.Mode)
	})

	t.Run("flag default without a configured mode", func(t *testing.T) {
		cfg := load(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "--library", "db")
		assert.Equal(t, config.VectorsSharded, cfg.Vectors.Mode)
	})

	t.Run("inline config mode falls back to flag default", func(t *testing.T) {
		cfg := load(t, "--config", writeConfig(t, "vectors:\n  mode: inline\n  file: vectors.txt\n"), "--library", "db")
		assert.Equal(t, config.VectorsSharded, cfg.Vectors.Mode)
		assert.Empty(t, cfg.Vectors.File)
	})

	t.Run("flag applies to configured library", func(t *testing.T) {
		cfg := load(t, "--config", writeConfig(t, "vectors:\n  library: db\n"), "--library-mode", config.VectorsBadger)
		assert.Equal(t, config.VectorsBadger, cfg.Vectors.Mode)
		assert.Equal(t, "db", cfg.Vectors.Library)
	})
}

func TestInspectCommand(t *testing.T) {
	table, docs := writeFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(docs, "scan.doc"), []byte("binary"), 0644))

	out, err := runApp(t, "inspect", "--config", filepath.Join(t.TempDir(), "absent.yaml"),
		"--vectors", table, docs)
	require.NoError(t, err)
	assert.Contains(t, out, "Documents: 2")
	assert.Contains(t, out, "Vector dimension: 3")
	assert.Contains(t, out, "Failed extensions: doc")
}

func TestLibraryCommands(t *testing.T) {
	table, _ := writeFixtures(t)

	t.Run("build-library", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "shards")
		_, err := runApp(t, "build-library", "--table", table, "--out", root)
		require.NoError(t, err)
		assert.DirExists(t, root)
	})

	t.Run("import-library rejects batch size", func(t *testing.T) {
		_, err := runApp(t, "import-library", "--table", table, "--db", t.TempDir(), "--batch-size", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})

	t.Run("init-config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "casesearch.yaml")
		_, err := runApp(t, "init-config", "--out", path)
		require.NoError(t, err)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "verbose", "inspect")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp()
		app.Commands = nil
		app.Action = func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}

		err := app.Run([]string{"casesearch", "-l", "debug"})
		require.NoError(t, err)
	})
}
