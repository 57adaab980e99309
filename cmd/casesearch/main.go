// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/casesearch"
	"github.com/poiesic/casesearch/config"
	"github.com/poiesic/casesearch/corpus"
	"github.com/urfave/cli/v2"
)

const defaultConfigPath = "casesearch.yaml"

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "casesearch",
		Usage: "Semantic search over a case of documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Index documents and search them",
				ArgsUsage: "PATH...",
				Action:    searchCommand,
				Flags: append(caseFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search query",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "granularity",
						Usage: "Results to show (sentence, document, all)",
						Value: "all",
					},
				),
			},
			{
				Name:      "inspect",
				Usage:     "Index documents and summarize the case",
				ArgsUsage: "PATH...",
				Action:    inspectCommand,
				Flags:     caseFlags(),
			},
			{
				Name:   "build-library",
				Usage:  "Write a sharded vector library from a vectors table",
				Action: buildLibraryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "table",
						Aliases:  []string{"t"},
						Usage:    "Path to vectors table (word v1 ... vn per line)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Library root directory",
						Required: true,
					},
				},
			},
			{
				Name:   "import-library",
				Usage:  "Import a vectors table into a BadgerDB library",
				Action: importLibraryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "table",
						Aliases:  []string{"t"},
						Usage:    "Path to vectors table (word v1 ... vn per line)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of words written per batch",
						Value: 1000,
					},
				},
			},
			{
				Name:   "init-config",
				Usage:  "Write a configuration file with default values",
				Action: initConfigCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Configuration file to write",
						Value:   defaultConfigPath,
					},
				},
			},
		},
	}
}

// caseFlags are shared by commands that build a case.
func caseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
			EnvVars: []string{"CASESEARCH_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "vectors",
			Usage: "Path to vectors table, overrides the configuration",
		},
		&cli.StringFlag{
			Name:  "library",
			Usage: "Path to vector library, overrides the configuration",
		},
		&cli.StringFlag{
			Name:  "library-mode",
			Usage: "Vector library format (sharded, badger)",
			Value: config.VectorsSharded,
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "Index mode (nearest, bins)",
		},
		&cli.StringFlag{
			Name:  "knn",
			Usage: "Nearest-neighbor index (bruteforce, vptree)",
		},
		&cli.IntFlag{
			Name:  "min-results",
			Usage: "Candidates per granularity",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent extraction workers",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Report loading progress on stderr",
		},
	}
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var opts []config.Option
	if v := c.String("vectors"); v != "" {
		opts = append(opts, config.WithVectorsFile(v))
	}
	if v := c.String("library"); v != "" {
		opts = append(opts, config.WithLibrary(libraryMode(c, cfg), v))
	} else if c.IsSet("library-mode") && cfg.Vectors.Library != "" {
		opts = append(opts, config.WithLibrary(c.String("library-mode"), cfg.Vectors.Library))
	}
	if c.IsSet("index") || c.IsSet("knn") {
		mode, knn := cfg.Index.Mode, cfg.Index.KNN
		if c.IsSet("index") {
			mode = c.String("index")
		}
		if c.IsSet("knn") {
			knn = c.String("knn")
		}
		opts = append(opts, config.WithIndex(mode, knn))
	}
	if c.IsSet("min-results") {
		opts = append(opts, config.WithMinResults(c.Int("min-results")))
	}
	if c.IsSet("workers") {
		opts = append(opts, config.WithWorkers(c.Int("workers")))
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func buildCase(c *cli.Context) (*casesearch.Engine, *corpus.Case, error) {
	if c.NArg() == 0 {
		return nil, nil, fmt.Errorf("at least one document path is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	opts := []casesearch.EngineOption{casesearch.WithLogger(slog.Default())}
	if c.Bool("progress") {
		opts = append(opts, casesearch.WithProgress(os.Stderr))
	}
	eng, err := casesearch.NewEngine(cfg, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cs, _, err := eng.BuildCase(ctx, c.Args().Slice())
	if err != nil {
		eng.Close()
		return nil, nil, fmt.Errorf("failed to build case: %w", err)
	}
	return eng, cs, nil
}

// libraryMode keeps a library mode from the config file unless the flag was
// given explicitly. An inline mode cannot describe a library, so the flag's
// default applies then.
func libraryMode(c *cli.Context, cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.Vectors.Mode))
	if c.IsSet("library-mode") || mode == "" || mode == config.VectorsInline {
		return c.String("library-mode")
	}
	return mode
}

func searchCommand(c *cli.Context) error {
	granularity := strings.ToLower(c.String("granularity"))
	switch granularity {
	case "all", "sentence", "document":
	default:
		return fmt.Errorf("invalid granularity %q: must be one of sentence, document, all", granularity)
	}

	eng, cs, err := buildCase(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	results, err := cs.Search(c.String("query"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := c.App.Writer
	if granularity != "document" {
		fmt.Fprintf(out, "Sentences (%d)\n", len(results.Sentences))
		printCandidates(out, results.Sentences, results.Query)
	}
	if granularity != "sentence" {
		fmt.Fprintf(out, "Documents (%d)\n", len(results.Documents))
		printCandidates(out, results.Documents, "")
	}
	if failed := cs.FailedExtensions(); len(failed) > 0 {
		fmt.Fprintf(out, "Failed extensions: %s\n", strings.Join(failed, ", "))
	}
	return nil
}

// printCandidates writes one line per candidate. When query is set, the
// owning document's Score3 is shown as a relevance percentage.
func printCandidates(w io.Writer, candidates []corpus.Candidate, query string) {
	relevance := make(map[*corpus.Document]float64)
	for i, cand := range candidates {
		label := cand.Document.Name
		if page := cand.PageLabel(); page != "" {
			label += ", " + page
		}
		if query != "" {
			r, ok := relevance[cand.Document]
			if !ok {
				r = cand.Document.Score3(query)
				relevance[cand.Document] = r
			}
			label += fmt.Sprintf(", %.0f%%", r*100)
		}
		fmt.Fprintf(w, "%d: [%0.3f] %s (%s)\n", i+1, cand.Score, oneLine(cand.DisplayText), label)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func inspectCommand(c *cli.Context) error {
	eng, cs, err := buildCase(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	out := c.App.Writer
	fmt.Fprintf(out, "Documents: %d\n", len(cs.Documents()))
	fmt.Fprintf(out, "Sentences: %d\n", len(cs.Sentences()))
	fmt.Fprintf(out, "Vector dimension: %d\n", eng.Store().Dimension())
	if failed := cs.FailedExtensions(); len(failed) > 0 {
		fmt.Fprintf(out, "Failed extensions: %s\n", strings.Join(failed, ", "))
	}
	for _, d := range cs.Documents() {
		fmt.Fprintf(out, "  %s: %d sentences\n", d.Name, len(d.Sentences))
	}
	return nil
}

func buildLibraryCommand(c *cli.Context) error {
	failed, err := casesearch.BuildShardedLibrary(c.String("table"), c.String("out"), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to build library: %w", err)
	}
	if len(failed) > 0 {
		fmt.Fprintf(c.App.ErrWriter, "Skipped %d words: %s\n", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func importLibraryCommand(c *cli.Context) error {
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := casesearch.ImportLibrary(ctx, c.String("table"), c.String("db"), c.Int("batch-size"), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to import library: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Imported %d words into %s\n", n, c.String("db"))
	return nil
}

func initConfigCommand(c *cli.Context) error {
	path := c.String("out")
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
