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


// Package casesearch wires word vectors, extraction, loading and indexing
// into a searchable case.
package casesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/casesearch/config"
	"github.com/poiesic/casesearch/corpus"
	"github.com/poiesic/casesearch/extract"
	"github.com/poiesic/casesearch/index"
	"github.com/poiesic/casesearch/ingestion"
	"github.com/poiesic/casesearch/segment"
	"github.com/poiesic/casesearch/storage"
	"github.com/poiesic/casesearch/storage/badger"
	"github.com/poiesic/casesearch/vectors"
)

type Engine struct {
	cfg       *config.Config
	backend   *badger.Backend
	repo      storage.VectorRepository
	store     *vectors.Store
	segmenter segment.Segmenter
	registry  *extract.Registry
	progress  io.Writer
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger     *slog.Logger
	progress   io.Writer
	extractors map[string]extract.TextExtractor
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithProgress enables loading progress reports on w.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithExtractor registers an extractor for a file extension.
func WithExtractor(ext string, ex extract.TextExtractor) EngineOption {
	return func(o *engineOptions) {
		o.extractors[ext] = ex
	}
}

// NewEngine validates cfg and opens the configured vector source.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	options := &engineOptions{
		logger:     slog.Default(),
		extractors: make(map[string]extract.TextExtractor),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		progress: options.progress,
		logger:   options.logger,
	}

	source, err := e.openSource()
	if err != nil {
		e.Close()
		return nil, err
	}
	e.store, err = vectors.NewStore(source, vectors.WithLogger(e.logger))
	if err != nil {
		e.Close()
		return nil, err
	}

	e.segmenter, err = segment.New(cfg.Segmenter.Kind, cfg.Segmenter.ChunkSize, cfg.Segmenter.ChunkOverlap)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.registry = extract.NewRegistry(cfg.Ingestion.CharsPerPage)
	for ext, ex := range options.extractors {
		e.registry.Register(ext, ex)
	}
	return e, nil
}

func (e *Engine) openSource() (vectors.Source, error) {
	v := e.cfg.Vectors
	switch v.Mode {
	case config.VectorsInline:
		return vectors.LoadInline(v.File, e.logger)
	case config.VectorsSharded:
		return vectors.OpenSharded(v.Library, e.logger)
	case config.VectorsBadger:
		backend, err := badger.OpenBackend(v.Library, false, e.logger)
		if err != nil {
			return nil, err
		}
		e.backend = backend
		e.repo, err = badger.NewVectorRepository(backend)
		if err != nil {
			return nil, err
		}
		return vectors.NewRepositorySource(context.Background(), e.repo, e.logger)
	default:
		return nil, fmt.Errorf("unknown vectors mode %q", v.Mode)
	}
}

// Close releases the vector library, if one is open.
func (e *Engine) Close() error {
	var errs []error
	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			e.logger.Error("error closing vector repository", "err", err)
			errs = append(errs, err)
		}
		e.repo = nil
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
		e.backend = nil
	}
	return errors.Join(errs...)
}

func (e *Engine) Config() *config.Config {
	return e.cfg
}

func (e *Engine) Store() *vectors.Store {
	return e.store
}

// Registry returns the extractor registry. Register extractors before
// calling BuildCase.
func (e *Engine) Registry() *extract.Registry {
	return e.registry
}

func (e *Engine) Segmenter() segment.Segmenter {
	return e.segmenter
}

// NewLoader creates a Loader configured from the engine. opts are applied
// after the configured ones.
func (e *Engine) NewLoader(opts ...ingestion.Option) (*ingestion.Loader, error) {
	base := []ingestion.Option{
		ingestion.WithWorkers(e.cfg.Ingestion.Workers),
		ingestion.WithDisplayLimit(e.cfg.Ingestion.DisplayLimit),
		ingestion.WithLogger(e.logger),
	}
	if e.progress != nil {
		base = append(base, ingestion.WithProgress(e.progress))
	}
	return ingestion.NewLoader(e.registry, e.segmenter, e.store, append(base, opts...)...)
}

// BuildCase expands paths, loads every file and indexes the result.
// A cancelled ctx returns the cancellation error and no case.
func (e *Engine) BuildCase(ctx context.Context, paths []string) (*corpus.Case, *ingestion.Batch, error) {
	loader, err := e.NewLoader()
	if err != nil {
		return nil, nil, err
	}

	files := extract.ExpandPaths(paths, e.logger)
	e.logger.Debug("expanded paths", "inputs", len(paths), "files", len(files))

	batch, err := loader.Load(ctx, files)
	if err != nil {
		return nil, batch, err
	}

	opts, err := e.caseOptions()
	if err != nil {
		return nil, batch, err
	}
	opts = append(opts, corpus.WithFailedExtensions(batch.FailedExtensions))

	c, err := corpus.NewCase(batch.Documents, e.store, opts...)
	if err != nil {
		return nil, batch, err
	}
	return c, batch, nil
}

func (e *Engine) caseOptions() ([]corpus.Option, error) {
	factory, err := index.NewFactory(e.cfg.Index.KNN)
	if err != nil {
		return nil, err
	}
	mode := corpus.ModeNearest
	if e.cfg.Index.Mode == config.IndexBins {
		mode = corpus.ModeBins
	}
	return []corpus.Option{
		corpus.WithMinResults(e.cfg.Index.MinResults),
		corpus.WithAverageBinSize(e.cfg.Index.AverageBinSize),
		corpus.WithIndexMode(mode),
		corpus.WithNeighborIndex(factory),
		corpus.WithLogger(e.logger),
	}, nil
}
