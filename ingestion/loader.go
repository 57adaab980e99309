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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/casesearch/core"
	"github.com/poiesic/casesearch/corpus"
	"github.com/poiesic/casesearch/extract"
	"github.com/poiesic/casesearch/segment"
)

// DefaultWorkers is the default worker pool size.
const DefaultWorkers = 8

// Failure describes a file that produced no Document.
type Failure struct {
	Path string
	Ext  string
	Err  error
}

// Batch is the outcome of one Load call. Document order is completion
// order, not input order.
type Batch struct {
	Documents        []*corpus.Document
	FailedExtensions []string // one entry per failed file
	Failures         []Failure
}

type result struct {
	path string
	doc  *corpus.Document
	err  error
}

// Loader ingests files with bounded concurrency.
type Loader struct {
	extractor    extract.TextExtractor
	segmenter    segment.Segmenter
	vectorizer   corpus.Vectorizer
	workers      int
	displayLimit int
	progress     io.Writer
	logger       *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithWorkers sets the maximum number of files processed at once.
// Default is DefaultWorkers. Each Load caps it at the number of files.
func WithWorkers(n int) Option {
	return func(l *Loader) error {
		if err := core.ValidatePositive("workers", n); err != nil {
			return err
		}
		l.workers = n
		return nil
	}
}

// WithDisplayLimit sets the display limit given to every Document.
func WithDisplayLimit(limit int) Option {
	return func(l *Loader) error {
		if err := core.ValidatePositive("display limit", limit); err != nil {
			return err
		}
		l.displayLimit = limit
		return nil
	}
}

// WithProgress reports progress to w as files complete.
func WithProgress(w io.Writer) Option {
	return func(l *Loader) error {
		l.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a new Loader.
func NewLoader(
	extractor extract.TextExtractor,
	segmenter segment.Segmenter,
	vectorizer corpus.Vectorizer,
	opts ...Option,
) (*Loader, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if segmenter == nil {
		return nil, ErrSegmenterRequired
	}
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}

	l := &Loader{
		extractor:    extractor,
		segmenter:    segmenter,
		vectorizer:   vectorizer,
		workers:      DefaultWorkers,
		displayLimit: corpus.DefaultDisplayLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "loader")
	return l, nil
}

// Load extracts every path and builds a Document per successful file.
//
// Cancelling ctx stops submission of files not yet started; files already
// running complete and are collected. In that case the partial batch is
// returned together with the context error.
func (l *Loader) Load(ctx context.Context, paths []string) (*Batch, error) {
	batch := &Batch{}
	if len(paths) == 0 {
		return batch, nil
	}

	pool, err := ants.NewPool(min(l.workers, len(paths)))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var tracker *ProgressTracker
	if l.progress != nil {
		tracker = NewProgressTracker(l.progress, len(paths), 1)
		tracker.Start()
	}

	// Buffered for every path so workers never block on send.
	results := make(chan result, len(paths))
	submitted := 0
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		err := pool.Submit(func() {
			results <- l.loadFile(path)
		})
		if err != nil {
			results <- result{path: path, err: fmt.Errorf("%w: submit: %w", core.ErrExtractionFailed, err)}
		}
		submitted++
	}

	for i := 0; i < submitted; i++ {
		r := <-results
		if r.err != nil {
			ext := extract.Ext(r.path)
			l.logger.Warn("extraction failed", "path", r.path, "ext", ext, "err", r.err)
			batch.FailedExtensions = append(batch.FailedExtensions, ext)
			batch.Failures = append(batch.Failures, Failure{Path: r.path, Ext: ext, Err: r.err})
		} else {
			batch.Documents = append(batch.Documents, r.doc)
		}
		if tracker != nil {
			tracker.Increment(1)
		}
	}
	if tracker != nil {
		tracker.Finish()
	}

	l.logger.Info("batch loaded",
		"files", len(paths),
		"documents", len(batch.Documents),
		"failed", len(batch.FailedExtensions))

	if submitted < len(paths) {
		return batch, fmt.Errorf("load cancelled after %d of %d files: %w", submitted, len(paths), ctx.Err())
	}
	return batch, nil
}

// loadFile runs in a worker. Panics from the extractor become failures.
func (l *Loader) loadFile(path string) (r result) {
	r.path = path
	defer func() {
		if p := recover(); p != nil {
			r.doc = nil
			r.err = fmt.Errorf("%w: panic: %v", core.ErrExtractionFailed, p)
		}
	}()

	extraction, err := l.extractor.Extract(path, true)
	if err != nil {
		if !errors.Is(err, core.ErrExtractionFailed) {
			err = fmt.Errorf("%w: %w", core.ErrExtractionFailed, err)
		}
		r.err = err
		return r
	}
	if err := core.ValidateExtraction(extraction); err != nil {
		r.err = err
		return r
	}

	doc, err := corpus.NewDocument(
		extract.Name(path),
		extraction,
		l.segmenter,
		l.vectorizer,
		corpus.WithPath(path),
		corpus.WithDisplayLimit(l.displayLimit),
	)
	if err != nil {
		r.err = fmt.Errorf("%w: %w", core.ErrExtractionFailed, err)
		return r
	}
	r.doc = doc
	return r
}
