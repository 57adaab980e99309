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


package corpus

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/casesearch/core"
	"github.com/poiesic/casesearch/index"
	"github.com/poiesic/casesearch/similarity"
)

// Defaults for Case construction.
const (
	DefaultMinResults     = 10
	DefaultAverageBinSize = 25
)

// IndexMode selects the retrieval structure built per granularity.
type IndexMode int

const (
	// ModeNearest fits one k-NN index per granularity.
	ModeNearest IndexMode = iota
	// ModeBins partitions vectors into k-means clusters.
	ModeBins
)

// Candidate is one ranked search hit.
type Candidate struct {
	Granularity   core.Granularity
	Text          string
	DisplayText   string
	Document      *Document
	Sentence      *Sentence // nil for document candidates
	PageNumber    int       // 0 when the document has no sentences
	PageEstimated bool
	Score         float64
}

// PageLabel renders the page for display. Estimated pages are shown bare,
// exact pages in parentheses.
func (c Candidate) PageLabel() string {
	if c.PageNumber == 0 {
		return ""
	}
	if c.PageEstimated {
		return fmt.Sprintf("pg %d", c.PageNumber)
	}
	return fmt.Sprintf("pg (%d)", c.PageNumber)
}

// Results holds ranked candidates per granularity.
type Results struct {
	Query     string
	Sentences []Candidate
	Documents []Candidate
}

// fitted maps index positions back to item positions. Items with
// degenerate vectors are left out of the index.
type fitted struct {
	index index.Index
	items []int
}

// Case owns the documents of one corpus build and their retrieval indexes.
type Case struct {
	documents  []*Document
	byName     map[string]int
	byID       map[core.ID]struct{}
	sentences  []*Sentence
	failed     []string
	vectorizer Vectorizer

	minResults  int
	binSize     int
	mode        IndexMode
	newIndex    index.Factory
	sentenceIdx *fitted
	documentIdx *fitted
	logger      *slog.Logger
}

// Option configures a Case.
type Option func(*Case) error

// WithMinResults sets the candidate count returned per granularity.
func WithMinResults(n int) Option {
	return func(c *Case) error {
		if err := core.ValidatePositive("min results", n); err != nil {
			return err
		}
		c.minResults = n
		return nil
	}
}

// WithAverageBinSize sets the target cluster size for ModeBins.
func WithAverageBinSize(n int) Option {
	return func(c *Case) error {
		if err := core.ValidatePositive("average bin size", n); err != nil {
			return err
		}
		c.binSize = n
		return nil
	}
}

// WithIndexMode selects nearest-neighbour or clustering retrieval.
func WithIndexMode(mode IndexMode) Option {
	return func(c *Case) error {
		if mode != ModeNearest && mode != ModeBins {
			return fmt.Errorf("%w: unknown index mode %d", core.ErrConfiguration, mode)
		}
		c.mode = mode
		return nil
	}
}

// WithNeighborIndex sets the k-NN implementation used by ModeNearest.
// Default is index.BruteForce.
func WithNeighborIndex(factory index.Factory) Option {
	return func(c *Case) error {
		if factory == nil {
			return fmt.Errorf("%w: nil index factory", core.ErrConfiguration)
		}
		c.newIndex = factory
		return nil
	}
}

// WithFailedExtensions records the extensions of files that failed ingestion.
func WithFailedExtensions(exts []string) Option {
	return func(c *Case) error {
		c.failed = append([]string(nil), exts...)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Case) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCase registers documents and builds the retrieval indexes once.
func NewCase(documents []*Document, vectorizer Vectorizer, opts ...Option) (*Case, error) {
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}

	c := &Case{
		byName:     make(map[string]int, len(documents)),
		byID:       make(map[core.ID]struct{}, len(documents)),
		vectorizer: vectorizer,
		minResults: DefaultMinResults,
		binSize:    DefaultAverageBinSize,
		mode:       ModeNearest,
		newIndex:   func() index.Index { return &index.BruteForce{} },
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "case")

	dim := vectorizer.Dimension()
	for _, d := range documents {
		if d == nil {
			continue
		}
		if d.Vector != nil && len(d.Vector) != dim {
			return nil, fmt.Errorf("%w: %q has dimension %d, want %d", ErrDimensionMismatch, d.Name, len(d.Vector), dim)
		}
		if _, dup := c.byID[d.ID]; dup {
			c.logger.Debug("duplicate document skipped", "name", d.Name, "path", d.Path)
			continue
		}
		c.byID[d.ID] = struct{}{}
		d.owner = c
		c.byName[d.Name] = len(c.documents)
		c.documents = append(c.documents, d)
		c.sentences = append(c.sentences, d.Sentences...)
	}

	var err error
	c.sentenceIdx, err = c.fit(core.GranularitySentence, len(c.sentences), func(i int) []float64 {
		return c.sentences[i].Vector
	})
	if err != nil {
		return nil, err
	}
	c.documentIdx, err = c.fit(core.GranularityDocument, len(c.documents), func(i int) []float64 {
		return c.documents[i].Vector
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("case built",
		"documents", len(c.documents),
		"sentences", len(c.sentences),
		"failed", len(c.failed))
	return c, nil
}

func (c *Case) fit(g core.Granularity, n int, vector func(int) []float64) (*fitted, error) {
	f := &fitted{}
	vecs := make([][]float64, 0, n)
	for i := 0; i < n; i++ {
		v := vector(i)
		if similarity.IsZero(v) {
			continue
		}
		f.items = append(f.items, i)
		vecs = append(vecs, v)
	}
	if excluded := n - len(f.items); excluded > 0 {
		c.logger.Debug("excluded from index", "granularity", g, "count", excluded, "reason", core.ErrDegenerateVector)
	}

	switch c.mode {
	case ModeBins:
		f.index = index.NewBins(c.binSize)
	default:
		f.index = c.newIndex()
	}
	if err := f.index.Fit(vecs); err != nil {
		return nil, fmt.Errorf("fitting %s index: %w", g, err)
	}
	return f, nil
}

// Documents returns the documents in registration order.
func (c *Case) Documents() []*Document {
	return c.documents
}

// Sentences returns every sentence of every document.
func (c *Case) Sentences() []*Sentence {
	return c.sentences
}

// Document returns the document registered under name.
func (c *Case) Document(name string) (*Document, bool) {
	i, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.documents[i], true
}

// FailedExtensions returns the extensions of files that failed ingestion,
// one entry per failed file.
func (c *Case) FailedExtensions() []string {
	return c.failed
}

// MinResults returns the candidate count requested per granularity.
func (c *Case) MinResults() int {
	return c.minResults
}

// Search ranks sentences and documents against query.
func (c *Case) Search(query string) (*Results, error) {
	return c.SearchWithMonitor(query, nil)
}

// SearchWithMonitor ranks sentences and documents against query.
// The monitor receives callbacks at each stage of the search process.
//
// Each granularity returns at most min(MinResults, fitted items) candidates,
// sorted by ItemDistance to the query, highest first. A query without known
// words yields a zero vector and an effectively unranked result.
func (c *Case) SearchWithMonitor(query string, monitor SearchMonitor) (*Results, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	qv := similarity.Normalize(c.vectorizer.GetVector(query))
	degenerate := similarity.IsZero(qv)
	monitor.AfterQueryVector(qv, degenerate)
	if degenerate {
		c.logger.Debug("query has no known words", "query", query)
	}

	results := &Results{Query: query}

	positions, err := c.lookup(c.sentenceIdx, qv, len(c.sentences))
	if err != nil {
		return nil, err
	}
	monitor.AfterNeighborLookup(core.GranularitySentence, positions)
	for _, i := range positions {
		s := c.sentences[i]
		results.Sentences = append(results.Sentences, Candidate{
			Granularity:   core.GranularitySentence,
			Text:          s.Text,
			DisplayText:   s.DisplayText(),
			Document:      s.document,
			Sentence:      s,
			PageNumber:    s.PageNumber,
			PageEstimated: s.PageEstimated,
			Score:         s.scoreVector(qv, query),
		})
	}

	positions, err = c.lookup(c.documentIdx, qv, len(c.documents))
	if err != nil {
		return nil, err
	}
	monitor.AfterNeighborLookup(core.GranularityDocument, positions)
	for _, i := range positions {
		d := c.documents[i]
		cand := Candidate{
			Granularity: core.GranularityDocument,
			Text:        d.Text,
			DisplayText: d.DisplayText(),
			Document:    d,
			Score:       similarity.ItemDistance(d.Vector, qv, d.Text, query),
		}
		if len(d.Sentences) > 0 {
			cand.PageNumber = d.Sentences[0].PageNumber
			cand.PageEstimated = d.Sentences[0].PageEstimated
		}
		results.Documents = append(results.Documents, cand)
	}

	rank(results.Sentences)
	rank(results.Documents)
	monitor.Finish(results)
	return results, nil
}

// lookup queries a fitted index for min(minResults, itemCount, fitted) neighbours.
func (c *Case) lookup(f *fitted, qv []float64, itemCount int) ([]int, error) {
	k := min(c.minResults, itemCount, f.index.Len())
	if k == 0 {
		return nil, nil
	}
	hits, err := f.index.Query(qv, k)
	if err != nil {
		return nil, err
	}
	positions := make([]int, len(hits))
	for i, h := range hits {
		positions[i] = f.items[h]
	}
	return positions, nil
}

func rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})
}
