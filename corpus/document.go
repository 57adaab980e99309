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
	"math"
	"path/filepath"
	"strings"

	"github.com/poiesic/casesearch/core"
	"github.com/poiesic/casesearch/segment"
	"github.com/poiesic/casesearch/similarity"
)

// Scoring thresholds. Tuned empirically; exported so callers can adjust them.
var (
	// Score2Threshold is the cosine a sentence must exceed to count toward Score2.
	Score2Threshold = 0.01

	// Score3MatchThreshold is the cosine a sentence must exceed to count as a Score3 match.
	Score3MatchThreshold = 0.005

	// Score3FallbackThreshold is the Sentence.Score a sentence must exceed when
	// Score3 has too few matches to measure their spread.
	Score3FallbackThreshold = 0.505

	// Score3MinMatches is the number of matches Score3 needs to measure spread.
	Score3MinMatches = 4
)

// DefaultDisplayLimit is the neighbour context shown around a sentence.
const DefaultDisplayLimit = 200

// Vectorizer turns text into an un-normalized vector of fixed dimension.
// Implementations must be safe for concurrent use.
type Vectorizer interface {
	GetVector(text string) []float64
	Dimension() int
}

// Document is an ingested file split into sentences.
type Document struct {
	ID           core.ID
	Name         string
	Path         string
	Text         string
	Sentences    []*Sentence
	Vector       []float64 // mean of sentence vectors; nil when there are no sentences
	DisplayLimit int

	vectorizer Vectorizer
	byText     map[string]int
	owner      *Case
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithPath records the source file of the document.
func WithPath(path string) DocumentOption {
	return func(d *Document) {
		d.Path = path
	}
}

// sourceKey resolves path to an absolute form so the same file reached through
// different spellings yields the same document ID.
func sourceKey(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// WithDisplayLimit sets the neighbour context length for display text.
func WithDisplayLimit(limit int) DocumentOption {
	return func(d *Document) {
		if limit > 0 {
			d.DisplayLimit = limit
		}
	}
}

// NewDocument segments each page of extraction into sentences and vectorizes
// them. Pages the segmenter cannot split fall back to one sentence per line.
func NewDocument(name string, extraction *core.Extraction, seg segment.Segmenter, vectorizer Vectorizer, opts ...DocumentOption) (*Document, error) {
	if extraction == nil {
		return nil, ErrExtractionRequired
	}
	if seg == nil {
		return nil, ErrSegmenterRequired
	}
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}

	d := &Document{
		Name:         name,
		DisplayLimit: DefaultDisplayLimit,
		vectorizer:   vectorizer,
		byText:       make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.ID = core.IDFromContent(sourceKey(d.Path) + "\x00" + name)

	pages := extraction.PageTexts()
	d.Text = extraction.Text
	if d.Text == "" {
		texts := make([]string, len(pages))
		for i, p := range pages {
			texts[i] = p.Text
		}
		d.Text = strings.Join(texts, "\n")
	}

	for _, page := range pages {
		for _, text := range segment.SplitPage(seg, page.Text) {
			s := &Sentence{
				Text:          text,
				Vector:        similarity.Normalize(vectorizer.GetVector(text)),
				Index:         len(d.Sentences),
				PageNumber:    page.Number,
				PageEstimated: extraction.Estimated,
				document:      d,
			}
			if _, ok := d.byText[text]; !ok {
				d.byText[text] = s.Index
			}
			d.Sentences = append(d.Sentences, s)
		}
	}

	vecs := make([][]float64, len(d.Sentences))
	for i, s := range d.Sentences {
		vecs[i] = s.Vector
	}
	d.Vector = similarity.Mean(vecs)
	return d, nil
}

// Case returns the Case that owns the document, or nil before registration.
func (d *Document) Case() *Case {
	return d.owner
}

// DisplayText returns the label shown for a document candidate.
func (d *Document) DisplayText() string {
	return d.Name
}

// Score rewards strong lexical containment combined with semantic similarity.
func (d *Document) Score(query string) float64 {
	return d.scoreVector(d.vectorizer.GetVector(query), query)
}

func (d *Document) scoreVector(queryVector []float64, query string) float64 {
	return similarity.ItemDistance2(d.Vector, queryVector, d.Text, query)
}

// Score2 returns the fraction of sentences whose cosine with the query
// exceeds Score2Threshold, rescaled by (v+1)/2.
func (d *Document) Score2(query string) float64 {
	qv := d.vectorizer.GetVector(query)
	v := 0.0
	if len(d.Sentences) > 0 {
		hits := 0
		for _, s := range d.Sentences {
			if s.simVector(qv) > Score2Threshold {
				hits++
			}
		}
		v = float64(hits) / float64(len(d.Sentences))
	}
	return (v + 1) / 2
}

// Score3 rewards matches that are both frequent and close together.
//
// With m matching sentences at positions P out of n sentences it returns
// (ln m / ln n)^3 * (1 - stdev(P)/(max(P)-min(P)))^0.75. With fewer than
// Score3MinMatches matches it falls back to the fraction of sentences whose
// Score exceeds Score3FallbackThreshold.
func (d *Document) Score3(query string) float64 {
	n := len(d.Sentences)
	if n == 0 {
		return 0
	}

	qv := d.vectorizer.GetVector(query)
	var matches []int
	for i, s := range d.Sentences {
		if s.simVector(qv) > Score3MatchThreshold {
			matches = append(matches, i)
		}
	}

	if len(matches) < Score3MinMatches {
		hits := 0
		for _, s := range d.Sentences {
			if s.scoreVector(qv, query) > Score3FallbackThreshold {
				hits++
			}
		}
		return float64(hits) / float64(n)
	}

	ratio1 := math.Log(float64(len(matches))) / math.Log(float64(n))
	span := float64(matches[len(matches)-1] - matches[0])
	ratio2 := 1 - populationStdDev(matches)/span
	return math.Pow(ratio1, 3) * math.Pow(ratio2, 0.75)
}

func populationStdDev(values []int) float64 {
	var mean float64
	for _, v := range values {
		mean += float64(v)
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// DisplaySentence returns the display text of the sentence at index.
func (d *Document) DisplaySentence(index int) (string, bool) {
	if index < 0 || index >= len(d.Sentences) {
		return "", false
	}
	return d.Sentences[index].DisplayText(), true
}

// DisplaySentenceForText resolves a sentence by its exact text and returns
// its display text.
func (d *Document) DisplaySentenceForText(text string) (string, bool) {
	index, ok := d.byText[text]
	if !ok {
		return "", false
	}
	return d.DisplaySentence(index)
}
