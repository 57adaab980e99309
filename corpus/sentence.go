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
	"strings"

	"github.com/poiesic/casesearch/similarity"
)

// Sentence is one segment of a Document.
type Sentence struct {
	Text          string
	Vector        []float64 // unit length, or zero when no word was known
	Index         int       // position within the owning Document
	PageNumber    int
	PageEstimated bool

	document *Document
}

// Document returns the owning document.
func (s *Sentence) Document() *Document {
	return s.document
}

// Sim returns the cosine similarity between the sentence and query.
func (s *Sentence) Sim(query string) float64 {
	return s.simVector(s.document.vectorizer.GetVector(query))
}

func (s *Sentence) simVector(queryVector []float64) float64 {
	return similarity.Cosine(s.Vector, queryVector)
}

// Score returns the overlap-weighted similarity between the sentence and query.
func (s *Sentence) Score(query string) float64 {
	return s.scoreVector(s.document.vectorizer.GetVector(query), query)
}

func (s *Sentence) scoreVector(queryVector []float64, query string) float64 {
	return similarity.ItemDistance(s.Vector, queryVector, s.Text, query)
}

// DisplayText returns the sentence framed by its neighbours. A neighbour
// longer than the document display limit is cut to that many characters
// next to the sentence and marked with an ellipsis.
func (s *Sentence) DisplayText() string {
	d := s.document
	limit := d.DisplayLimit

	parts := make([]string, 0, 3)
	if s.Index > 0 {
		parts = append(parts, tail(d.Sentences[s.Index-1].Text, limit))
	}
	parts = append(parts, s.Text)
	if s.Index+1 < len(d.Sentences) {
		parts = append(parts, head(d.Sentences[s.Index+1].Text, limit))
	}
	return strings.Join(parts, " ")
}

const ellipsis = "..."

// tail keeps the last limit characters of text.
func tail(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit+len(ellipsis) {
		return text
	}
	return ellipsis + string(r[len(r)-limit:])
}

// head keeps the first limit characters of text.
func head(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit+len(ellipsis) {
		return text
	}
	return string(r[:limit]) + ellipsis
}
