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


// Package segment splits page text into sentences.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/casesearch/core"
	"github.com/tmc/langchaingo/textsplitter"
)

// Segmenter splits a page of text into sentence strings.
type Segmenter interface {
	Split(text string) []string
}

// Segmenter names accepted by New.
const (
	KindSentence  = "sentence"
	KindRecursive = "recursive"
)

// New returns the segmenter registered under kind.
// chunkSize and overlap apply to the recursive segmenter only.
func New(kind string, chunkSize, overlap int) (Segmenter, error) {
	switch kind {
	case "", KindSentence:
		return NewSentenceSegmenter(), nil
	case KindRecursive:
		return NewRecursiveSegmenter(chunkSize, overlap), nil
	default:
		return nil, fmt.Errorf("%w: unknown segmenter %q", core.ErrConfiguration, kind)
	}
}

// SentenceSegmenter splits on sentence terminators (. ! ?).
type SentenceSegmenter struct {
	splitter *regexp.Regexp
}

// NewSentenceSegmenter creates a terminator based segmenter.
func NewSentenceSegmenter() *SentenceSegmenter {
	return &SentenceSegmenter{
		splitter: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Split returns trimmed, non-empty sentences. Text after the last
// terminator is kept as a final sentence.
func (s *SentenceSegmenter) Split(text string) []string {
	var sentences []string
	end := 0
	for _, loc := range s.splitter.FindAllStringIndex(text, -1) {
		if sentence := strings.TrimSpace(text[loc[0]:loc[1]]); sentence != "" {
			sentences = append(sentences, sentence)
		}
		end = loc[1]
	}
	if tail := strings.TrimSpace(text[end:]); tail != "" && hasWord(tail) {
		sentences = append(sentences, tail)
	}
	return sentences
}

func hasWord(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r != '.' && r != '!' && r != '?' && r != ' ' && r != '\t' && r != '\n' && r != '\r'
	}) >= 0
}

// RecursiveSegmenter splits text into bounded chunks using a recursive
// character splitter. Useful for text without sentence punctuation.
type RecursiveSegmenter struct {
	splitter textsplitter.RecursiveCharacter
}

// NewRecursiveSegmenter creates a segmenter producing chunks of at most
// chunkSize characters overlapping by overlap characters.
func NewRecursiveSegmenter(chunkSize, overlap int) *RecursiveSegmenter {
	if chunkSize < 1 {
		chunkSize = 400
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &RecursiveSegmenter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
		),
	}
}

// Split returns the trimmed, non-empty chunks. A splitter error yields no
// chunks so callers fall back to line splitting.
func (s *RecursiveSegmenter) Split(text string) []string {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil
	}
	result := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if c = strings.TrimSpace(c); c != "" {
			result = append(result, c)
		}
	}
	return result
}

// SplitPage segments a page with seg, falling back to splitting on newlines
// when the segmenter finds no sentences. Blank lines are dropped.
func SplitPage(seg Segmenter, text string) []string {
	if sentences := seg.Split(text); len(sentences) > 0 {
		return sentences
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
