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


package vectors

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/casesearch/core"
)

const maxLineSize = 1 << 20

// InlineSource holds a complete word-vector table in memory.
type InlineSource struct {
	table map[string][]float64
	dim   int
}

var _ Source = (*InlineSource)(nil)

// NewInlineSource wraps an existing table. All vectors must share one dimension.
func NewInlineSource(table map[string][]float64) (*InlineSource, error) {
	dim := -1
	for word, vec := range table {
		if dim == -1 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: %q has %d components, want %d", ErrDimensionMismatch, word, len(vec), dim)
		}
	}
	if dim <= 0 {
		return nil, ErrEmptyLibrary
	}
	return &InlineSource{table: table, dim: dim}, nil
}

// LoadInline reads a table file of rows "word v1 ... vn".
func LoadInline(path string, logger *slog.Logger) (*InlineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: vectors file: %w", core.ErrConfiguration, err)
	}
	defer f.Close()
	return ParseInline(f, logger)
}

// ParseInline parses whitespace-separated rows "word v1 ... vn".
// The first row fixes the dimension at row length - 1. Stop words, words
// shorter than 3 characters, words without letters, and rows that fail to
// parse or disagree on dimension are skipped.
func ParseInline(r io.Reader, logger *slog.Logger) (*InlineSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	table := make(map[string][]float64)
	dim := 0
	skipped := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if dim == 0 {
			dim = len(fields) - 1
		}

		word := fields[0]
		if len(fields)-1 != dim || !Indexable(word) {
			skipped++
			continue
		}
		vec, err := parseFloats(fields[1:])
		if err != nil {
			skipped++
			continue
		}
		table[word] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vectors: %w", err)
	}
	if len(table) == 0 {
		return nil, ErrEmptyLibrary
	}

	logger.Debug("loaded inline vectors", "words", len(table), "skipped", skipped, "dimension", dim)
	return &InlineSource{table: table, dim: dim}, nil
}

func parseFloats(fields []string) ([]float64, error) {
	vec := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}

// Dimension returns the table dimension.
func (s *InlineSource) Dimension() int {
	return s.dim
}

// Lookup returns the vector for word.
func (s *InlineSource) Lookup(word string) ([]float64, bool) {
	vec, ok := s.table[word]
	return vec, ok
}

// Len returns the number of words in the table.
func (s *InlineSource) Len() int {
	return len(s.table)
}

// Words returns the table vocabulary in sorted order.
func (s *InlineSource) Words() []string {
	words := make([]string, 0, len(s.table))
	for w := range s.table {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
