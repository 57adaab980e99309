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
	"log/slog"
)

// Source provides word vectors of a fixed dimension.
// Implementations must be safe for concurrent use.
type Source interface {
	// Dimension returns the vector length served by this source.
	Dimension() int

	// Lookup returns the vector for word, or false if the word is unknown
	// or its stored form cannot be parsed.
	Lookup(word string) ([]float64, bool)
}

// Store aggregates text into vectors using a Source.
type Store struct {
	source Source
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a Store backed by source.
func NewStore(source Source, opts ...Option) (*Store, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	s := &Store{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "vectors")
	return s, nil
}

// Dimension returns the vector length produced by GetVector.
func (s *Store) Dimension() int {
	return s.source.Dimension()
}

// Lookup returns the vector of a single word.
func (s *Store) Lookup(word string) ([]float64, bool) {
	return s.source.Lookup(word)
}

// GetVector tokenizes text and sums the vectors of every known token.
// Unknown tokens contribute nothing. The result is not normalized and is the
// zero vector when no token is known.
func (s *Store) GetVector(text string) []float64 {
	vector := make([]float64, s.source.Dimension())
	misses := 0
	for _, word := range Tokenize(text) {
		vec, ok := s.source.Lookup(word)
		if !ok {
			misses++
			continue
		}
		for i := 0; i < len(vector) && i < len(vec); i++ {
			vector[i] += vec[i]
		}
	}
	if misses > 0 {
		s.logger.Debug("tokens without vectors", "misses", misses)
	}
	return vector
}
