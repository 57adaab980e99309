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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/casesearch/core"
	"github.com/poiesic/casesearch/storage"
)

// RepositorySource serves words lazily from a storage.VectorRepository.
type RepositorySource struct {
	repo   storage.VectorRepository
	dim    int
	cache  *lazyCache
	logger *slog.Logger
}

var _ Source = (*RepositorySource)(nil)

// NewRepositorySource wraps repo. The library must already hold vectors.
func NewRepositorySource(ctx context.Context, repo storage.VectorRepository, logger *slog.Logger) (*RepositorySource, error) {
	if repo == nil {
		return nil, ErrSourceRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	dim, err := repo.Dimension(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, ErrEmptyLibrary)
		}
		return nil, err
	}

	s := &RepositorySource{
		repo:   repo,
		dim:    dim,
		logger: logger,
	}
	s.cache = newLazyCache(s.loadWord)
	return s, nil
}

func (s *RepositorySource) loadWord(word string) ([]float64, bool) {
	vec, err := s.repo.GetVector(context.Background(), word)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("unreadable library entry", "word", word, "err", err)
		}
		return nil, false
	}
	return vec, len(vec) == s.dim
}

// Dimension returns the library dimension.
func (s *RepositorySource) Dimension() int {
	return s.dim
}

// Lookup returns the vector for word, reading it on first use.
func (s *RepositorySource) Lookup(word string) ([]float64, bool) {
	return s.cache.lookup(word)
}

// ImportLibrary copies every word of src into repo in batches of batchSize.
// Returns the number of words written.
func ImportLibrary(ctx context.Context, repo storage.VectorRepository, src *InlineSource, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 1000
	}

	written := 0
	batch := make(map[string][]float64, batchSize)
	flush := func() error {
		if err := repo.PutVectors(ctx, batch); err != nil {
			return err
		}
		written += len(batch)
		clear(batch)
		return nil
	}

	for _, word := range src.Words() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		vec, _ := src.Lookup(word)
		batch[word] = vec
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return written, err
		}
	}
	return written, nil
}
