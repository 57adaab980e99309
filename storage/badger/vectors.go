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


package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/casesearch/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (storage.VectorRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &VectorRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VectorRepository has no resources to release;
// the backend is owned by the caller.
func (r *VectorRepository) Close() error {
	return nil
}

// PutVectors stores word vectors in a single write batch.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors map[string][]float64) error {
	if len(vectors) == 0 {
		return nil
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	dim, err := r.Dimension(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	for word, vec := range vectors {
		if word == "" {
			return storage.ErrInvalidWord
		}
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return fmt.Errorf("%w: %q has %d components, library has %d",
				storage.ErrDimensionMismatch, word, len(vec), dim)
		}
	}

	return r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		if err := wb.Set([]byte(libraryMetaKey), storage.MarshalInt(dim)); err != nil {
			return err
		}
		for word, vec := range vectors {
			if err := wb.Set(makeWordKey(word), storage.MarshalVector(vec)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetVector retrieves a single word vector.
func (r *VectorRepository) GetVector(ctx context.Context, word string) ([]float64, error) {
	if word == "" {
		return nil, storage.ErrInvalidWord
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result []float64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeWordKey(word))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalVector(val)
			return err
		})
	}, false)
	return result, err
}

// Dimension returns the library dimension recorded by the first write.
func (r *VectorRepository) Dimension(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	var dim int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(libraryMetaKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			dim, err = storage.UnmarshalInt(val)
			return err
		})
	}, false)
	return dim, err
}

// Count returns the number of stored words.
func (r *VectorRepository) Count(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	return r.backend.CountPrefix([]byte(wordVectorPrefix))
}
