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


package storage

import "context"

// VectorRepository stores and retrieves word vectors.
// Implementations must be thread-safe and support concurrent access.
type VectorRepository interface {
	// PutVectors stores word vectors, replacing existing entries.
	// All vectors must share the library dimension; the first write fixes it.
	// Returns ErrDimensionMismatch if any vector disagrees.
	PutVectors(ctx context.Context, vectors map[string][]float64) error

	// GetVector retrieves the vector for a word.
	// Returns ErrNotFound if the word is not in the library.
	GetVector(ctx context.Context, word string) ([]float64, error)

	// Dimension returns the library dimension.
	// Returns ErrNotFound if no vector has been stored yet.
	Dimension(ctx context.Context) (int, error)

	// Count returns the number of stored words.
	Count(ctx context.Context) (int, error)

	// Close releases repository resources.
	Close() error
}
