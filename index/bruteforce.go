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


package index

import (
	"fmt"

	"github.com/poiesic/casesearch/similarity"
)

// BruteForce scores every fitted vector against the query.
type BruteForce struct {
	vecs [][]float64
	mags []float64
	dim  int
}

var _ Index = (*BruteForce)(nil)

// Fit caches vectors and their magnitudes.
func (b *BruteForce) Fit(vectors [][]float64) error {
	dim, err := checkDims(vectors)
	if err != nil {
		return err
	}
	b.dim = dim
	b.vecs = append([][]float64(nil), vectors...)
	b.mags = make([]float64, len(vectors))
	for i, v := range vectors {
		b.mags[i] = similarity.Norm(v)
	}
	return nil
}

// Query ranks all vectors by cosine similarity. A zero query scores every
// vector 0, so the first k fitted positions are returned.
func (b *BruteForce) Query(query []float64, k int) ([]int, error) {
	if k <= 0 || len(b.vecs) == 0 {
		return nil, nil
	}
	if len(query) != b.dim {
		return nil, fmt.Errorf("%w: query has %d components, want %d", ErrDimensionMismatch, len(query), b.dim)
	}

	qm := similarity.Norm(query)
	cands := make([]candidate, len(b.vecs))
	for i, v := range b.vecs {
		sim := 0.0
		if qm != 0 && b.mags[i] != 0 {
			sim = similarity.Dot(query, v) / (qm * b.mags[i])
		}
		cands[i] = candidate{idx: i, dist: 1 - sim}
	}
	sortCandidates(cands)
	return positions(cands[:min(k, len(cands))]), nil
}

// Len returns the number of fitted vectors.
func (b *BruteForce) Len() int {
	return len(b.vecs)
}
