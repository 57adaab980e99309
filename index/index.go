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


// Package index provides nearest-neighbour structures over fixed vector sets
// under cosine similarity.
//
// Every implementation is built once with Fit and queried many times. Query
// returns positions into the fitted slice, most similar first.
package index

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDimensionMismatch indicates vectors or a query of inconsistent length.
	ErrDimensionMismatch = errors.New("index: dimension mismatch")
)

// Index is a k-NN capability under cosine similarity.
type Index interface {
	// Fit replaces the indexed set. Vectors must share one dimension.
	Fit(vectors [][]float64) error

	// Query returns up to k positions of the most similar fitted vectors,
	// ordered by decreasing similarity. Ties keep fitted order.
	Query(query []float64, k int) ([]int, error)

	// Len returns the number of fitted vectors.
	Len() int
}

// Factory creates an empty Index.
type Factory func() Index

// Kind names accepted by NewFactory.
const (
	KindBruteForce = "bruteforce"
	KindVPTree     = "vptree"
)

// NewFactory returns the factory registered under kind.
func NewFactory(kind string) (Factory, error) {
	switch kind {
	case "", KindBruteForce:
		return func() Index { return &BruteForce{} }, nil
	case KindVPTree:
		return func() Index { return &VPTree{} }, nil
	default:
		return nil, fmt.Errorf("unknown index kind %q", kind)
	}
}

func checkDims(vectors [][]float64) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return 0, fmt.Errorf("%w: vector %d has %d components, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return dim, nil
}

type candidate struct {
	idx  int
	dist float64
}

// sortCandidates orders by distance then position.
func sortCandidates(c []candidate) {
	sort.Slice(c, func(a, b int) bool {
		if c[a].dist != c[b].dist {
			return c[a].dist < c[b].dist
		}
		return c[a].idx < c[b].idx
	})
}

func positions(c []candidate) []int {
	out := make([]int, len(c))
	for i := range c {
		out[i] = c[i].idx
	}
	return out
}
