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

const maxKMeansIterations = 50

// Bins partitions vectors into k-means clusters of roughly binSize members.
// A query visits clusters nearest-centroid first, gathering members until
// more than k have been collected, then returns the k most similar of those.
type Bins struct {
	binSize   int
	vecs      [][]float64
	centroids [][]float64
	members   [][]int
	dim       int
}

var _ Index = (*Bins)(nil)

// NewBins creates a clustering index targeting binSize members per cluster.
func NewBins(binSize int) *Bins {
	if binSize < 1 {
		binSize = 1
	}
	return &Bins{binSize: binSize}
}

// Fit clusters vectors into len/binSize + 1 clusters with Lloyd's algorithm.
// Centroids start at evenly spaced members so fitting is deterministic.
func (b *Bins) Fit(vectors [][]float64) error {
	dim, err := checkDims(vectors)
	if err != nil {
		return err
	}
	b.dim = dim
	b.vecs = make([][]float64, len(vectors))
	for i, v := range vectors {
		b.vecs[i] = similarity.Normalize(v)
	}
	b.centroids, b.members = nil, nil
	n := len(b.vecs)
	if n == 0 {
		return nil
	}

	k := min(n/b.binSize+1, n)
	centroids := make([][]float64, k)
	for c := range centroids {
		centroids[c] = append([]float64(nil), b.vecs[c*n/k]...)
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, v := range b.vecs {
			c := nearest(centroids, v)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i, v := range b.vecs {
			c := assign[i]
			if sums[c] == nil {
				sums[c] = make([]float64, dim)
			}
			similarity.Add(sums[c], v)
			counts[c]++
		}
		for c := range centroids {
			// empty clusters keep their previous centroid
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			centroids[c] = sums[c]
		}
	}

	b.centroids = centroids
	b.members = make([][]int, k)
	for i, c := range assign {
		b.members[c] = append(b.members[c], i)
	}
	return nil
}

func nearest(centroids [][]float64, v []float64) int {
	best, bestDist := 0, -1.0
	for c, centroid := range centroids {
		d := euclidean(centroid, v)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Query ranks clusters by centroid distance and collects their members.
func (b *Bins) Query(query []float64, k int) ([]int, error) {
	if k <= 0 || len(b.vecs) == 0 {
		return nil, nil
	}
	if len(query) != b.dim {
		return nil, fmt.Errorf("%w: query has %d components, want %d", ErrDimensionMismatch, len(query), b.dim)
	}

	q := similarity.Normalize(query)
	order := make([]candidate, len(b.centroids))
	for c, centroid := range b.centroids {
		order[c] = candidate{idx: c, dist: euclidean(q, centroid)}
	}
	sortCandidates(order)

	var gathered []candidate
	for _, c := range order {
		if len(gathered) > k {
			break
		}
		for _, i := range b.members[c.idx] {
			gathered = append(gathered, candidate{idx: i, dist: 1 - similarity.Cosine(q, b.vecs[i])})
		}
	}
	sortCandidates(gathered)
	return positions(gathered[:min(k, len(gathered))]), nil
}

// Len returns the number of fitted vectors.
func (b *Bins) Len() int {
	return len(b.vecs)
}

// Clusters returns the number of clusters built by Fit.
func (b *Bins) Clusters() int {
	return len(b.centroids)
}
