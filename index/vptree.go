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
	"math"
	"sort"

	"github.com/poiesic/casesearch/similarity"
)

// VPTree is a vantage-point tree over unit-normalized vectors. Euclidean
// distance between unit vectors is monotone in cosine similarity and obeys
// the triangle inequality, so pruning is exact.
type VPTree struct {
	vecs [][]float64
	dim  int
	root *vpNode
}

var _ Index = (*VPTree)(nil)

type vpNode struct {
	idx   int
	thr   float64
	left  *vpNode
	right *vpNode
}

// Fit normalizes vectors and builds the tree.
func (t *VPTree) Fit(vectors [][]float64) error {
	dim, err := checkDims(vectors)
	if err != nil {
		return err
	}
	t.dim = dim
	t.vecs = make([][]float64, len(vectors))
	for i, v := range vectors {
		t.vecs[i] = similarity.Normalize(v)
	}
	idxs := make([]int, len(vectors))
	for i := range idxs {
		idxs[i] = i
	}
	t.root = t.build(idxs)
	return nil
}

func (t *VPTree) build(idxs []int) *vpNode {
	if len(idxs) == 0 {
		return nil
	}
	// last item is the vantage point; keeps the build deterministic
	vp := idxs[len(idxs)-1]
	rest := idxs[:len(idxs)-1]
	if len(rest) == 0 {
		return &vpNode{idx: vp}
	}

	dists := make(map[int]float64, len(rest))
	for _, j := range rest {
		dists[j] = euclidean(t.vecs[vp], t.vecs[j])
	}
	order := append([]int(nil), rest...)
	sort.SliceStable(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })

	mid := len(order) / 2
	return &vpNode{
		idx:   vp,
		thr:   dists[order[mid]],
		left:  t.build(order[:mid+1]),
		right: t.build(order[mid+1:]),
	}
}

// Query returns the k nearest vectors by cosine similarity.
func (t *VPTree) Query(query []float64, k int) ([]int, error) {
	if k <= 0 || len(t.vecs) == 0 {
		return nil, nil
	}
	if len(query) != t.dim {
		return nil, fmt.Errorf("%w: query has %d components, want %d", ErrDimensionMismatch, len(query), t.dim)
	}

	q := similarity.Normalize(query)
	k = min(k, len(t.vecs))
	best := make([]candidate, 0, k+1)
	tau := math.Inf(1)

	consider := func(idx int, d float64) {
		if len(best) == k && !closer(candidate{idx, d}, best[k-1]) {
			return
		}
		best = append(best, candidate{idx: idx, dist: d})
		sortCandidates(best)
		if len(best) > k {
			best = best[:k]
		}
		if len(best) == k {
			tau = best[k-1].dist
		}
	}

	var search func(n *vpNode)
	search = func(n *vpNode) {
		if n == nil {
			return
		}
		d := euclidean(q, t.vecs[n.idx])
		consider(n.idx, d)
		if d < n.thr {
			if d-tau <= n.thr {
				search(n.left)
			}
			if d+tau >= n.thr {
				search(n.right)
			}
		} else {
			if d+tau >= n.thr {
				search(n.right)
			}
			if d-tau <= n.thr {
				search(n.left)
			}
		}
	}
	search(t.root)
	return positions(best), nil
}

func closer(a, b candidate) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.idx < b.idx
}

// Len returns the number of fitted vectors.
func (t *VPTree) Len() int {
	return len(t.vecs)
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
