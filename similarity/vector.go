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


package similarity

import "math"

// Dot returns the dot product over the shared prefix of a and b.
func Dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// IsZero reports whether v is empty or has zero norm.
func IsZero(v []float64) bool {
	return Norm(v) == 0
}

// Normalize returns a new unit-length copy of v.
// A zero-norm vector is returned as an unmodified copy.
func Normalize(v []float64) []float64 {
	result := make([]float64, len(v))
	copy(result, v)

	magnitude := Norm(v)
	if magnitude == 0 {
		return result
	}
	for i := range result {
		result[i] /= magnitude
	}
	return result
}

// Cosine returns the cosine similarity of a and b, or 0 if either has zero
// norm or their dimensions differ. The result is clamped to [-1, 1].
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	na := Norm(a)
	if na == 0 {
		return 0
	}
	nb := Norm(b)
	if nb == 0 {
		return 0
	}
	return max(-1, min(1, Dot(a, b)/(na*nb)))
}

// Mean returns the elementwise arithmetic mean of vecs.
// Returns nil when vecs is empty.
func Mean(vecs [][]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	result := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for i := 0; i < len(result) && i < len(v); i++ {
			result[i] += v[i]
		}
	}
	n := float64(len(vecs))
	for i := range result {
		result[i] /= n
	}
	return result
}

// Add accumulates src into dst elementwise.
func Add(dst, src []float64) {
	for i := 0; i < len(dst) && i < len(src); i++ {
		dst[i] += src[i]
	}
}
