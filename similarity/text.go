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

import (
	"strings"
	"unicode"
)

// TokenSet returns the set of lowercase alphanumeric words in text.
// Every run of characters outside [a-zA-Z0-9] separates words.
func TokenSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isASCIIAlnum(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func isASCIIAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

// ItemDistance scores a pair of items by cosine similarity weighted with
// symmetric lexical overlap: cos(a,b) * |A∩B| / (|A|+|B|).
// Returns 0 if either token set is empty. Negative cosines clamp to 0.
func ItemDistance(vecA, vecB []float64, textA, textB string) float64 {
	setA := TokenSet(textA)
	setB := TokenSet(textB)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	sim := max(Cosine(vecA, vecB), 0)
	overlap := float64(intersectionSize(setA, setB)) / float64(len(setA)+len(setB))
	return overlap * sim
}

// ItemDistance2 favours containment: ((cos^4 + 1) / 2) * |A∩B| / min(|A|,|B|).
// Returns 0 if either token set is empty.
func ItemDistance2(vecA, vecB []float64, textA, textB string) float64 {
	setA := TokenSet(textA)
	setB := TokenSet(textB)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	sim := Cosine(vecA, vecB)
	sim4 := sim * sim * sim * sim
	overlap := float64(intersectionSize(setA, setB)) / float64(min(len(setA), len(setB)))
	return overlap * (sim4 + 1) / 2
}
