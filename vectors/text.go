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
	"strings"
	"unicode"
)

// Stop words excluded from loaded tables. They carry little meaning and
// dominate sums over ordinary prose.
var stopWords = map[string]bool{
	"the": true, "and": true, "are": true, "was": true, "were": true, "for": true,
	"not": true, "with": true, "you": true, "this": true, "but": true, "from": true,
	"that": true, "have": true, "has": true, "had": true, "his": true, "her": true,
	"she": true, "him": true, "they": true, "them": true, "their": true, "its": true,
	"our": true, "your": true, "who": true, "whom": true, "which": true, "what": true,
	"when": true, "where": true, "why": true, "how": true, "all": true, "any": true,
	"both": true, "each": true, "few": true, "more": true, "most": true, "other": true,
	"some": true, "such": true, "nor": true, "only": true, "own": true, "same": true,
	"than": true, "too": true, "very": true, "can": true, "will": true, "just": true,
	"should": true, "now": true, "been": true, "being": true, "does": true, "did": true,
	"doing": true, "would": true, "could": true, "into": true, "over": true, "under": true,
	"again": true, "then": true, "once": true, "here": true, "there": true, "these": true,
	"those": true, "about": true, "above": true, "below": true, "after": true,
	"before": true, "between": true, "through": true, "during": true, "out": true,
	"off": true, "down": true, "while": true, "because": true, "until": true,
	"against": true, "further": true, "himself": true, "herself": true, "itself": true,
	"myself": true, "yourself": true, "themselves": true, "ourselves": true,
}

// IsStopWord reports whether word is excluded from loaded tables.
func IsStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// Indexable reports whether a table word is kept at load time: not a stop
// word, at least 3 characters, and containing at least one letter.
func Indexable(word string) bool {
	if len([]rune(word)) < 3 || IsStopWord(word) {
		return false
	}
	return strings.IndexFunc(word, unicode.IsLetter) >= 0
}

// Tokenize lowercases text and splits it into words on every character that
// is not a letter or digit. Duplicates are kept.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
