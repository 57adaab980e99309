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


package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a stable identifier for corpus entities.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Granularity identifies the retrieval level of a search candidate.
type Granularity int

const (
	// GranularitySentence ranks individual sentences.
	GranularitySentence Granularity = iota + 1
	// GranularityDocument ranks whole documents.
	GranularityDocument
)

// String returns the lowercase name of the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularitySentence:
		return "sentence"
	case GranularityDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Page is a single page of extracted text. Numbers start at 1.
type Page struct {
	Number int
	Text   string
}

// Extraction is the output of a text extractor.
type Extraction struct {
	Text      string // Full text, pages joined by newlines
	Pages     []Page // Paginated text; empty when page numbers were not requested
	Estimated bool   // True when page boundaries were estimated rather than read from the file
}

// PageTexts returns the pages to segment. When no pages were produced the
// full text is treated as page 1.
func (e *Extraction) PageTexts() []Page {
	if len(e.Pages) > 0 {
		return e.Pages
	}
	return []Page{{Number: 1, Text: e.Text}}
}
