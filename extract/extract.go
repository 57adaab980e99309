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


// Package extract turns files into text for ingestion.
//
// Format-specific readers (PDF, word processor) are supplied by callers via
// Registry.Register. Plain text is handled natively with estimated pages.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/poiesic/casesearch/core"
)

var (
	// ErrUnsupportedFormat indicates no extractor is registered for a file extension.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// DefaultCharsPerPage is the page size used when estimating page numbers.
const DefaultCharsPerPage = 3000

// KnownExtensions lists the extensions picked up when expanding directories.
var KnownExtensions = []string{"txt", "pdf", "doc", "docx"}

// TextExtractor reads a file into text. When keepPageNumbers is set the
// result carries pages and reports whether their boundaries were estimated.
type TextExtractor interface {
	Extract(path string, keepPageNumbers bool) (*core.Extraction, error)
}

// ExtractorFunc adapts a function to TextExtractor.
type ExtractorFunc func(path string, keepPageNumbers bool) (*core.Extraction, error)

// Extract calls f.
func (f ExtractorFunc) Extract(path string, keepPageNumbers bool) (*core.Extraction, error) {
	return f(path, keepPageNumbers)
}

// Ext returns the lowercase extension of path without the dot, or "" if the
// base name has none.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Name returns the base name of path without its extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Registry dispatches extraction by file extension.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]TextExtractor
}

var _ TextExtractor = (*Registry)(nil)

// NewRegistry creates a registry with the plain text extractor registered
// for "txt" using charsPerPage for page estimation.
func NewRegistry(charsPerPage int) *Registry {
	r := &Registry{handlers: make(map[string]TextExtractor)}
	r.Register("txt", &PlainText{CharsPerPage: charsPerPage})
	return r
}

// Register installs ex for ext, replacing any previous handler.
func (r *Registry) Register(ext string, ex TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[strings.ToLower(strings.TrimPrefix(ext, "."))] = ex
}

// Supports reports whether a handler is registered for ext.
func (r *Registry) Supports(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[strings.ToLower(ext)]
	return ok
}

// Extract reads path with the handler registered for its extension.
// The result is validated; every failure wraps core.ErrExtractionFailed.
func (r *Registry) Extract(path string, keepPageNumbers bool) (*core.Extraction, error) {
	ext := Ext(path)
	r.mu.RLock()
	handler, ok := r.handlers[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", core.ErrExtractionFailed, ErrUnsupportedFormat, ext)
	}

	extraction, err := handler.Extract(path, keepPageNumbers)
	if err != nil {
		if errors.Is(err, core.ErrExtractionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrExtractionFailed, err)
	}
	if err := core.ValidateExtraction(extraction); err != nil {
		return nil, err
	}
	return extraction, nil
}

// PlainText extracts UTF-8 text files.
type PlainText struct {
	CharsPerPage int
}

// Extract reads the file. Pages, when requested, are estimated.
func (p *PlainText) Extract(path string, keepPageNumbers bool) (*core.Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrExtractionFailed, err)
	}

	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrExtractionFailed, core.ErrEmptyText)
	}

	extraction := &core.Extraction{Text: text}
	if keepPageNumbers {
		extraction.Pages = EstimatePages(text, p.CharsPerPage)
		extraction.Estimated = true
	}
	return extraction, nil
}

// EstimatePages cuts text into fixed windows of charsPerPage runes. Blank
// windows are dropped but still advance the page number.
func EstimatePages(text string, charsPerPage int) []core.Page {
	if charsPerPage < 1 {
		charsPerPage = DefaultCharsPerPage
	}

	runes := []rune(text)
	var pages []core.Page
	for start, number := 0, 1; start < len(runes); start, number = start+charsPerPage, number+1 {
		end := min(start+charsPerPage, len(runes))
		if page := strings.TrimSpace(string(runes[start:end])); page != "" {
			pages = append(pages, core.Page{Number: number, Text: page})
		}
	}
	return pages
}
