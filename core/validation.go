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
	"fmt"
	"strings"
)

// ValidateExtraction validates an extractor result.
//
// Validation rules:
//   - Extraction must not be nil
//   - At least one page or the full text must contain non-whitespace
//   - Page numbers must be positive
func ValidateExtraction(e *Extraction) error {
	if e == nil {
		return fmt.Errorf("%w: extraction is nil", ErrExtractionFailed)
	}

	hasText := strings.TrimSpace(e.Text) != ""
	for _, p := range e.Pages {
		if p.Number < 1 {
			return fmt.Errorf("%w: %w: %d", ErrExtractionFailed, ErrInvalidPage, p.Number)
		}
		if strings.TrimSpace(p.Text) != "" {
			hasText = true
		}
	}

	if !hasText {
		return fmt.Errorf("%w: %w", ErrExtractionFailed, ErrEmptyText)
	}
	return nil
}

// ValidatePositive reports a configuration error when value is not positive.
func ValidatePositive(name string, value int) error {
	if value < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrConfiguration, name, value)
	}
	return nil
}
