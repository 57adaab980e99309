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

import "errors"

// Error taxonomy shared across packages.
var (
	// ErrExtractionFailed indicates a file could not be turned into text.
	// Extraction failures are isolated per file and never abort a batch.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrConfiguration indicates contradictory or missing settings detected at construction.
	ErrConfiguration = errors.New("configuration error")

	// ErrDegenerateVector indicates a zero or empty vector that cannot be indexed.
	ErrDegenerateVector = errors.New("degenerate vector")

	// ErrNotFound indicates the requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyText indicates an extraction produced no usable text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidPage indicates a page carries a non-positive number.
	ErrInvalidPage = errors.New("invalid page number")
)
