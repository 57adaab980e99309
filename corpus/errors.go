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


package corpus

import "errors"

var (
	// ErrVectorizerRequired is returned when no Vectorizer is provided.
	ErrVectorizerRequired = errors.New("vectorizer required")

	// ErrSegmenterRequired is returned when no Segmenter is provided.
	ErrSegmenterRequired = errors.New("segmenter required")

	// ErrExtractionRequired is returned when a Document is built without text.
	ErrExtractionRequired = errors.New("extraction required")

	// ErrDimensionMismatch is returned when a Document's vectors disagree with the Case dimension.
	ErrDimensionMismatch = errors.New("document dimension mismatch")
)
