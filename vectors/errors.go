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

import "errors"

var (
	// ErrSourceRequired is returned when a Store is built without a Source.
	ErrSourceRequired = errors.New("vector source required")

	// ErrEmptyLibrary is returned when a table or library holds no usable vectors.
	ErrEmptyLibrary = errors.New("vector library is empty")

	// ErrDimensionMismatch is returned when table rows disagree on dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
