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


// Package corpus holds ingested documents and answers free-text queries.
//
// A Document is an ordered list of Sentences, each carrying a unit vector
// derived from a word-embedding table, plus an aggregate document vector.
// A Case owns every Document of one corpus build, fits a nearest-neighbour
// index per granularity once, and ranks candidates for a query by combined
// semantic and lexical overlap.
//
// Documents and Sentences are immutable once a Case is built. A Case is
// rebuilt wholesale rather than updated; callers must not search a Case
// while another goroutine is building its replacement from the same inputs.
package corpus
