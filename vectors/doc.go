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


// Package vectors turns text into vectors using a pretrained word-embedding table.
//
// A Store aggregates text by summing the vectors of its known words. The
// words come from a Source, selected at construction:
//   - InlineSource loads a whole table from one "word v1 ... vn" file
//   - ShardedSource reads a library of one file per word, grouped into
//     directories by first letter, loading words on first use
//   - RepositorySource reads words lazily from a storage.VectorRepository
//
// Lazy sources keep an instance-scoped cache. Concurrent lookups of the same
// missing word share a single read.
package vectors
