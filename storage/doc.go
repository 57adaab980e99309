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


// Package storage provides the persistence abstraction for word-vector libraries.
//
// A library maps vocabulary words to fixed-dimension embedding vectors. The
// VectorRepository interface decouples lookup from the backend so the vector
// store can serve words lazily from disk without loading the whole table.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage interface:
//
//	repo, err := badger.NewVectorRepository(backend)  // returns storage.VectorRepository
//
// # Usage
//
// Open a library and look up a word:
//
//	backend, err := badger.OpenBackend("/path/to/library", false, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, _ := badger.NewVectorRepository(backend)
//	vec, err := repo.GetVector(ctx, "contract")
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryVectorRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
