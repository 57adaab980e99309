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


// Package ingestion turns file paths into corpus Documents concurrently.
//
// The Loader submits one task per file to a bounded worker pool. Each task
// extracts text and builds a Document; results flow back over a channel and
// are collected by the calling goroutine only, so no shared corpus state is
// mutated concurrently.
//
// Failures are isolated per file: an extractor error, an empty result, or a
// panic inside the extractor marks that file failed and records its
// extension, while the rest of the batch proceeds. There are no automatic
// retries.
package ingestion
