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


package casesearch

import (
	"context"
	"log/slog"

	"github.com/poiesic/casesearch/storage/badger"
	"github.com/poiesic/casesearch/vectors"
)

// ImportLibrary loads an inline vectors table and writes it into a BadgerDB
// library at dir. Returns the number of words written.
func ImportLibrary(ctx context.Context, tablePath, dir string, batchSize int, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	src, err := vectors.LoadInline(tablePath, logger)
	if err != nil {
		return 0, err
	}

	backend, err := badger.OpenBackend(dir, false, logger)
	if err != nil {
		return 0, err
	}
	defer backend.Close()

	repo, err := badger.NewVectorRepository(backend)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	n, err := vectors.ImportLibrary(ctx, repo, src, batchSize)
	if err != nil {
		return n, err
	}
	logger.Info("library imported", "table", tablePath, "library", dir, "words", n)
	return n, nil
}

// BuildShardedLibrary loads an inline vectors table and writes one shard
// file per word under root. Returns the words that could not be written.
func BuildShardedLibrary(tablePath, root string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	src, err := vectors.LoadInline(tablePath, logger)
	if err != nil {
		return nil, err
	}
	failed, err := vectors.BuildLibrary(root, src)
	if err != nil {
		return failed, err
	}
	logger.Info("library built", "table", tablePath, "library", root,
		"words", src.Len()-len(failed), "failed", len(failed))
	return failed, nil
}
