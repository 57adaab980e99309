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

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/casesearch/core"
)

// ShardedSource serves words from an on-disk library laid out as
// root/<first letter>/<word>, each file holding comma-separated floats.
// Words are read on first use and cached for the life of the source.
type ShardedSource struct {
	root   string
	dim    int
	cache  *lazyCache
	logger *slog.Logger
}

var _ Source = (*ShardedSource)(nil)

// OpenSharded opens a sharded library and infers its dimension from the
// first shard found.
func OpenSharded(root string, logger *slog.Logger) (*ShardedSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sample, err := firstShard(root)
	if err != nil {
		return nil, err
	}
	vec, err := readShard(sample)
	if err != nil {
		return nil, fmt.Errorf("%w: sample shard %s: %w", core.ErrConfiguration, sample, err)
	}

	s := &ShardedSource{
		root:   root,
		dim:    len(vec),
		logger: logger.With("library", root),
	}
	s.cache = newLazyCache(s.loadWord)
	s.logger.Debug("opened sharded library", "dimension", s.dim, "sample", sample)
	return s, nil
}

// firstShard returns the first word file in lexical order.
func firstShard(root string) (string, error) {
	letters, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("%w: library: %w", core.ErrConfiguration, err)
	}
	for _, letter := range letters {
		if !letter.IsDir() {
			continue
		}
		dir := filepath.Join(root, letter.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.Type().IsRegular() {
				return filepath.Join(dir, f.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %w: %s", core.ErrConfiguration, ErrEmptyLibrary, root)
}

func readShard(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields := strings.Split(strings.TrimSpace(string(data)), ",")
	if len(fields) == 0 || fields[0] == "" {
		return nil, ErrEmptyLibrary
	}
	return parseFloats(fields)
}

// shardPath returns the file holding word, or false if word cannot name a shard.
func shardPath(root, word string) (string, bool) {
	if word == "" || strings.ContainsAny(word, `/\`) || word == "." || word == ".." {
		return "", false
	}
	first, _ := utf8.DecodeRuneInString(word)
	return filepath.Join(root, string(first), word), true
}

func (s *ShardedSource) loadWord(word string) ([]float64, bool) {
	path, ok := shardPath(s.root, word)
	if !ok {
		return nil, false
	}
	vec, err := readShard(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("unreadable shard", "word", word, "err", err)
		}
		return nil, false
	}
	if len(vec) != s.dim {
		s.logger.Debug("shard dimension mismatch", "word", word, "got", len(vec), "want", s.dim)
		return nil, false
	}
	return vec, true
}

// Dimension returns the library dimension.
func (s *ShardedSource) Dimension() int {
	return s.dim
}

// Lookup returns the vector for word, reading its shard on first use.
func (s *ShardedSource) Lookup(word string) ([]float64, bool) {
	return s.cache.lookup(word)
}

// Cached returns the number of words loaded so far.
func (s *ShardedSource) Cached() int {
	return s.cache.len()
}

// BuildLibrary writes every word of src as a shard under root. Words that
// cannot name a file are skipped. The returned list holds skipped words and
// words whose shard could not be written.
func BuildLibrary(root string, src *InlineSource) ([]string, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}

	var failed []string
	for _, word := range src.Words() {
		path, ok := shardPath(root, word)
		if !ok {
			failed = append(failed, word)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			failed = append(failed, word)
			continue
		}
		vec, _ := src.Lookup(word)
		if err := os.WriteFile(path, []byte(formatShard(vec)), 0644); err != nil {
			failed = append(failed, word)
		}
	}
	slices.Sort(failed)
	return failed, nil
}

func formatShard(vec []float64) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
