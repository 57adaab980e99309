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


// Package config holds the YAML configuration for building and searching a case.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/casesearch/core"
	"gopkg.in/yaml.v3"
)

// Vector source modes.
const (
	VectorsInline  = "inline"
	VectorsSharded = "sharded"
	VectorsBadger  = "badger"
)

// Index modes and k-NN kinds.
const (
	IndexNearest    = "nearest"
	IndexBins       = "bins"
	KNNBruteForce   = "bruteforce"
	KNNVPTree       = "vptree"
	SegmentSentence = "sentence"
	SegmentRecurse  = "recursive"
)

// VectorsConfig selects the word-vector source.
type VectorsConfig struct {
	// Mode is one of inline, sharded or badger. Inferred when empty.
	Mode string `yaml:"mode"`
	// File is an inline table of rows "word v1 ... vn".
	File string `yaml:"file,omitempty"`
	// Library is a sharded directory or a BadgerDB directory.
	Library string `yaml:"library,omitempty"`
}

// IndexConfig configures retrieval.
type IndexConfig struct {
	Mode           string `yaml:"mode"`
	KNN            string `yaml:"knn"`
	MinResults     int    `yaml:"min_results"`
	AverageBinSize int    `yaml:"average_bin_size"`
}

// SegmenterConfig configures sentence splitting.
type SegmenterConfig struct {
	Kind         string `yaml:"kind"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// IngestionConfig configures document loading.
type IngestionConfig struct {
	Workers      int `yaml:"workers"`
	DisplayLimit int `yaml:"display_limit"`
	CharsPerPage int `yaml:"chars_per_page"`
}

// Config is the root configuration.
type Config struct {
	Vectors   VectorsConfig   `yaml:"vectors"`
	Index     IndexConfig     `yaml:"index"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Ingestion IngestionConfig `yaml:"ingestion"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithVectorsFile selects an inline vectors table.
func WithVectorsFile(path string) Option {
	return func(c *Config) {
		c.Vectors.Mode = VectorsInline
		c.Vectors.File = path
		c.Vectors.Library = ""
	}
}

// WithLibrary selects a sharded or badger library.
func WithLibrary(mode, path string) Option {
	return func(c *Config) {
		c.Vectors.Mode = mode
		c.Vectors.Library = path
		c.Vectors.File = ""
	}
}

// WithWorkers sets the ingestion worker count.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Ingestion.Workers = n
	}
}

// WithMinResults sets the candidate count per granularity.
func WithMinResults(n int) Option {
	return func(c *Config) {
		c.Index.MinResults = n
	}
}

// WithIndex sets the index mode and k-NN kind.
func WithIndex(mode, knn string) Option {
	return func(c *Config) {
		c.Index.Mode = mode
		c.Index.KNN = knn
	}
}

// Default returns a Config with default values and no vector source.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// New creates a Config with the default values and applies the provided options.
func New(opts ...Option) *Config {
	cfg := Default()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func applyDefaults(c *Config) {
	if c.Index.Mode == "" {
		c.Index.Mode = IndexNearest
	}
	if c.Index.KNN == "" {
		c.Index.KNN = KNNBruteForce
	}
	if c.Index.MinResults == 0 {
		c.Index.MinResults = 10
	}
	if c.Index.AverageBinSize == 0 {
		c.Index.AverageBinSize = 25
	}
	if c.Segmenter.Kind == "" {
		c.Segmenter.Kind = SegmentSentence
	}
	if c.Segmenter.ChunkSize == 0 {
		c.Segmenter.ChunkSize = 400
	}
	if c.Ingestion.Workers == 0 {
		c.Ingestion.Workers = 8
	}
	if c.Ingestion.DisplayLimit == 0 {
		c.Ingestion.DisplayLimit = 200
	}
	if c.Ingestion.CharsPerPage == 0 {
		c.Ingestion.CharsPerPage = 3000
	}
}

// Load reads a config from path. If the file does not exist, returns defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrConfiguration, path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Normalize lowercases names and infers the vectors mode when exactly one
// of file or library is set.
func (c *Config) Normalize() {
	c.Vectors.Mode = strings.ToLower(strings.TrimSpace(c.Vectors.Mode))
	c.Index.Mode = strings.ToLower(strings.TrimSpace(c.Index.Mode))
	c.Index.KNN = strings.ToLower(strings.TrimSpace(c.Index.KNN))
	c.Segmenter.Kind = strings.ToLower(strings.TrimSpace(c.Segmenter.Kind))

	if c.Vectors.Mode == "" {
		switch {
		case c.Vectors.File != "" && c.Vectors.Library == "":
			c.Vectors.Mode = VectorsInline
		case c.Vectors.Library != "" && c.Vectors.File == "":
			c.Vectors.Mode = VectorsSharded
		}
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first. Every error wraps core.ErrConfiguration.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Vectors.Mode {
	case "":
		if c.Vectors.File != "" && c.Vectors.Library != "" {
			return fmt.Errorf("%w: vectors.file and vectors.library are both set; choose one with vectors.mode", core.ErrConfiguration)
		}
		return fmt.Errorf("%w: vectors.file or vectors.library is required", core.ErrConfiguration)
	case VectorsInline:
		if c.Vectors.File == "" {
			return fmt.Errorf("%w: vectors.file is required for inline mode", core.ErrConfiguration)
		}
	case VectorsSharded, VectorsBadger:
		if c.Vectors.Library == "" {
			return fmt.Errorf("%w: vectors.library is required for %s mode", core.ErrConfiguration, c.Vectors.Mode)
		}
	default:
		return fmt.Errorf("%w: unknown vectors.mode %q", core.ErrConfiguration, c.Vectors.Mode)
	}

	if c.Index.Mode != IndexNearest && c.Index.Mode != IndexBins {
		return fmt.Errorf("%w: unknown index.mode %q", core.ErrConfiguration, c.Index.Mode)
	}
	if c.Index.KNN != KNNBruteForce && c.Index.KNN != KNNVPTree {
		return fmt.Errorf("%w: unknown index.knn %q", core.ErrConfiguration, c.Index.KNN)
	}
	if c.Segmenter.Kind != SegmentSentence && c.Segmenter.Kind != SegmentRecurse {
		return fmt.Errorf("%w: unknown segmenter.kind %q", core.ErrConfiguration, c.Segmenter.Kind)
	}
	if c.Segmenter.ChunkOverlap < 0 || c.Segmenter.ChunkOverlap >= c.Segmenter.ChunkSize {
		return fmt.Errorf("%w: segmenter.chunk_overlap must be in [0, chunk_size)", core.ErrConfiguration)
	}

	checks := []struct {
		name  string
		value int
	}{
		{"index.min_results", c.Index.MinResults},
		{"index.average_bin_size", c.Index.AverageBinSize},
		{"segmenter.chunk_size", c.Segmenter.ChunkSize},
		{"ingestion.workers", c.Ingestion.Workers},
		{"ingestion.display_limit", c.Ingestion.DisplayLimit},
		{"ingestion.chars_per_page", c.Ingestion.CharsPerPage},
	}
	for _, check := range checks {
		if err := core.ValidatePositive(check.name, check.value); err != nil {
			return err
		}
	}
	return nil
}
