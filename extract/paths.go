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


package extract

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// ExpandPaths flattens paths into a file list. Directories are walked
// recursively and only files with a known extension are kept. Files named
// directly are kept as given so unsupported formats surface as extraction
// failures. Unreadable directories are logged and skipped.
func ExpandPaths(paths []string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping unreadable path", "path", p, "err", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && slices.Contains(KnownExtensions, Ext(p)) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			logger.Warn("directory walk failed", "path", path, "err", err)
		}
	}
	return files
}
