// Copyright 2025 walteh LLC
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

// Package walk lists the files of a build output tree and decides which of
// them are eligible for scrubbing.
package walk

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// DefaultExtensions are the script, markup and table files scrubbed by default.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".html", ".csv"}

// sourceMapExt is excluded no matter what the filter says.
const sourceMapExt = ".map"

// FileTask is one discovered file.
type FileTask struct {
	// Path is the full path of the file
	Path string
	// Rel is the slash separated path relative to the walked root
	Rel string
	// Eligible reports whether the file passed the filter
	Eligible bool
}

// Filter decides file eligibility from the extension and optional exclude globs.
type Filter struct {
	// Extensions is the allow-list, compared case-insensitively. Entries include the dot.
	Extensions []string
	// Exclude holds doublestar patterns matched against the relative path
	Exclude []string
}

// DefaultFilter returns the built-in allow-list with no extra excludes.
func DefaultFilter() Filter {
	return Filter{Extensions: append([]string(nil), DefaultExtensions...)}
}

// Eligible reports whether rel should be scrubbed.
func (f Filter) Eligible(rel string) bool {
	ext := strings.ToLower(filepath.Ext(rel))
	if ext == sourceMapExt {
		return false
	}

	allowed := false
	for _, e := range f.Extensions {
		if strings.ToLower(e) == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}

	for _, pattern := range f.Exclude {
		// patterns are validated when the config is loaded
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}

	return true
}

// Files returns every regular file below root, depth first in directory
// listing order. Symlinks and special files are skipped. root must be an
// existing directory.
func Files(root string) ([]string, error) {
	var files []string
	if err := walkDir(root, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func walkDir(dir string, files *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if err := walkDir(full, files); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			*files = append(*files, full)
		}
	}

	return nil
}

// Tasks walks root and classifies every file with f.
func Tasks(root string, f Filter) ([]FileTask, error) {
	files, err := Files(root)
	if err != nil {
		return nil, err
	}

	tasks := make([]FileTask, 0, len(files))
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, errors.Errorf("relative path of %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		tasks = append(tasks, FileTask{
			Path:     path,
			Rel:      rel,
			Eligible: f.Eligible(rel),
		})
	}

	return tasks, nil
}

// Eligible walks root and returns only the files that pass f.
func Eligible(root string, f Filter) ([]FileTask, error) {
	tasks, err := Tasks(root, f)
	if err != nil {
		return nil, err
	}

	eligible := tasks[:0]
	for _, task := range tasks {
		if task.Eligible {
			eligible = append(eligible, task)
		}
	}

	return eligible, nil
}
