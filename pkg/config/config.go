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

// Package config holds the settings of a scrub run. Values come from command
// line flags, the release environment signal and an optional config file at
// the project root, in that order of precedence.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/namescrub/pkg/walk"
)

const (
	// DefaultTable is the name table looked up at the project root
	DefaultTable = "names.csv"

	// EnvNodeEnv is the build environment variable; "production" means release
	EnvNodeEnv = "NODE_ENV"
	// EnvRelease forces release mode when it parses as true
	EnvRelease = "NAMESCRUB_RELEASE"
)

// DefaultConfigFiles are tried in order at the project root when no config file is given.
var DefaultConfigFiles = []string{".namescrub.yaml", ".namescrub.yml", ".namescrub.hcl"}

// Config is the resolved configuration of a run.
type Config struct {
	Root       string   // project root
	Dist       string   // build output to scrub; empty means <root>/packages/ui/dist
	Table      string   // name table, relative to Root unless absolute
	ConfigFile string   // optional config file; empty means look for DefaultConfigFiles
	Release    bool     // release mode, from --release or the environment
	DryRun     bool     // compute but do not write
	ShowDiff   bool     // print a diff for every touched file
	Extensions []string // eligible extensions; empty means walk.DefaultExtensions
	Exclude    []string // doublestar patterns relative to the dist directory
}

// ReleaseFromEnv reports whether the environment signals a production build.
func ReleaseFromEnv(lookup func(string) (string, bool)) bool {
	if v, ok := lookup(EnvNodeEnv); ok && strings.EqualFold(strings.TrimSpace(v), "production") {
		return true
	}
	if v, ok := lookup(EnvRelease); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil && b {
			return true
		}
	}
	return false
}

// DistDir returns the directory to scrub.
func (c *Config) DistDir() string {
	if c.Dist != "" {
		return c.Dist
	}
	return filepath.Join(c.Root, "packages", "ui", "dist")
}

// TablePath returns the location of the name table.
func (c *Config) TablePath() string {
	table := c.Table
	if table == "" {
		table = DefaultTable
	}
	if filepath.IsAbs(table) {
		return table
	}
	return filepath.Join(c.Root, table)
}

// Filter returns the eligibility filter for the dist tree.
func (c *Config) Filter() walk.Filter {
	if len(c.Extensions) == 0 {
		f := walk.DefaultFilter()
		f.Exclude = c.Exclude
		return f
	}
	return walk.Filter{Extensions: c.Extensions, Exclude: c.Exclude}
}

// Resolve loads the config file, if any, underneath the values already set
// and validates the result.
func (c *Config) Resolve(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	path, err := c.configFile()
	if err != nil {
		return err
	}

	if path != "" {
		logger.Debug().Str("path", path).Msg("loading config file")
		file, err := LoadFile(ctx, path, c.Root)
		if err != nil {
			return errors.Errorf("loading config file: %w", err)
		}
		c.apply(file)
	}

	if err := c.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Str("root", c.Root).
		Str("dist", c.DistDir()).
		Str("table", c.TablePath()).
		Strs("extensions", c.Filter().Extensions).
		Strs("exclude", c.Exclude).
		Bool("dry_run", c.DryRun).
		Msg("resolved configuration")

	return nil
}

func (c *Config) configFile() (string, error) {
	if c.ConfigFile != "" {
		return c.ConfigFile, nil
	}
	for _, name := range DefaultConfigFiles {
		path := filepath.Join(c.Root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", errors.Errorf("checking config file %s: %w", path, err)
		}
	}
	return "", nil
}

// apply fills the fields that are still unset from f
func (c *Config) apply(f *File) {
	if c.Table == "" {
		c.Table = f.Table
	}
	if c.Dist == "" && f.Dist != "" {
		c.Dist = f.Dist
		if !filepath.IsAbs(c.Dist) {
			c.Dist = filepath.Join(c.Root, c.Dist)
		}
	}
	if len(c.Extensions) == 0 {
		c.Extensions = f.Extensions
	}
	if len(c.Exclude) == 0 {
		c.Exclude = f.Exclude
	}
}

// Validate checks and normalizes the configuration.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.Errorf("root is required")
	}

	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.ContainsAny(ext, `/\`) {
			return errors.Errorf("extension %q must look like \".js\"", ext)
		}
		c.Extensions[i] = strings.ToLower(ext)
	}

	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return nil
}
