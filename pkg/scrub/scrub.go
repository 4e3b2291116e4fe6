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

// Package scrub runs the name substitution over a release build output.
package scrub

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/namescrub/pkg/config"
	"github.com/walteh/namescrub/pkg/log"
	"github.com/walteh/namescrub/pkg/names"
	"github.com/walteh/namescrub/pkg/text"
	"github.com/walteh/namescrub/pkg/walk"
)

// Summary is the outcome of a run.
type Summary struct {
	Replacements int  // total replacements over all files
	TouchedFiles int  // files with at least one replacement
	ScannedFiles int  // eligible files that were read
	DryRun       bool // nothing was written
	Skipped      bool // not a release build, nothing was read
}

// String is the one line report printed at the end of a run.
func (s *Summary) String() string {
	if s.Skipped {
		return "Skipped: not a release build"
	}
	mode := "Done"
	if s.DryRun {
		mode = "Dry run"
	}
	return fmt.Sprintf("%s: %d replacements in %d files (%d scanned)", mode, s.Replacements, s.TouchedFiles, s.ScannedFiles)
}

// Options contains what a run needs
type Options struct {
	// Config is the run configuration; Resolve is called on it after the release gate
	Config *config.Config
	// Stdout receives the summary line, defaults to os.Stdout
	Stdout io.Writer
	// Console receives progress lines, defaults to stderr
	Console *log.Logger
}

// Run scrubs the build output described by opts.Config. Outside release mode
// it returns a skipped summary without touching the filesystem.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Console == nil {
		opts.Console = log.New(os.Stderr, *zerolog.Ctx(ctx))
	}

	cfg := opts.Config
	logger := zerolog.Ctx(ctx)

	if !cfg.Release {
		opts.Console.Warningf("skipping name scrub: not a release build (use --release or %s=production)", config.EnvNodeEnv)
		return &Summary{Skipped: true}, nil
	}

	if err := cfg.Resolve(ctx); err != nil {
		return nil, err
	}

	dist := cfg.DistDir()

	records, err := loadTable(cfg.TablePath())
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("records", len(records)).Msg("loaded name table")

	if err := checkDir(dist); err != nil {
		return nil, err
	}

	tasks, err := walk.Eligible(dist, cfg.Filter())
	if err != nil {
		return nil, withKind(ErrIO, errors.Errorf("listing %s: %w", dist, err))
	}
	if len(tasks) == 0 {
		return nil, errors.Errorf("%w: no eligible files in %s", ErrEmptyInput, dist)
	}

	opts.Console.Header(fmt.Sprintf("scrubbing %d files in %s", len(tasks), dist))

	replacer := text.NewNameReplacer(records)
	summary := &Summary{DryRun: cfg.DryRun}

	for _, task := range tasks {
		n, err := scrubFile(ctx, opts, replacer, task)
		if err != nil {
			return nil, err
		}

		summary.ScannedFiles++
		if n > 0 {
			summary.TouchedFiles++
			summary.Replacements += n
		}
	}

	fmt.Fprintln(opts.Stdout, summary.String())

	return summary, nil
}

func loadTable(path string) (names.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, withKind(ErrIO, errors.Errorf("reading name table %s: %w", path, err))
	}

	records, err := names.Parse(string(data))
	if err != nil {
		return nil, errors.Errorf("parsing name table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("%w: no valid rows in name table %s", ErrEmptyInput, path)
	}

	return records, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return withKind(ErrNotFound, errors.Errorf("target directory %s: %w", dir, err))
	}
	if !info.IsDir() {
		return errors.Errorf("%w: target %s is not a directory", ErrNotFound, dir)
	}
	return nil
}

// scrubFile rewrites one file and returns its replacement count. Files without
// a match are never written.
func scrubFile(ctx context.Context, opts Options, replacer text.Replacer, task walk.FileTask) (int, error) {
	logger := zerolog.Ctx(ctx).With().Str("file", task.Rel).Logger()

	data, err := os.ReadFile(task.Path)
	if err != nil {
		return 0, withKind(ErrIO, errors.Errorf("reading %s: %w", task.Path, err))
	}

	before := string(data)
	out := replacer.Replace(before)
	if out.Count == 0 {
		logger.Trace().Msg("no matches")
		return 0, nil
	}

	// record indexes only, the names themselves stay out of build logs
	for i, n := range out.PerRecord {
		if n > 0 {
			logger.Debug().Int("record", i).Int("replacements", n).Msg("record matched")
		}
	}

	if !opts.Config.DryRun {
		info, err := os.Stat(task.Path)
		if err != nil {
			return 0, withKind(ErrIO, errors.Errorf("stat %s: %w", task.Path, err))
		}
		if err := os.WriteFile(task.Path, []byte(out.Text), info.Mode().Perm()); err != nil {
			return 0, withKind(ErrIO, errors.Errorf("writing %s: %w", task.Path, err))
		}
	}

	opts.Console.LogFileOperation(log.FileOperation{
		Path:         task.Rel,
		Replacements: out.Count,
		DryRun:       opts.Config.DryRun,
	})
	if opts.Config.ShowDiff {
		opts.Console.LogDiff(text.Diff(before, out.Text))
	}

	return out.Count, nil
}
