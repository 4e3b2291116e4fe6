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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/namescrub/cmd/namescrub/opts"
	"github.com/walteh/namescrub/pkg/config"
	"github.com/walteh/namescrub/pkg/log"
	"github.com/walteh/namescrub/pkg/scrub"
)

// rootFlags holds the command line flags
type rootFlags struct {
	root       string
	dist       string
	configFile string
	dryRun     bool
	release    bool
	showDiff   bool
	debug      bool
}

// env is how the command reads the environment, os.LookupEnv outside tests
type env func(string) (string, bool)

// newRootCmd creates the namescrub command
func newRootCmd(stdout, stderr io.Writer, lookupEnv env) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "namescrub",
		Short: "Replace real names with fake ones in a release build",
		Long: `namescrub rewrites the built UI so that real people never ship in a release.
It will:
1. Exit without doing anything unless this is a release build
2. Load the name table (Country,Name,Surname,FakeName,FakeSurname)
3. Rewrite every "Country, Name, Surname" occurrence in .js/.mjs/.cjs/.html/.csv files
4. Print how many replacements were made`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, flags.debug)

			o, err := newRootOpts(ctx, flags, lookupEnv, stdout, stderr)
			if err != nil {
				return err
			}

			_, err = scrub.Run(ctx, scrub.Options{
				Config:  o.Config,
				Stdout:  o.Stdout,
				Console: o.Console,
			})
			return err
		},
	}

	addRootFlags(cmd, flags)

	return cmd
}

// addRootFlags adds the flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.Flags().StringVar(&flags.root, "root", "", "project root holding the name table (default: current directory)")
	cmd.Flags().StringVar(&flags.dist, "dist", "", "directory to scrub (default: <root>/packages/ui/dist)")
	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "config file (default: <root>/.namescrub.{yaml,yml,hcl} if present)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report replacements without writing files")
	cmd.Flags().BoolVar(&flags.release, "release", false, "run even if the environment does not signal a production build")
	cmd.Flags().BoolVar(&flags.showDiff, "show-diff", false, "print the changed fragments of every touched file")
	cmd.Flags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// newRootOpts turns flags and environment into run options. The release
// signal is read here once and nowhere else.
func newRootOpts(ctx context.Context, flags *rootFlags, lookupEnv env, stdout, stderr io.Writer) (*opts.RootOpts, error) {
	root := flags.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		root = wd
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("getting absolute root path: %w", err)
	}

	cfg := &config.Config{
		Root:       root,
		ConfigFile: flags.configFile,
		Release:    flags.release || config.ReleaseFromEnv(lookupEnv),
		DryRun:     flags.dryRun,
		ShowDiff:   flags.showDiff,
	}

	if flags.dist != "" {
		cfg.Dist, err = filepath.Abs(flags.dist)
		if err != nil {
			return nil, errors.Errorf("getting absolute dist path: %w", err)
		}
	}

	return &opts.RootOpts{
		Config:  cfg,
		Console: log.New(stderr, *zerolog.Ctx(ctx)),
		Stdout:  stdout,
	}, nil
}

// setupLogging attaches a zerolog logger to ctx based on flags
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
