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

	"github.com/pterm/pterm"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, os.LookupEnv))
}

// execute runs the command and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, lookupEnv env) int {
	cmd := newRootCmd(stdout, stderr, lookupEnv)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(stderr, err)
		return 1
	}

	return 0
}

// reportError prints a fatal error with the fixed namescrub prefix
func reportError(w io.Writer, err error) {
	pterm.Error.
		WithWriter(w).
		WithPrefix(pterm.Prefix{Text: "namescrub", Style: pterm.NewStyle(pterm.BgRed, pterm.FgLightWhite)}).
		Println(err.Error())
}
