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

package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 45 // Base width for filename
	countWidth  = 6  // Width for replacement count
	statusWidth = 10 // Width for status text
)

// 🎯 FileOperation is one scrubbed file
type FileOperation struct {
	Path         string // Path relative to the scrubbed directory
	Replacements int    // Number of replacements made
	DryRun       bool   // Whether the file was left untouched on disk
}

// 🎯 Logger prints user facing lines and mirrors them into zerolog at debug level
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	files   int
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	symbol := '⟳'
	symbolColor := color.FgBlue
	status := "rewritten"
	if op.DryRun {
		symbol = '•'
		symbolColor = color.FgYellow
		status = "dry run"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%*d", countWidth, op.Replacements)),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files++

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Debug().
		Str("file", op.Path).
		Int("replacements", op.Replacements).
		Bool("dry_run", op.DryRun).
		Msg("file scrubbed")
}

// 📝 LogDiff prints a rendered diff under the last file line
func (l *Logger) LogDiff(diff string) {
	if diff == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, diff)
}

// 📝 Files returns how many file operations were logged
func (l *Logger) Files() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.files
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("namescrub")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
