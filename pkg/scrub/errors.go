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

package scrub

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/namescrub/pkg/names"
)

// Error kinds of a run. All of them are fatal; match them with errors.Is.
var (
	// ErrFormat means the name table header is wrong
	ErrFormat = names.ErrFormat
	// ErrEmptyInput means the table has no valid rows or no file is eligible
	ErrEmptyInput = errors.New("empty input")
	// ErrNotFound means the target directory is missing or not a directory
	ErrNotFound = errors.New("not found")
	// ErrIO means a read or write failed
	ErrIO = errors.New("i/o error")
)

// kindError tags err with one of the kinds above while keeping err in the chain.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.err.Error() }

func (e *kindError) Unwrap() error { return e.err }

func (e *kindError) Is(target error) bool { return target == e.kind }

func withKind(kind, err error) error {
	return &kindError{kind: kind, err: err}
}
