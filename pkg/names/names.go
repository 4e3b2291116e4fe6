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

// Package names parses the real-to-fake name table that drives a scrub run.
//
// The table is plain comma separated text with the header
//
//	Country,Name,Surname,FakeName,FakeSurname
//
// Cells are trimmed, quoting is not supported and malformed rows are dropped.
package names

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Header is the exact column layout the table must start with.
var Header = []string{"Country", "Name", "Surname", "FakeName", "FakeSurname"}

// ErrFormat is returned when the table header does not match Header.
var ErrFormat = errors.New("format error")

// NameRecord maps one real (country, name, surname) triple to its fake name.
type NameRecord struct {
	Country     string
	Name        string
	Surname     string
	FakeName    string
	FakeSurname string
}

// RecordSet is the ordered list of records for a run. Earlier rows are applied first.
type RecordSet []NameRecord

// Parse turns raw table text into a RecordSet.
func Parse(data string) (RecordSet, error) {
	lines := strings.Split(strings.TrimPrefix(data, "\ufeff"), "\n")

	headerAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, errors.Errorf("%w: missing header", ErrFormat)
	}

	header := splitRow(lines[headerAt])
	if !equalHeader(header) {
		return nil, errors.Errorf("%w: unexpected header %q, want %q",
			ErrFormat, strings.Join(header, ","), strings.Join(Header, ","))
	}

	records := RecordSet{}
	for _, line := range lines[headerAt+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := splitRow(line)
		if len(cells) < len(Header) {
			continue
		}

		rec := NameRecord{
			Country:     cells[0],
			Name:        cells[1],
			Surname:     cells[2],
			FakeName:    cells[3],
			FakeSurname: cells[4],
		}
		if rec.Country == "" || rec.Name == "" || rec.Surname == "" {
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

func splitRow(line string) []string {
	cells := strings.Split(strings.TrimRight(line, "\r"), ",")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func equalHeader(cells []string) bool {
	if len(cells) != len(Header) {
		return false
	}
	for i := range Header {
		if cells[i] != Header[i] {
			return false
		}
	}
	return true
}
