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

// Package text rewrites real names into fake ones inside a blob of text.
package text

import (
	"regexp"
	"strings"

	"github.com/walteh/namescrub/pkg/names"
)

// separator matches a comma surrounded by optional whitespace. The whitespace
// class covers ASCII space characters, vertical tab, every Unicode separator
// and the zero width no-break space.
const separator = `([\s\x0B\p{Z}\x{FEFF}]*,[\s\x0B\p{Z}\x{FEFF}]*)`

// Outcome is the result of one substitution pass over a text.
type Outcome struct {
	// Text is the updated text
	Text string

	// Count is the total number of replacements made
	Count int

	// PerRecord holds the replacement count of each record, indexed like the RecordSet
	PerRecord []int
}

// Replacer rewrites text and reports how many replacements it made
type Replacer interface {
	Replace(text string) Outcome
}

type rule struct {
	pattern *regexp.Regexp
	record  names.NameRecord
}

// NameReplacer applies a RecordSet to texts. Patterns are compiled once so the
// same replacer can be reused for every file of a run.
type NameReplacer struct {
	rules []rule
}

var _ Replacer = (*NameReplacer)(nil)

// NewNameReplacer compiles one pattern per record.
func NewNameReplacer(records names.RecordSet) *NameReplacer {
	rules := make([]rule, 0, len(records))
	for _, rec := range records {
		rules = append(rules, rule{
			pattern: compile(rec),
			record:  rec,
		})
	}
	return &NameReplacer{rules: rules}
}

func compile(rec names.NameRecord) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(rec.Country) +
		separator + "(" + regexp.QuoteMeta(rec.Name) + ")" +
		separator + "(" + regexp.QuoteMeta(rec.Surname) + ")")
}

// Replace applies every record in order. Each record sees the text as left by
// the records before it.
func (r *NameReplacer) Replace(text string) Outcome {
	out := Outcome{
		Text:      text,
		PerRecord: make([]int, len(r.rules)),
	}

	for i, ru := range r.rules {
		updated, n := ru.apply(out.Text)
		out.Text = updated
		out.PerRecord[i] = n
		out.Count += n
	}

	return out
}

// apply replaces the name and surname groups of every match, keeping the
// country and both separators exactly as found.
func (ru rule) apply(text string) (string, int) {
	matches := ru.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, m := range matches {
		// m[4:6] is the name group, m[8:10] the surname group
		b.WriteString(text[last:m[4]])
		b.WriteString(ru.record.FakeName)
		b.WriteString(text[m[5]:m[8]])
		b.WriteString(ru.record.FakeSurname)
		last = m[9]
	}
	b.WriteString(text[last:])

	return b.String(), len(matches)
}

// Replace is a convenience wrapper for a single text.
func Replace(text string, records names.RecordSet) Outcome {
	return NewNameReplacer(records).Replace(text)
}
