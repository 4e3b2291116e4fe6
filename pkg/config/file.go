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

package config

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// File is the content of a config file.
type File struct {
	Table      string   `yaml:"table,omitempty" hcl:"table,optional"`
	Dist       string   `yaml:"dist,omitempty" hcl:"dist,optional"`
	Extensions []string `yaml:"extensions,omitempty" hcl:"extensions,optional"`
	Exclude    []string `yaml:"exclude,omitempty" hcl:"exclude,optional"`
}

// Parser decodes one config file format. root is exposed to the file as the
// "root" variable.
type Parser interface {
	Parse(ctx context.Context, data []byte, filename, root string) (*File, error)
	CanParse(filename string) bool
}

var parsers []Parser

// Register adds a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func init() {
	Register(&YAMLParser{})
	Register(&HCLParser{})
}

// LoadFile reads and parses a config file, picking the format from the extension.
func LoadFile(ctx context.Context, path, root string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	return p.Parse(ctx, data, path, root)
}

// YAMLParser reads .yaml and .yml files. The literal ${root} is expanded in dist and table.
type YAMLParser struct{}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte, filename, root string) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	f.Dist = strings.ReplaceAll(f.Dist, "${root}", root)
	f.Table = strings.ReplaceAll(f.Table, "${root}", root)

	return &f, nil
}

// HCLParser reads .hcl files.
type HCLParser struct{}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte, filename, root string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"root": cty.StringVal(root),
		},
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &f)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &f, nil
}
