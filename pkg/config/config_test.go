package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestReleaseFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "empty", env: map[string]string{}, want: false},
		{name: "node_env_production", env: map[string]string{"NODE_ENV": "production"}, want: true},
		{name: "node_env_case_insensitive", env: map[string]string{"NODE_ENV": " Production "}, want: true},
		{name: "node_env_development", env: map[string]string{"NODE_ENV": "development"}, want: false},
		{name: "release_true", env: map[string]string{"NAMESCRUB_RELEASE": "1"}, want: true},
		{name: "release_false", env: map[string]string{"NAMESCRUB_RELEASE": "false"}, want: false},
		{name: "release_garbage", env: map[string]string{"NAMESCRUB_RELEASE": "yes please"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReleaseFromEnv(lookupFrom(tt.env)))
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{Root: "/proj"}
	assert.Equal(t, filepath.Join("/proj", "packages", "ui", "dist"), cfg.DistDir())
	assert.Equal(t, filepath.Join("/proj", "names.csv"), cfg.TablePath())

	cfg = &Config{Root: "/proj", Dist: "/elsewhere/out", Table: "data/fake.csv"}
	assert.Equal(t, "/elsewhere/out", cfg.DistDir())
	assert.Equal(t, filepath.Join("/proj", "data", "fake.csv"), cfg.TablePath())
}

func TestConfig_Filter(t *testing.T) {
	cfg := &Config{Root: "/proj", Exclude: []string{"legacy/**"}}
	f := cfg.Filter()
	assert.ElementsMatch(t, []string{".js", ".mjs", ".cjs", ".html", ".csv"}, f.Extensions)
	assert.Equal(t, []string{"legacy/**"}, f.Exclude)

	cfg = &Config{Root: "/proj", Extensions: []string{".txt"}}
	assert.Equal(t, []string{".txt"}, cfg.Filter().Extensions)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantError string
	}{
		{name: "valid", cfg: Config{Root: "/proj", Extensions: []string{".JS"}, Exclude: []string{"**/*.min.js"}}},
		{name: "missing_root", cfg: Config{}, wantError: "root is required"},
		{name: "extension_without_dot", cfg: Config{Root: "/proj", Extensions: []string{"js"}}, wantError: "must look like"},
		{name: "extension_with_slash", cfg: Config{Root: "/proj", Extensions: []string{".a/b"}}, wantError: "must look like"},
		{name: "bad_pattern", cfg: Config{Root: "/proj", Exclude: []string{"[unclosed"}}, wantError: "invalid exclude pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_ValidateLowercasesExtensions(t *testing.T) {
	cfg := Config{Root: "/proj", Extensions: []string{".JS", ".Html"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{".js", ".html"}, cfg.Extensions)
}

func TestConfig_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		flags     Config
		want      Config
		wantError string
	}{
		{
			name: "no_file",
			want: Config{},
		},
		{
			name: "yaml",
			file: ".namescrub.yaml",
			content: `table: people.csv
dist: build/out
extensions: [".js", ".html"]
exclude: ["vendor/**"]
`,
			want: Config{
				Table:      "people.csv",
				Dist:       "build/out",
				Extensions: []string{".js", ".html"},
				Exclude:    []string{"vendor/**"},
			},
		},
		{
			name: "yaml_root_variable",
			file: ".namescrub.yml",
			content: `dist: ${root}/web/dist
`,
			want: Config{Dist: "web/dist"},
		},
		{
			name: "hcl",
			file: ".namescrub.hcl",
			content: `table      = "people.csv"
dist       = "${root}/web/dist"
extensions = [".mjs"]
`,
			want: Config{
				Table:      "people.csv",
				Dist:       "web/dist",
				Extensions: []string{".mjs"},
			},
		},
		{
			name:    "flags_win_over_file",
			file:    ".namescrub.yaml",
			content: "table: people.csv\ndist: build/out\n",
			flags:   Config{Table: "flag.csv", Dist: "/flag/dist"},
			want:    Config{Table: "flag.csv", Dist: "/flag/dist"},
		},
		{
			name:      "unknown_yaml_field",
			file:      ".namescrub.yaml",
			content:   "tabel: people.csv\n",
			wantError: "parsing YAML",
		},
		{
			name:      "bad_hcl",
			file:      ".namescrub.hcl",
			content:   "table = \n",
			wantError: "HCL",
		},
		{
			name:      "invalid_values",
			file:      ".namescrub.yaml",
			content:   "extensions: [\"js\"]\n",
			wantError: "validating config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.file != "" {
				require.NoError(t, os.WriteFile(filepath.Join(root, tt.file), []byte(tt.content), 0o644))
			}

			cfg := tt.flags
			cfg.Root = root
			err := cfg.Resolve(testContext(t))

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)

			want := tt.want
			want.Root = root
			if want.Dist != "" && !filepath.IsAbs(want.Dist) {
				want.Dist = filepath.Join(root, want.Dist)
			}
			assert.Equal(t, want, cfg)
		})
	}
}

func TestConfig_ResolveExplicitFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "custom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`exclude = ["a/**"]`+"\n"), 0o644))

	cfg := Config{Root: root, ConfigFile: path}
	require.NoError(t, cfg.Resolve(testContext(t)))
	assert.Equal(t, []string{"a/**"}, cfg.Exclude)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, err := LoadFile(testContext(t), path, "/proj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}
