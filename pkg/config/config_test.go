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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// 🧪 TestLoad checks that every format decodes to the same settings
func TestLoad(t *testing.T) {
	want := &Config{
		Threads:  8,
		Exclude:  []string{"**/.git", "*.tmp"},
		Checksum: true,
		NoDelete: true,
		Debounce: "250ms",
	}

	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{
			name:     "yaml",
			filename: "config.yaml",
			content: `
threads: 8
exclude:
  - "**/.git"
  - "*.tmp"
checksum: true
nodelete: true
debounce: 250ms
`,
		},
		{
			name:     "yml_extension",
			filename: "lumins.YML",
			content:  "threads: 8\nexclude: ['**/.git', '*.tmp']\nchecksum: true\nnodelete: true\ndebounce: 250ms\n",
		},
		{
			name:     "json",
			filename: "config.json",
			content:  `{"threads": 8, "exclude": ["**/.git", "*.tmp"], "checksum": true, "nodelete": true, "debounce": "250ms"}`,
		},
		{
			name:     "hcl",
			filename: "config.hcl",
			content: `
threads  = 8
exclude  = ["**/.git", "*.tmp"]
checksum = true
nodelete = true
debounce = "250ms"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(testContext(t), writeConfig(t, tt.filename, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
			assert.Equal(t, 250*time.Millisecond, cfg.DebounceDuration())
		})
	}
}

func TestLoad_HCLEnv(t *testing.T) {
	t.Setenv("LUMINS_TEST_THREADS", "3")
	path := writeConfig(t, "config.hcl", `threads = env.LUMINS_TEST_THREADS`)

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Threads)
}

// 🧪 the snippets shown in the package documentation load as written
func TestLoad_DocumentedExamples(t *testing.T) {
	t.Setenv("LUMINS_THREADS", "8")

	tests := []struct {
		name     string
		filename string
		content  string
		want     *Config
	}{
		{
			name:     "yaml",
			filename: "config.yaml",
			content:  "threads: 8\nchecksum: true\nexclude:\n  - \"**/.git\"\n  - \"*.tmp\"\ndebounce: 250ms\n",
			want:     &Config{Threads: 8, Checksum: true, Exclude: []string{"**/.git", "*.tmp"}, Debounce: "250ms"},
		},
		{
			name:     "hcl",
			filename: "config.hcl",
			content:  "threads  = env.LUMINS_THREADS\nnodelete = true\nexclude  = [\"node_modules\", \"**/*.o\"]\n",
			want:     &Config{Threads: 8, NoDelete: true, Exclude: []string{"node_modules", "**/*.o"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(testContext(t), writeConfig(t, tt.filename, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	cfg, err := Load(testContext(t), writeConfig(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
	assert.Equal(t, DefaultDebounce, cfg.DebounceDuration())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  string
	}{
		{
			name:     "unknown_yaml_field",
			filename: "config.yaml",
			content:  "threads: 2\ndestination: /tmp\n",
			wantErr:  "parsing YAML",
		},
		{
			name:     "unknown_json_field",
			filename: "config.json",
			content:  `{"threads": 2, "provider": {}}`,
			wantErr:  "parsing JSON",
		},
		{
			name:     "unknown_hcl_attribute",
			filename: "config.hcl",
			content:  `repo = "x"`,
			wantErr:  "decoding HCL",
		},
		{
			name:     "invalid_hcl_syntax",
			filename: "config.hcl",
			content:  `threads = = 2`,
			wantErr:  "parsing HCL",
		},
		{
			name:     "negative_threads",
			filename: "config.json",
			content:  `{"threads": -1}`,
			wantErr:  "threads must not be negative",
		},
		{
			name:     "bad_glob",
			filename: "config.yaml",
			content:  "exclude: ['[abc']\n",
			wantErr:  "invalid exclude pattern",
		},
		{
			name:     "bad_debounce",
			filename: "config.yaml",
			content:  "debounce: soon\n",
			wantErr:  "parsing debounce",
		},
		{
			name:     "negative_debounce",
			filename: "config.yaml",
			content:  "debounce: -1s\n",
			wantErr:  "debounce must not be negative",
		},
		{
			name:     "unknown_extension",
			filename: "config.toml",
			content:  "threads = 1",
			wantErr:  "no parser",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(testContext(t), writeConfig(t, tt.filename, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_NoParser(t *testing.T) {
	_, err := Load(testContext(t), writeConfig(t, "config.ini", ""))
	assert.ErrorIs(t, err, ErrNoParser)
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{"config.yaml", &YAMLParser{}},
		{"config.yml", &YAMLParser{}},
		{"CONFIG.YAML", &YAMLParser{}},
		{"config.json", &JSONParser{}},
		{"config.hcl", &HCLParser{}},
		{"config.txt", nil},
		{"config", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	original := parsers
	defer func() {
		parsers = original
	}()

	parsers = nil
	assert.Nil(t, GetParser("config.yaml"))

	Register(&YAMLParser{})
	assert.Len(t, parsers, 1)
	assert.IsType(t, &YAMLParser{}, GetParser("config.yaml"))
}

func TestDiscover(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)

	base, err := os.UserConfigDir()
	require.NoError(t, err)

	path, err := Discover()
	require.NoError(t, err)
	assert.Empty(t, path, "nothing to discover yet")

	dir := filepath.Join(base, "lumins")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.hcl"), []byte("threads = 1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"threads": 2}`), 0644))

	path, err = Discover()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), path, "json is preferred over hcl")
}

func TestConfigString(t *testing.T) {
	cfg := &Config{Threads: 4, Exclude: []string{"a", "b"}, Secure: true, Copy: true}
	assert.Equal(t, "threads=4 exclude=[a,b] flags=[copy,secure]", cfg.String())
}
