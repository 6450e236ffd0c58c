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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(AccessTokenEnv, "")

	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: "config.yaml",
			config: `
source_dir: ./data
backup_dir: /tmp/backup/
interval_minutes: 15
ignore_patterns:
  - "**/*.tmp"
kakao:
  enabled: true
  access_token: abc
  message_template: "{files_copied} files / {bytes_copied}"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data", cfg.SourceDir, "source should be cleaned")
				assert.Equal(t, "/tmp/backup", cfg.BackupDir, "backup should be cleaned")
				assert.Equal(t, 15, cfg.Minutes())
				assert.Equal(t, []string{"**/*.tmp"}, cfg.IgnorePatterns)
				require.NotNil(t, cfg.Kakao)
				assert.True(t, cfg.Kakao.Enabled)
				assert.Equal(t, "abc", cfg.Kakao.AccessToken)
				assert.Equal(t, "3 files / 1.00 KB", cfg.Message().Render(map[string]string{
					FieldFilesCopied: "3",
					FieldBytesCopied: "1.00 KB",
				}))
			},
		},
		{
			name: "minimal_yaml_gets_defaults",
			file: "config.yml",
			config: `
source_dir: src
backup_dir: dst
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultIntervalMinutes, cfg.Minutes())
				require.NotNil(t, cfg.Kakao)
				assert.False(t, cfg.Kakao.Enabled)
				assert.Equal(t, DefaultMessageTemplate, cfg.Kakao.MessageTemplate)
				assert.Empty(t, cfg.IgnorePatterns)
			},
		},
		{
			name: "null_kakao_block",
			file: "config.yaml",
			config: `
source_dir: src
backup_dir: dst
kakao:
`,
			check: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.Kakao)
				assert.False(t, cfg.Kakao.Enabled)
			},
		},
		{
			name: "zero_interval_is_kept",
			file: "config.yaml",
			config: `
source_dir: src
backup_dir: dst
interval_minutes: 0
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0, cfg.Minutes())
			},
		},
		{
			name: "valid_json",
			file: "config.json",
			config: `{
  "source_dir": "src",
  "backup_dir": "dst",
  "interval_minutes": 5,
  "kakao": {"enabled": true, "access_token": "tok"}
}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "src", cfg.SourceDir)
				assert.Equal(t, 5, cfg.Minutes())
				assert.Equal(t, "tok", cfg.Kakao.AccessToken)
			},
		},
		{
			name: "valid_toml",
			file: "config.toml",
			config: `
source_dir = "src"
backup_dir = "dst"
interval_minutes = 120

[kakao]
enabled = true
message_template = "done at {timestamp}"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "dst", cfg.BackupDir)
				assert.Equal(t, 120, cfg.Minutes())
				assert.Equal(t, "done at {timestamp}", cfg.Kakao.MessageTemplate)
			},
		},
		{
			name: "valid_hcl",
			file: "config.hcl",
			config: `
source_dir       = "src"
backup_dir       = "dst"
interval_minutes = 10
ignore_patterns  = [".git/**"]

kakao {
  enabled      = true
  access_token = "hcl-token"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "src", cfg.SourceDir)
				assert.Equal(t, 10, cfg.Minutes())
				assert.Equal(t, []string{".git/**"}, cfg.IgnorePatterns)
				assert.Equal(t, "hcl-token", cfg.Kakao.AccessToken)
			},
		},
		{
			name:        "missing_source_dir",
			file:        "config.yaml",
			config:      "backup_dir: dst\n",
			wantErr:     true,
			errContains: "source_dir: is required",
		},
		{
			name:        "missing_backup_dir",
			file:        "config.yaml",
			config:      "source_dir: src\n",
			wantErr:     true,
			errContains: "backup_dir: is required",
		},
		{
			name:        "empty_file",
			file:        "config.yaml",
			config:      "",
			wantErr:     true,
			errContains: "source_dir: is required",
		},
		{
			name: "unknown_yaml_field",
			file: "config.yaml",
			config: `
source_dir: src
backup_dir: dst
destination: nope
`,
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "config.json",
			config:      `{"source_dir": "a", "backup_dir": "b", "extra": 1}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name: "unknown_toml_field",
			file: "config.toml",
			config: `
source_dir = "a"
backup_dir = "b"
extra = 1
`,
			wantErr:     true,
			errContains: `unknown field "extra"`,
		},
		{
			name: "bad_template",
			file: "config.yaml",
			config: `
source_dir: src
backup_dir: dst
kakao:
  message_template: "{files}"
`,
			wantErr:     true,
			errContains: "kakao.message_template: unknown placeholder {files}",
		},
		{
			name:        "unsupported_extension",
			file:        "config.ini",
			config:      "source_dir=src",
			wantErr:     true,
			errContains: "unsupported config format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)

				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr, "every load failure is a configuration error")
				assert.Equal(t, path, cfgErr.Path)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := Load(testContext(t), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "config file not found")

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestAccessTokenFromEnv(t *testing.T) {
	t.Setenv(AccessTokenEnv, "from-env")

	t.Run("empty_token_uses_env", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "source_dir: a\nbackup_dir: b\nkakao:\n  enabled: true\n")
		cfg, err := Load(testContext(t), path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Kakao.AccessToken)
	})

	t.Run("file_token_wins", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "source_dir: a\nbackup_dir: b\nkakao:\n  access_token: from-file\n")
		cfg, err := Load(testContext(t), path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Kakao.AccessToken)
	})

	t.Run("hcl_env_expression", func(t *testing.T) {
		path := writeConfig(t, "config.hcl", `
source_dir = "a"
backup_dir = "b"
kakao {
  access_token = env.KAKAO_ACCESS_TOKEN
}
`)
		cfg, err := Load(testContext(t), path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Kakao.AccessToken)
	})
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		file string
		want Parser
	}{
		{file: "config.yaml", want: &YAMLParser{}},
		{file: "CONFIG.YML", want: &YAMLParser{}},
		{file: "backup.json", want: &JSONParser{}},
		{file: "backup.toml", want: &TOMLParser{}},
		{file: "backup.hcl", want: &HCLParser{}},
		{file: "backup.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := GetParser(tt.file)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestValidateDirect(t *testing.T) {
	t.Setenv(AccessTokenEnv, "")

	cfg := &Config{SourceDir: "s", BackupDir: "b"}
	require.NoError(t, cfg.Validate())
	assert.NotNil(t, cfg.Message())
	assert.Equal(t, "s -> b every 60m", cfg.String())
}
