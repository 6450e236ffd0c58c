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
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/backuprc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultIntervalMinutes is used when interval_minutes is absent
	DefaultIntervalMinutes = 60

	// DefaultMessageTemplate is used when kakao.message_template is absent
	DefaultMessageTemplate = "[Backup] {timestamp} - Copied {files_copied} files, {bytes_copied} bytes"

	// AccessTokenEnv supplies kakao.access_token when the file leaves it empty
	AccessTokenEnv = "KAKAO_ACCESS_TOKEN"
)

// 🧩 Message template placeholders
const (
	FieldTimestamp   = "timestamp"
	FieldFilesCopied = "files_copied"
	FieldBytesCopied = "bytes_copied"
)

// MessageFields lists the placeholders a message template may use
var MessageFields = []string{FieldTimestamp, FieldFilesCopied, FieldBytesCopied}

// 💬 KakaoArgs configures the KakaoTalk summary notification
type KakaoArgs struct {
	Enabled         bool   `json:"enabled" yaml:"enabled" toml:"enabled" hcl:"enabled,optional"`
	AccessToken     string `json:"access_token" yaml:"access_token" toml:"access_token" hcl:"access_token,optional"`
	MessageTemplate string `json:"message_template" yaml:"message_template" toml:"message_template" hcl:"message_template,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	SourceDir       string     `json:"source_dir" yaml:"source_dir" toml:"source_dir" hcl:"source_dir,optional"`
	BackupDir       string     `json:"backup_dir" yaml:"backup_dir" toml:"backup_dir" hcl:"backup_dir,optional"`
	IntervalMinutes *int       `json:"interval_minutes,omitempty" yaml:"interval_minutes,omitempty" toml:"interval_minutes,omitempty" hcl:"interval_minutes,optional"`
	IgnorePatterns  []string   `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" toml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
	Kakao           *KakaoArgs `json:"kakao,omitempty" yaml:"kakao,omitempty" toml:"kakao,omitempty" hcl:"kakao,block"`

	location string
	message  *text.Template
}

// ❌ ConfigurationError reports a config file that cannot be used. It is
// fatal before any backup runs.
type ConfigurationError struct {
	Path  string // Config file, when known
	Field string // Offending field, when known
	Err   error
}

func (e *ConfigurationError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("config %s: %s", e.Path, msg)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func fieldError(field, msg string) error {
	return &ConfigurationError{Field: field, Err: errors.New(msg)}
}

// 🔍 Validate checks required fields and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.SourceDir == "" {
		return fieldError("source_dir", "is required")
	}
	if cfg.BackupDir == "" {
		return fieldError("backup_dir", "is required")
	}

	cfg.SourceDir = filepath.Clean(cfg.SourceDir)
	cfg.BackupDir = filepath.Clean(cfg.BackupDir)

	if cfg.IntervalMinutes == nil {
		minutes := DefaultIntervalMinutes
		cfg.IntervalMinutes = &minutes
	}

	if cfg.Kakao == nil {
		cfg.Kakao = &KakaoArgs{}
	}
	if cfg.Kakao.MessageTemplate == "" {
		cfg.Kakao.MessageTemplate = DefaultMessageTemplate
	}
	if cfg.Kakao.AccessToken == "" {
		cfg.Kakao.AccessToken = os.Getenv(AccessTokenEnv)
	}

	tmpl, err := text.ParseTemplate(cfg.Kakao.MessageTemplate, MessageFields...)
	if err != nil {
		return &ConfigurationError{Field: "kakao.message_template", Err: err}
	}
	cfg.message = tmpl

	return nil
}

// ⏱️ Minutes returns the configured interval in minutes
func (cfg *Config) Minutes() int {
	if cfg.IntervalMinutes == nil {
		return DefaultIntervalMinutes
	}
	return *cfg.IntervalMinutes
}

// 💬 Message returns the parsed notification template. Validate must have
// succeeded first.
func (cfg *Config) Message() *text.Template {
	return cfg.message
}

// 📍 Location returns the file the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s every %dm", cfg.SourceDir, cfg.BackupDir, cfg.Minutes())
}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load reads, parses and validates the configuration at path. Every
// failure is a *ConfigurationError.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigurationError{Path: path, Err: errors.Errorf("config file not found: %w", err)}
		}
		return nil, &ConfigurationError{Path: path, Err: errors.Errorf("reading config file: %w", err)}
	}

	p := GetParser(path)
	if p == nil {
		return nil, &ConfigurationError{Path: path, Err: errors.Errorf("unsupported config format %q", filepath.Ext(path))}
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	cfg.location = path

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}
