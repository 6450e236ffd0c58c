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
	"strings"

	"github.com/BurntSushi/toml"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&TOMLParser{})
}

// 🔧 TOMLParser implements the Parser interface for TOML files
type TOMLParser struct{}

func (p *TOMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".toml")
}

func (p *TOMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("parsing TOML: unknown field %q", undecoded[0].String())
	}
	return &cfg, nil
}
