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

package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/backuprc/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()

	configYAML := `
source_dir: ./data
backup_dir: ./backup
interval_minutes: 30
ignore_patterns:
  - "**/*.tmp"
kakao:
  enabled: true
  access_token: "example-token"
`

	dir, err := os.MkdirTemp("", "backuprc-example")
	if err != nil {
		fmt.Println("creating temp dir:", err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		fmt.Println("writing config:", err)
		return
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		fmt.Println("loading config:", err)
		return
	}

	fmt.Println(cfg.String())
	fmt.Println(cfg.IgnorePatterns)
	fmt.Println(cfg.Kakao.Enabled)
	// Output:
	// data -> backup every 30m
	// [**/*.tmp]
	// true
}
