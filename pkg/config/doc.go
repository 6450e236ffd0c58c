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

// Package config loads the backup configuration.
//
// The format is chosen by file extension:
//
//	.yaml, .yml  YAML (unknown keys rejected)
//	.json        JSON (unknown keys rejected)
//	.toml        TOML (unknown keys rejected)
//	.hcl         HCL  (env.NAME available in expressions)
//
// A minimal YAML file:
//
//	source_dir: ./data
//	backup_dir: ./backup
//	interval_minutes: 30
//	ignore_patterns:
//	  - "**/*.tmp"
//	kakao:
//	  enabled: true
//	  access_token: "..."
//	  message_template: "[Backup] {timestamp} - Copied {files_copied} files, {bytes_copied}"
//
// source_dir and backup_dir are required. interval_minutes defaults to 60.
// An empty kakao.access_token is taken from $KAKAO_ACCESS_TOKEN.
package config
