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

// Package notify delivers run summaries to external messaging services.
//
// Delivery never fails the caller: every problem, including a missing
// credential, comes back as a Result with a Reason.
package notify

import (
	"context"
	"sort"
)

// 🔌 Sink delivers a pre-formatted message using credential
type Sink interface {
	Send(ctx context.Context, credential, message string) *Result
}

// 📬 Result is the outcome of one delivery attempt
type Result struct {
	Success    bool   // Whether the service accepted the message
	StatusCode int    // HTTP status, zero when no response was received
	Reason     string // Why delivery failed, empty on success
}

// ✅ OK returns a successful result
func OK(statusCode int) *Result {
	return &Result{Success: true, StatusCode: statusCode}
}

// ❌ Failed returns a failed result with reason
func Failed(statusCode int, reason string) *Result {
	return &Result{StatusCode: statusCode, Reason: reason}
}

// 🏭 Factory creates a new sink
type Factory func() Sink

var (
	// 🗺️ sinks is a map of sink names to factories
	sinks = make(map[string]Factory)
)

// 📝 Register registers a sink factory
func Register(name string, factory Factory) {
	sinks[name] = factory
}

// 🎯 Get returns a sink factory by name
func Get(name string) Factory {
	return sinks[name]
}

// 📋 Names lists the registered sinks
func Names() []string {
	names := make([]string, 0, len(sinks))
	for name := range sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
