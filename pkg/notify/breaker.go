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

package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"gitlab.com/tozd/go/errors"
)

// ReasonSuspended is returned while the breaker is open
const ReasonSuspended = "notifications suspended: circuit breaker open"

// 🔌 BreakerSink stops calling a sink after repeated failures and tries
// again once the cooldown has passed.
type BreakerSink struct {
	sink Sink
	cb   *gobreaker.CircuitBreaker[*Result]
}

// 🏭 WithBreaker wraps sink so that threshold consecutive failures suspend
// delivery for cooldown.
func WithBreaker(name string, sink Sink, threshold uint32, cooldown time.Duration) *BreakerSink {
	if threshold == 0 {
		threshold = 1
	}
	return &BreakerSink{
		sink: sink,
		cb: gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		}),
	}
}

// 📤 Send delivers through the wrapped sink unless the breaker is open
func (b *BreakerSink) Send(ctx context.Context, credential, message string) *Result {
	before := b.cb.State()

	res, err := b.cb.Execute(func() (*Result, error) {
		r := b.sink.Send(ctx, credential, message)
		if !r.Success {
			return r, errors.New(r.Reason)
		}
		return r, nil
	})

	if after := b.cb.State(); after != before {
		zerolog.Ctx(ctx).Warn().
			Str("breaker", b.cb.Name()).
			Str("from", before.String()).
			Str("to", after.String()).
			Msg("notification circuit breaker state changed")
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Failed(0, ReasonSuspended)
	}
	return res
}

// State reports the breaker state ("closed", "open" or "half-open")
func (b *BreakerSink) State() string {
	return b.cb.State().String()
}
