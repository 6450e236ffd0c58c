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

package operation

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// MinInterval is the shortest wait between two periodic runs
	MinInterval = time.Second

	// MaxInterval is the longest wait a time.Duration can hold in whole minutes
	MaxInterval = time.Duration(math.MaxInt64/int64(time.Minute)) * time.Minute
)

// 🔧 ScheduleOptions controls how a Scheduler repeats its operation
type ScheduleOptions struct {
	// Once runs the operation a single time and returns its error
	Once bool
	// Interval is the wait between the end of one run and the start of the next
	Interval time.Duration
	// OnWait, when set, is called with the time of the next run
	OnWait func(next time.Time)
}

// ⏰ Scheduler executes an operation once or on a fixed interval. Runs never
// overlap.
type Scheduler struct {
	op   Operation
	opts ScheduleOptions
	now  func() time.Time
}

// 🏗️ NewScheduler creates a new scheduler
func NewScheduler(op Operation, opts ScheduleOptions) *Scheduler {
	if opts.Interval < MinInterval {
		opts.Interval = MinInterval
	}
	return &Scheduler{
		op:   op,
		opts: opts,
		now:  time.Now,
	}
}

// 🏃 Run executes the operation until ctx is cancelled. A failed run stops
// the loop and its error is returned. Cancellation while waiting returns nil;
// a run already in progress is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if s.opts.Once {
		return s.op.Execute(ctx)
	}

	timer := time.NewTimer(s.opts.Interval)
	timer.Stop()
	defer timer.Stop()

	for run := 1; ; run++ {
		logger.Debug().Int("run", run).Msg("starting scheduled run")
		if err := s.op.Execute(ctx); err != nil {
			return errors.Errorf("scheduled run %d: %w", run, err)
		}

		if ctx.Err() != nil {
			logger.Debug().Int("runs", run).Msg("scheduler stopped")
			return nil
		}

		if s.opts.OnWait != nil {
			s.opts.OnWait(s.now().Add(s.opts.Interval))
		}
		timer.Reset(s.opts.Interval)

		select {
		case <-ctx.Done():
			logger.Debug().Int("runs", run).Msg("scheduler stopped")
			return nil
		case <-timer.C:
		}
	}
}

// ⏱️ IntervalFromMinutes converts a configured minute count to a wait,
// never shorter than MinInterval nor longer than MaxInterval
func IntervalFromMinutes(minutes int) time.Duration {
	switch {
	case minutes < 1:
		return MinInterval
	case int64(minutes) > int64(MaxInterval/time.Minute):
		return MaxInterval
	}
	return time.Duration(minutes) * time.Minute
}
