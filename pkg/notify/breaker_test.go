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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 🔧 MockSink is a mock implementation of Sink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Send(ctx context.Context, credential, message string) *Result {
	return m.Called(ctx, credential, message).Get(0).(*Result)
}

func TestBreakerSink(t *testing.T) {
	ctx := testContext(t)

	t.Run("opens_after_threshold", func(t *testing.T) {
		inner := &MockSink{}
		inner.On("Send", ctx, "tok", "msg").Return(Failed(401, "Kakao API error 401: nope")).Twice()

		b := WithBreaker("kakao", inner, 2, time.Hour)

		first := b.Send(ctx, "tok", "msg")
		assert.Equal(t, "Kakao API error 401: nope", first.Reason)
		assert.Equal(t, "closed", b.State())

		second := b.Send(ctx, "tok", "msg")
		assert.Equal(t, "Kakao API error 401: nope", second.Reason)
		assert.Equal(t, "open", b.State())

		third := b.Send(ctx, "tok", "msg")
		assert.False(t, third.Success)
		assert.Equal(t, ReasonSuspended, third.Reason)

		inner.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("success_resets_failures", func(t *testing.T) {
		inner := &MockSink{}
		inner.On("Send", ctx, "tok", "fail").Return(Failed(500, "Kakao API error 500: boom"))
		inner.On("Send", ctx, "tok", "ok").Return(OK(200))

		b := WithBreaker("kakao", inner, 2, time.Hour)

		b.Send(ctx, "tok", "fail")
		assert.True(t, b.Send(ctx, "tok", "ok").Success)
		b.Send(ctx, "tok", "fail")
		assert.Equal(t, "closed", b.State(), "failures are counted consecutively")
	})

	t.Run("half_open_after_cooldown", func(t *testing.T) {
		inner := &MockSink{}
		inner.On("Send", ctx, "tok", "msg").Return(Failed(0, "Kakao request failed: dial")).Once()
		inner.On("Send", ctx, "tok", "msg").Return(OK(200)).Once()

		b := WithBreaker("kakao", inner, 1, 20*time.Millisecond)

		assert.False(t, b.Send(ctx, "tok", "msg").Success)
		assert.Equal(t, "open", b.State())

		time.Sleep(40 * time.Millisecond)

		assert.True(t, b.Send(ctx, "tok", "msg").Success)
		assert.Equal(t, "closed", b.State())
		inner.AssertExpectations(t)
	})
}
