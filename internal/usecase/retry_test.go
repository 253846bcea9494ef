package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/iho/txledger/internal/usecase"
	"github.com/iho/txledger/internal/usecase/mocks"
)

func TestRetryPolicy_BackoffGrowsAndCaps(t *testing.T) {
	tracker := mocks.NewInMemoryAttemptTracker()
	policy := usecase.NewRetryPolicy(tracker, 10, 100*time.Millisecond, 350*time.Millisecond, zerolog.Nop())

	want := []time.Duration{
		100 * time.Millisecond,
		150 * time.Millisecond,
		225 * time.Millisecond,
		337500 * time.Microsecond,
		350 * time.Millisecond,
	}

	for i, w := range want {
		d := policy.Next(context.Background(), "tx")
		assert.Equal(t, int64(i+1), d.Attempt)
		assert.False(t, d.Exhausted)
		assert.Equal(t, w, d.Delay, "attempt %d", i+1)
	}
}

func TestRetryPolicy_Exhaustion(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := mocks.NewMockAttemptTracker(ctrl)

	tracker.EXPECT().Increment(gomock.Any(), "retry:attempts:tx-9").Return(int64(4), nil)
	tracker.EXPECT().Reset(gomock.Any(), "retry:attempts:tx-9").Return(nil)

	policy := usecase.NewRetryPolicy(tracker, 3, time.Millisecond, time.Second, zerolog.Nop())

	d := policy.Next(context.Background(), "tx-9")
	assert.True(t, d.Exhausted)
	assert.Equal(t, int64(3), policy.MaxAttempts())

	policy.Reset(context.Background(), "tx-9")
}

func TestRetryPolicy_TrackerErrorCountsAsFirstAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := mocks.NewMockAttemptTracker(ctrl)
	tracker.EXPECT().Increment(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))

	policy := usecase.NewRetryPolicy(tracker, 1, 10*time.Millisecond, time.Second, zerolog.Nop())

	d := policy.Next(context.Background(), "tx")
	assert.Equal(t, int64(1), d.Attempt)
	assert.False(t, d.Exhausted)
	assert.Equal(t, 10*time.Millisecond, d.Delay)
}

func TestRetryPolicy_EmptyIDSkipsTracker(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := mocks.NewMockAttemptTracker(ctrl)

	policy := usecase.NewRetryPolicy(tracker, 1, time.Millisecond, time.Second, zerolog.Nop())

	assert.False(t, policy.Next(context.Background(), "").Exhausted)
	policy.Reset(context.Background(), "")
}
