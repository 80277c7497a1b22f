package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	slept []time.Duration
}

func (r *sleepRecorder) Sleep(_ context.Context, d time.Duration) {
	r.slept = append(r.slept, d)
}

func TestDefault_Schedule(t *testing.T) {
	p := Default()
	assert.Equal(t, 3, p.MaxAttempts())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, p.Delays)
	assert.Equal(t, 1, Once().MaxAttempts())
}

func TestDo_SleepsBetweenFailedAttempts(t *testing.T) {
	testCases := []struct {
		name          string
		outcomes      []bool
		expectedCalls int
		expectedSleep []time.Duration
	}{
		{
			name:          "first attempt succeeds",
			outcomes:      []bool{true},
			expectedCalls: 1,
			expectedSleep: nil,
		},
		{
			name:          "second attempt succeeds",
			outcomes:      []bool{false, true},
			expectedCalls: 2,
			expectedSleep: []time.Duration{2000 * time.Millisecond},
		},
		{
			name:          "third attempt succeeds",
			outcomes:      []bool{false, false, true},
			expectedCalls: 3,
			expectedSleep: []time.Duration{2000 * time.Millisecond, 4000 * time.Millisecond},
		},
		{
			name:          "every attempt fails",
			outcomes:      []bool{false, false, false, false, false},
			expectedCalls: 3,
			expectedSleep: []time.Duration{2000 * time.Millisecond, 4000 * time.Millisecond},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &sleepRecorder{}
			p := Default()
			p.Sleep = rec.Sleep

			var seen []int
			attempts := p.Do(context.Background(), func(_ context.Context, attempt int) bool {
				seen = append(seen, attempt)
				return tc.outcomes[attempt-1]
			})

			require.Equal(t, tc.expectedCalls, attempts)
			assert.Len(t, seen, tc.expectedCalls)
			assert.Equal(t, tc.expectedSleep, rec.slept)
		})
	}
}

func TestDo_StopsWhenCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Default()
	p.Sleep = func(context.Context, time.Duration) { cancel() }

	calls := 0
	attempts := p.Do(ctx, func(context.Context, int) bool {
		calls++
		return false
	})

	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestTimerSleep_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	timerSleep(ctx, time.Hour)
	assert.Less(t, time.Since(start), time.Second)
}
