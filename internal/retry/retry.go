// Package retry implements bounded, fixed-schedule retries around an
// unreliable operation.
package retry

import (
	"context"
	"time"
)

// Policy describes how many times an operation runs and how long to wait
// between runs. The operation runs len(Delays)+1 times at most; Delays[i] is
// slept after attempt i+1 fails. There is never a sleep after the last attempt.
type Policy struct {
	Delays []time.Duration

	// Sleep waits for d or until ctx is done, whichever comes first. It
	// defaults to a timer-based sleep; tests inject a recorder.
	Sleep func(ctx context.Context, d time.Duration)
}

// Default is the schedule used around the compiler tool: attempt, wait 2s,
// attempt, wait 4s, attempt.
func Default() Policy {
	return Policy{Delays: []time.Duration{2000 * time.Millisecond, 4000 * time.Millisecond}}
}

// Once runs the operation a single time.
func Once() Policy {
	return Policy{}
}

// MaxAttempts returns the attempt bound of the policy.
func (p Policy) MaxAttempts() int {
	return len(p.Delays) + 1
}

// Do calls op until it reports done, the attempts are exhausted or ctx is
// cancelled during a backoff. attempt is 1-based. Do returns the number of
// attempts made.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) (done bool)) int {
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	attempts := 0
	for {
		attempts++
		if op(ctx, attempts) || attempts >= p.MaxAttempts() {
			return attempts
		}
		sleep(ctx, p.Delays[attempts-1])
		if ctx.Err() != nil {
			return attempts
		}
	}
}

func timerSleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
