package invoker

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/glcompile/internal/retry"
	"github.com/specialistvlad/glcompile/internal/testutil"
	"github.com/specialistvlad/glcompile/internal/vccmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ok         = testutil.Outcome{Launched: true, Output: "compiled ok"}
	noLaunch   = testutil.Outcome{Launched: false}
	silentExit = testutil.Outcome{Launched: true, Output: ""}
)

func TestInvoke_RetrySchedule(t *testing.T) {
	testCases := []struct {
		name           string
		outcomes       []testutil.Outcome
		expectedCalls  int
		expectedSleeps []time.Duration
		expectLaunched bool
		expectOutput   string
	}{
		{
			name:           "first attempt succeeds",
			outcomes:       []testutil.Outcome{ok},
			expectedCalls:  1,
			expectLaunched: true,
			expectOutput:   "compiled ok",
		},
		{
			name:           "launch failure then success",
			outcomes:       []testutil.Outcome{noLaunch, ok},
			expectedCalls:  2,
			expectedSleeps: []time.Duration{2 * time.Second},
			expectLaunched: true,
			expectOutput:   "compiled ok",
		},
		{
			name:           "empty output counts as failure",
			outcomes:       []testutil.Outcome{silentExit, silentExit, ok},
			expectedCalls:  3,
			expectedSleeps: []time.Duration{2 * time.Second, 4 * time.Second},
			expectLaunched: true,
			expectOutput:   "compiled ok",
		},
		{
			name:           "never launches",
			outcomes:       []testutil.Outcome{noLaunch},
			expectedCalls:  3,
			expectedSleeps: []time.Duration{2 * time.Second, 4 * time.Second},
			expectLaunched: false,
		},
		{
			name:           "final attempt launches with empty output",
			outcomes:       []testutil.Outcome{noLaunch, noLaunch, silentExit},
			expectedCalls:  3,
			expectedSleeps: []time.Duration{2 * time.Second, 4 * time.Second},
			expectLaunched: true,
			expectOutput:   "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.LogContext(t)
			launcher := testutil.NewFakeLauncher(tc.outcomes...)
			sleeper := &testutil.SleepRecorder{}
			policy := retry.Default()
			policy.Sleep = sleeper.Sleep

			cmd := vccmd.Command{Path: "VirtualContext", Arg: "a;b;"}
			launched, output := New(launcher, policy).Invoke(ctx, cmd)

			assert.Equal(t, tc.expectLaunched, launched)
			assert.Equal(t, tc.expectOutput, output)
			require.Len(t, launcher.Calls(), tc.expectedCalls)
			for _, c := range launcher.Calls() {
				assert.Equal(t, cmd, c, "every attempt must receive the same command")
			}
			assert.Equal(t, tc.expectedSleeps, sleeper.Slept())
		})
	}
}

func TestInvoke_SingleAttemptPolicy(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	launcher := testutil.NewFakeLauncher(noLaunch, ok)

	launched, output := New(launcher, retry.Once()).Invoke(ctx, vccmd.Command{Path: "vc"})

	assert.False(t, launched)
	assert.Empty(t, output)
	assert.Len(t, launcher.Calls(), 1)
}

func TestInvoke_LogsRetries(t *testing.T) {
	ctx, logs := testutil.LogContext(t)
	sleeper := &testutil.SleepRecorder{}
	policy := retry.Default()
	policy.Sleep = sleeper.Sleep

	New(testutil.NewFakeLauncher(noLaunch, ok), policy).Invoke(ctx, vccmd.Command{Path: "vc"})

	assert.Contains(t, logs.String(), "retrying")
	assert.Contains(t, logs.String(), "delay=2s")
}

func TestLauncherFunc(t *testing.T) {
	var got vccmd.Command
	f := LauncherFunc(func(_ context.Context, c vccmd.Command) (bool, string) {
		got = c
		return true, "out"
	})

	launched, out := f.Launch(context.Background(), vccmd.Command{Path: "p", Arg: "x;"})
	assert.True(t, launched)
	assert.Equal(t, "out", out)
	assert.Equal(t, "p", got.Path)
}
