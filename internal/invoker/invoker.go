// Package invoker launches the external compiler tool and captures its
// combined output, retrying unsatisfactory runs on a fixed schedule.
package invoker

import (
	"context"

	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/retry"
	"github.com/specialistvlad/glcompile/internal/vccmd"
)

// Launcher runs a command once and returns whether it launched and the
// combined stdout/stderr it produced. Implementations block until the process
// exits or ctx is done; cancellation reports launched=false.
type Launcher interface {
	Launch(ctx context.Context, cmd vccmd.Command) (launched bool, output string)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, cmd vccmd.Command) (bool, string)

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context, cmd vccmd.Command) (bool, string) {
	return f(ctx, cmd)
}

// Invoker wraps a Launcher with a retry policy. An attempt is unsatisfactory
// when the process did not launch or produced no output.
type Invoker struct {
	launcher Launcher
	policy   retry.Policy
}

// New creates an Invoker. The zero Policy means a single attempt.
func New(l Launcher, p retry.Policy) *Invoker {
	return &Invoker{launcher: l, policy: p}
}

// Invoke runs the command according to the policy and returns the outcome of
// the last attempt made.
func (i *Invoker) Invoke(ctx context.Context, cmd vccmd.Command) (bool, string) {
	logger := ctxlog.FromContext(ctx).With("tool", cmd.Path)

	var launched bool
	var output string
	attempts := i.policy.Do(ctx, func(ctx context.Context, attempt int) bool {
		launched, output = i.launcher.Launch(ctx, cmd)
		logger.Debug("Compiler tool attempt finished.", "attempt", attempt, "launched", launched, "output_bytes", len(output))

		ok := launched && output != ""
		if !ok && attempt < i.policy.MaxAttempts() {
			logger.Warn("Compiler tool run was unsatisfactory, retrying.",
				"attempt", attempt,
				"launched", launched,
				"delay", i.policy.Delays[attempt-1],
			)
		}
		return ok
	})

	if !launched || output == "" {
		logger.Warn("Compiler tool gave no usable result.", "attempts", attempts, "launched", launched)
	}
	return launched, output
}
