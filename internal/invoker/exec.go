package invoker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/vccmd"
)

// ExecLauncher runs the tool as a child process with its argument passed as a
// single argv entry, so no shell quoting is involved.
//
// Cancellation is cooperative: when ctx is done the launcher stops waiting
// and reports launched=false, but the child is not killed and may keep
// running until it exits on its own.
type ExecLauncher struct {
	// Dir is the working directory of the child; empty means the caller's.
	Dir string
}

// Launch implements Launcher.
func (l ExecLauncher) Launch(ctx context.Context, c vccmd.Command) (bool, string) {
	logger := ctxlog.FromContext(ctx)
	if ctx.Err() != nil {
		return false, ""
	}

	// A single writer for both streams keeps their interleaving and lets
	// os/exec serialize the writes.
	var out bytes.Buffer
	cmd := exec.Command(c.Path, c.Arg) //nolint:gosec // G204: the tool path comes from configuration
	cmd.Dir = l.Dir
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Start(); err != nil {
		logger.Debug("Failed to start compiler tool.", "path", c.Path, "error", err)
		return false, ""
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// A non-zero exit still produced output worth classifying.
			logger.Debug("Compiler tool exited with non-zero status.", "exit_code", exitErr.ExitCode())
		} else if err != nil {
			logger.Debug("Waiting for compiler tool failed.", "error", err)
			return false, ""
		}
		return true, out.String()
	case <-ctx.Done():
		logger.Warn("Stopped waiting for compiler tool; the process was left running.", "pid", cmd.Process.Pid)
		return false, ""
	}
}
