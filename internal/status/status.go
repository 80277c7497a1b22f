// Package status defines the closed set of outcomes of a compile invocation.
package status

import (
	"errors"
	"fmt"
)

// Status classifies a finished compile invocation. The values are mutually
// exclusive.
type Status int

const (
	// Success means the tool ran, reported no error and every requested
	// artifact exists.
	Success Status = iota
	// CompilerError means the tool ran and its output contains an error marker.
	CompilerError
	// LaunchFailed means the tool could not be started, or gave no output,
	// on the final attempt.
	LaunchFailed
	// OutputVerificationFailed means the tool reported no error but a
	// requested artifact is missing.
	OutputVerificationFailed
)

// Sentinel errors matching the non-success statuses.
var (
	ErrCompilerError      = errors.New("shader compilation reported errors")
	ErrLaunchFailed       = errors.New("failed to launch compiler tool")
	ErrOutputVerification = errors.New("compiler tool output verification failed")
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case CompilerError:
		return "compiler_error"
	case LaunchFailed:
		return "launch_failed"
	case OutputVerificationFailed:
		return "output_verification_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Err returns nil for Success and the matching sentinel otherwise.
func (s Status) Err() error {
	switch s {
	case Success:
		return nil
	case CompilerError:
		return ErrCompilerError
	case LaunchFailed:
		return ErrLaunchFailed
	case OutputVerificationFailed:
		return ErrOutputVerification
	default:
		return fmt.Errorf("unknown compile status %d", int(s))
	}
}

// Result is the immutable outcome of one compile call.
type Result struct {
	Status Status
	// Diagnostic holds the tool's raw output. It is only set for
	// CompilerError; every other outcome discards the output.
	Diagnostic string
}

// Err is a convenience for Status.Err.
func (r Result) Err() error {
	return r.Status.Err()
}
