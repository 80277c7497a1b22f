package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_StringAndErr(t *testing.T) {
	testCases := []struct {
		status   Status
		name     string
		sentinel error
	}{
		{Success, "success", nil},
		{CompilerError, "compiler_error", ErrCompilerError},
		{LaunchFailed, "launch_failed", ErrLaunchFailed},
		{OutputVerificationFailed, "output_verification_failed", ErrOutputVerification},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.status.String())
			if tc.sentinel == nil {
				assert.NoError(t, tc.status.Err())
				return
			}
			assert.True(t, errors.Is(Result{Status: tc.status}.Err(), tc.sentinel))
		})
	}
}

func TestStatus_Unknown(t *testing.T) {
	s := Status(42)
	assert.Equal(t, "status(42)", s.String())
	assert.Error(t, s.Err())
}
