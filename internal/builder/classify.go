package builder

import (
	"context"
	"strings"

	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/pipeline"
	"github.com/specialistvlad/glcompile/internal/status"
	"github.com/specialistvlad/glcompile/internal/verify"
)

// errorToken marks a compiler error in the tool's output. Matching is
// case-insensitive.
const errorToken = "error:"

// hasCompilerError reports whether output contains the error marker in any case.
func hasCompilerError(output string) bool {
	return strings.Contains(strings.ToLower(output), errorToken)
}

// classify maps the final invocation outcome to a status. The verifier only
// runs when the tool launched and reported no error.
func classify(ctx context.Context, launched bool, output string, req pipeline.CompileRequest, v *verify.Verifier) status.Result {
	logger := ctxlog.FromContext(ctx)

	if !launched {
		return status.Result{Status: status.LaunchFailed}
	}

	if hasCompilerError(output) {
		return status.Result{Status: status.CompilerError, Diagnostic: output}
	}

	report := v.Check(ctx, req)
	if !report.OK() {
		missing := make([]string, 0, len(report.Missing))
		for _, m := range report.Missing {
			missing = append(missing, m.Path)
		}
		logger.Warn("Compiler tool reported success but expected outputs are missing.", "missing", missing)
		return status.Result{Status: status.OutputVerificationFailed}
	}

	return status.Result{Status: status.Success}
}
