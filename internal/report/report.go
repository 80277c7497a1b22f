// Package report publishes the outcome of every compile job: a human-readable
// summary, events on a socket.io server and artifact uploads over HTTP.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/glcompile/internal/pipeline"
	"github.com/specialistvlad/glcompile/internal/status"
	"github.com/specialistvlad/glcompile/internal/verify"
)

// JobResult is the outcome of one job.
type JobResult struct {
	Job        string
	Device     string
	Status     status.Status
	Diagnostic string
	Elapsed    time.Duration
	Artifacts  []verify.Artifact
}

// TotalSize sums the sizes of all artifacts.
func (r JobResult) TotalSize() int64 {
	var n int64
	for _, a := range r.Artifacts {
		n += a.Size
	}
	return n
}

// Payload renders the result as plain maps and slices, ready for JSON.
func (r JobResult) Payload() map[string]any {
	artifacts := make([]any, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		entry := map[string]any{
			"category": string(a.Category),
			"path":     a.Path,
			"size":     a.Size,
		}
		if a.Category != pipeline.CategoryBinary {
			entry["stage"] = a.Stage.String()
		}
		artifacts = append(artifacts, entry)
	}
	return map[string]any{
		"job":        r.Job,
		"device":     r.Device,
		"status":     r.Status.String(),
		"diagnostic": r.Diagnostic,
		"elapsed_ms": r.Elapsed.Milliseconds(),
		"artifacts":  artifacts,
	}
}

// Reporter receives job results. Implementations must be safe for
// concurrent use.
type Reporter interface {
	Report(ctx context.Context, res JobResult) error
	Close() error
}

// Multi fans every call out to all reporters.
type Multi []Reporter

// Report implements Reporter. Every reporter is called; errors are joined.
func (m Multi) Report(ctx context.Context, res JobResult) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Reporter.
func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
