// Package verify checks that the compiler tool actually produced the
// artifacts a request asked for. It only looks at file existence; contents are
// never parsed.
package verify

import (
	"context"
	"os"

	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/pipeline"
)

// StatFunc reports file metadata; os.Stat by default.
type StatFunc func(name string) (os.FileInfo, error)

// Artifact is an expected output that was found on disk.
type Artifact struct {
	pipeline.Expected
	Size int64
}

// Report is the complete outcome of a verification pass. Every expected
// output is checked, so Missing lists all absent files, not just the first.
type Report struct {
	Found   []Artifact
	Missing []pipeline.Expected
}

// OK reports whether nothing was missing.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Verifier checks expected outputs against the filesystem.
type Verifier struct {
	stat StatFunc
}

// New creates a Verifier. A nil stat uses os.Stat.
func New(stat StatFunc) *Verifier {
	if stat == nil {
		stat = os.Stat
	}
	return &Verifier{stat: stat}
}

// Check inspects every output the request expects. Stages without an input
// shader are skipped, so their output slots are never looked at.
func (v *Verifier) Check(ctx context.Context, req pipeline.CompileRequest) Report {
	logger := ctxlog.FromContext(ctx)

	var r Report
	for _, exp := range req.ExpectedOutputs() {
		info, err := v.exists(exp.Path)
		if err != nil {
			logger.Debug("Expected output is missing.", "category", exp.Category, "path", exp.Path, "error", err)
			r.Missing = append(r.Missing, exp)
			continue
		}
		r.Found = append(r.Found, Artifact{Expected: exp, Size: info.Size()})
	}
	return r
}

// Verify returns true only if every required, stage-present output exists.
// A request with no required outputs passes vacuously.
func (v *Verifier) Verify(ctx context.Context, req pipeline.CompileRequest) bool {
	return v.Check(ctx, req).OK()
}

func (v *Verifier) exists(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	info, err := v.stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "verify", Path: path, Err: os.ErrInvalid}
	}
	return info, nil
}
