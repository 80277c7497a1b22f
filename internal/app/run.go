package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/model"
	"github.com/specialistvlad/glcompile/internal/report"
	"github.com/specialistvlad/glcompile/internal/status"
	"github.com/specialistvlad/glcompile/internal/transpile"
	"golang.org/x/sync/errgroup"
)

// ErrJobsFailed is returned by Run when at least one job did not succeed.
var ErrJobsFailed = errors.New("compile jobs failed")

// Run executes the main application logic for the configured mode.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode)

	switch a.config.Mode {
	case ModeGLVersion:
		version, err := a.GLVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.outW, version)
		return nil
	case ModeListDevices:
		names, err := a.ListDevices(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			id, _ := a.devices.Lookup(name)
			fmt.Fprintf(a.outW, "%s\tfamily=%d\trevision=%d\n", name, id.Family, id.Revision)
		}
		return nil
	}

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer(ctx)
		defer func() { _ = a.closeHealthCheckServer(ctx) }()
	}

	err := a.runJobs(ctx)
	if closeErr := a.reporter.Close(); closeErr != nil {
		a.logger.Warn("Closing reporters failed.", "error", closeErr)
		if err == nil {
			err = fmt.Errorf("failed to close reporters: %w", closeErr)
		}
	}
	a.logger.Debug("App.Run method finished.")
	return err
}

// runJobs compiles every job on a worker pool bounded by WorkerCount.
func (a *App) runJobs(ctx context.Context) error {
	jobs := a.workspace.Jobs
	if len(jobs) == 0 {
		a.logger.Warn("No jobs found, nothing to compile.")
		return nil
	}

	a.progress.total.Store(int64(len(jobs)))
	a.logger.Info("Starting compile jobs.", "jobs", len(jobs), "workers", a.config.WorkerCount, "tool", a.builder.ToolPath())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for _, job := range jobs {
		g.Go(func() error {
			res := a.runJob(gctx, job)
			if res.Status != status.Success {
				a.progress.failed.Add(1)
			}
			a.progress.done.Add(1)
			if err := a.reporter.Report(gctx, res); err != nil {
				ctxlog.FromContext(gctx).Warn("Reporting job result failed.", "job", job.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := a.progress.failed.Load()
	a.logger.Info("Compile jobs finished.", "jobs", len(jobs), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrJobsFailed, failed, len(jobs))
	}
	return nil
}

// runJob prepares, compiles and inventories one job. Failures before the
// tool runs are reported as a launch failure without diagnostic, or as a
// compiler error when a shader could not be translated.
func (a *App) runJob(ctx context.Context, job *model.Job) report.JobResult {
	logger := ctxlog.FromContext(ctx).With("job", job.Name, "device", job.Device)
	ctx = ctxlog.WithLogger(ctx, logger)

	start := time.Now()
	res := report.JobResult{Job: job.Name, Device: job.Device}

	id, _ := a.devices.Lookup(job.Device)
	req := job.Request(id)

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		logger.Error("Failed to create output directory.", "path", job.OutputDir, "error", err)
		res.Status = status.LaunchFailed
		res.Elapsed = time.Since(start)
		return res
	}

	shaders, err := transpile.Prepare(ctx, req.Shaders, job.EntryPoints, job.StagingDir())
	if err != nil {
		logger.Error("Failed to translate WGSL shader.", "error", err)
		res.Status = status.CompilerError
		res.Diagnostic = err.Error()
		res.Elapsed = time.Since(start)
		return res
	}
	req.Shaders = shaders

	result := a.builder.Compile(ctx, req)
	res.Status = result.Status
	res.Diagnostic = result.Diagnostic
	res.Artifacts = a.builder.Artifacts(ctx, req)
	res.Elapsed = time.Since(start)

	if result.Status == status.Success {
		logger.Info("Job compiled.", "artifacts", len(res.Artifacts))
	} else {
		logger.Warn("Job failed.", "status", result.Status)
	}
	return res
}

// GLVersion runs the tool's version probe once.
func (a *App) GLVersion(ctx context.Context) (string, error) {
	output, launched := a.builder.OpenGLVersion(ctx)
	if !launched {
		return "", fmt.Errorf("compiler tool %s could not be launched: %w", a.builder.ToolPath(), status.ErrLaunchFailed)
	}
	return strings.TrimSpace(output), nil
}

// ListDevices returns the devices that can be targeted.
func (a *App) ListDevices(ctx context.Context) ([]string, error) {
	return a.builder.SupportedDevices(ctx)
}
