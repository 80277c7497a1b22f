package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/glcompile/internal/builder"
	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/devices"
	"github.com/specialistvlad/glcompile/internal/invoker"
	"github.com/specialistvlad/glcompile/internal/model"
	"github.com/specialistvlad/glcompile/internal/report"
	"github.com/specialistvlad/glcompile/internal/retry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	workspace *model.Workspace
	devices   *devices.Table
	builder   *builder.Builder
	reporter  report.Reporter

	httpServer *http.Server
	progress   progress
}

type progress struct {
	total  atomic.Int64
	done   atomic.Int64
	failed atomic.Int64
}

// Option customizes how NewApp wires the application.
type Option func(*options)

type options struct {
	launcher  invoker.Launcher
	sleep     func(context.Context, time.Duration)
	reporters []report.Reporter
}

// WithLauncher replaces the process launcher of the compiler tool.
func WithLauncher(l invoker.Launcher) Option {
	return func(o *options) { o.launcher = l }
}

// WithSleep replaces the backoff sleep between tool attempts.
func WithSleep(sleep func(context.Context, time.Duration)) Option {
	return func(o *options) { o.sleep = sleep }
}

// WithReporter adds a reporter next to the summary printed to the output.
func WithReporter(r report.Reporter) Option {
	return func(o *options) { o.reporters = append(o.reporters, r) }
}

// NewApp is the constructor for the main application. It builds the logger,
// loads the job files and connects the reporters.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	ws := &model.Workspace{}
	if cfg.JobsPath != "" {
		loaded, err := model.Load(ctx, cfg.JobsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load job files: %w", err)
		}
		ws = loaded
	}

	table := ws.DeviceTable(devices.Default())
	if err := ws.Validate(table); err != nil {
		return nil, fmt.Errorf("invalid job files: %w", err)
	}

	bopts := builder.Options{
		ToolPath: cfg.ToolPath,
		PrintCmd: cfg.PrintCmd,
		CmdOut:   outW,
		Devices:  table,
		Launcher: o.launcher,
	}
	policy := retry.Default()
	if ws.Tool != nil {
		if bopts.ToolPath == "" {
			bopts.ToolPath = ws.Tool.Path
		}
		bopts.PrintCmd = bopts.PrintCmd || ws.Tool.PrintCmd
	}
	policy.Sleep = o.sleep
	bopts.Retry = &policy
	b := builder.New(bopts)
	logger.Debug("Program builder configured.", "tool", b.ToolPath(), "attempts", policy.MaxAttempts())

	reporters := report.Multi{report.NewSummaryWriter(outW)}
	reporters = append(reporters, o.reporters...)
	if cfg.Mode == ModeCompile && cfg.ReportURL != "" {
		sio, err := report.DialSocketIO(ctx, report.SocketIOConfig{
			URL:                cfg.ReportURL,
			Namespace:          cfg.ReportNamespace,
			InsecureSkipVerify: cfg.ReportInsecure,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect reporter: %w", err)
		}
		reporters = append(reporters, sio)
	}
	if cfg.Mode == ModeCompile && cfg.UploadURL != "" {
		up, err := report.NewUploader(report.UploadConfig{BaseURL: cfg.UploadURL, Timeout: cfg.UploadTimeout})
		if err != nil {
			return nil, fmt.Errorf("failed to configure uploads: %w", err)
		}
		reporters = append(reporters, up)
	}

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		workspace: ws,
		devices:   table,
		builder:   b,
		reporter:  reporters,
	}, nil
}

// Workspace returns the loaded job files. This is primarily for testing.
func (a *App) Workspace() *model.Workspace {
	return a.workspace
}

// Builder returns the configured program builder.
func (a *App) Builder() *builder.Builder {
	return a.builder
}
