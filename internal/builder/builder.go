package builder

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/devices"
	"github.com/specialistvlad/glcompile/internal/invoker"
	"github.com/specialistvlad/glcompile/internal/pipeline"
	"github.com/specialistvlad/glcompile/internal/retry"
	"github.com/specialistvlad/glcompile/internal/status"
	"github.com/specialistvlad/glcompile/internal/toolpath"
	"github.com/specialistvlad/glcompile/internal/vccmd"
	"github.com/specialistvlad/glcompile/internal/verify"
)

// Options configures a Builder. Zero values select the production defaults.
type Options struct {
	// ToolPath overrides the platform default location of the compiler tool.
	ToolPath string

	// PrintCmd writes every command line to CmdOut before it runs.
	PrintCmd bool
	CmdOut   io.Writer

	// Devices is the name-to-identity table; defaults to devices.Default().
	Devices *devices.Table
	// Enumerator lists host devices; defaults to enumerating Devices.
	Enumerator devices.Enumerator
	// Disabled devices are removed from SupportedDevices; defaults to devices.Disabled.
	Disabled map[string]struct{}

	// Launcher runs the tool; defaults to invoker.ExecLauncher.
	Launcher invoker.Launcher
	// Retry is the compile retry schedule; nil means retry.Default().
	Retry *retry.Policy
	// Stat backs output verification; defaults to os.Stat.
	Stat verify.StatFunc
}

// Builder drives the compiler tool. It holds only immutable configuration
// and is safe for concurrent use; serializing tool runs, if needed, is up to
// the caller.
type Builder struct {
	toolPath   string
	printCmd   bool
	cmdOut     io.Writer
	table      *devices.Table
	enumerator devices.Enumerator
	disabled   map[string]struct{}
	compiler   *invoker.Invoker
	prober     *invoker.Invoker
	verifier   *verify.Verifier
}

// New creates a Builder from opts.
func New(opts Options) *Builder {
	b := &Builder{
		toolPath:   toolpath.Resolve(opts.ToolPath),
		printCmd:   opts.PrintCmd,
		cmdOut:     opts.CmdOut,
		table:      opts.Devices,
		enumerator: opts.Enumerator,
		disabled:   opts.Disabled,
		verifier:   verify.New(opts.Stat),
	}
	if b.cmdOut == nil {
		b.cmdOut = io.Discard
	}
	if b.table == nil {
		b.table = devices.Default()
	}
	if b.enumerator == nil {
		b.enumerator = devices.TableEnumerator{Table: b.table}
	}
	if b.disabled == nil {
		b.disabled = devices.Disabled
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = invoker.ExecLauncher{}
	}
	policy := retry.Default()
	if opts.Retry != nil {
		policy = *opts.Retry
	}
	// The version probe never retries.
	probe := retry.Once()
	probe.Sleep = policy.Sleep

	b.compiler = invoker.New(launcher, policy)
	b.prober = invoker.New(launcher, probe)
	return b
}

// ToolPath returns the resolved location of the compiler tool.
func (b *Builder) ToolPath() string {
	return b.toolPath
}

// Compile runs the tool for req and classifies the outcome. Retries are
// internal; the result reflects the final attempt only.
func (b *Builder) Compile(ctx context.Context, req pipeline.CompileRequest) status.Result {
	logger := ctxlog.FromContext(ctx)

	cmd := vccmd.Build(b.toolPath, req)
	b.printCommand(ctx, cmd)

	launched, output := b.compiler.Invoke(ctx, cmd)
	res := classify(ctx, launched, output, req, b.verifier)
	logger.Debug("Compile classified.", "status", res.Status)
	return res
}

// Artifacts lists the outputs of req that exist on disk, with their sizes.
func (b *Builder) Artifacts(ctx context.Context, req pipeline.CompileRequest) []verify.Artifact {
	return b.verifier.Check(ctx, req).Found
}

// OpenGLVersion asks the tool for its OpenGL version. The tool is launched
// exactly once; the raw output is returned along with whether it launched.
func (b *Builder) OpenGLVersion(ctx context.Context) (string, bool) {
	cmd := vccmd.Version(b.toolPath)
	b.printCommand(ctx, cmd)
	launched, output := b.prober.Invoke(ctx, cmd)
	return output, launched
}

// DeviceGLInfo returns the family and revision ids for a device name. On a
// miss both ids are zero and ok is false.
func (b *Builder) DeviceGLInfo(name string) (family, revision int, ok bool) {
	id, ok := b.table.Lookup(name)
	if !ok {
		return 0, 0, false
	}
	return id.Family, id.Revision, true
}

// SupportedDevices returns the host devices minus the disabled ones.
func (b *Builder) SupportedDevices(ctx context.Context) ([]string, error) {
	return devices.Supported(ctx, b.enumerator, b.disabled)
}

// DisabledDevices returns the devices the tool cannot target, sorted.
func (b *Builder) DisabledDevices() []string {
	return slices.Sorted(maps.Keys(b.disabled))
}

func (b *Builder) printCommand(ctx context.Context, cmd vccmd.Command) {
	ctxlog.FromContext(ctx).Debug("Invoking compiler tool.", "command", cmd.String())
	if b.printCmd {
		fmt.Fprintln(b.cmdOut, cmd.String())
	}
}
