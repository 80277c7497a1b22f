package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/glcompile/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("glcompile", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
glcompile - builds OpenGL shader programs with the external compiler tool.

Usage:
  glcompile [options] [JOBS_PATH]
  glcompile -gl-version [-tool PATH]
  glcompile -list-devices [options] [JOBS_PATH]

Arguments:
  JOBS_PATH
    Path to a single .hcl job file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	jobsFlag := flagSet.String("jobs", "", "Path to the job file or directory.")
	jFlag := flagSet.String("j", "", "Path to the job file or directory (shorthand).")
	toolFlag := flagSet.String("tool", "", "Path to the compiler tool. Defaults to the job files' tool block, then the platform default.")
	printCmdFlag := flagSet.Bool("print-cmd", false, "Print every compiler tool command line before running it.")
	workersFlag := flagSet.Int("workers", 1, "Number of jobs compiled concurrently.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	reportURLFlag := flagSet.String("report-url", "", "socket.io server that receives one event per job result.")
	reportNSFlag := flagSet.String("report-namespace", "/", "socket.io namespace for -report-url.")
	reportInsecureFlag := flagSet.Bool("report-insecure", false, "Skip TLS certificate verification for -report-url.")
	uploadURLFlag := flagSet.String("upload-url", "", "HTTP prefix that receives the artifacts of successful jobs via PUT.")
	uploadTimeoutFlag := flagSet.Duration("upload-timeout", 0, "Timeout of a single artifact upload. 0 uses 30s.")
	glVersionFlag := flagSet.Bool("gl-version", false, "Print the compiler tool's OpenGL version and exit.")
	listDevicesFlag := flagSet.Bool("list-devices", false, "Print the devices that can be targeted and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *jobsFlag != "" {
		path = *jobsFlag
	} else if *jFlag != "" {
		path = *jFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Jobs path determined.", "path", path)

	mode := app.ModeCompile
	switch {
	case *glVersionFlag && *listDevicesFlag:
		return nil, false, &ExitError{Code: 2, Message: "-gl-version and -list-devices are mutually exclusive"}
	case *glVersionFlag:
		mode = app.ModeGLVersion
	case *listDevicesFlag:
		mode = app.ModeListDevices
	}

	if path == "" && mode == app.ModeCompile {
		slog.Debug("No jobs path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must be at least 1"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		JobsPath:        path,
		ToolPath:        *toolFlag,
		PrintCmd:        *printCmdFlag,
		ReportURL:       *reportURLFlag,
		ReportNamespace: *reportNSFlag,
		ReportInsecure:  *reportInsecureFlag,
		UploadURL:       *uploadURLFlag,
		UploadTimeout:   *uploadTimeoutFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		WorkerCount:     *workersFlag,
		Mode:            mode,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
