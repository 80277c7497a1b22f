package app

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects what Run does.
type Mode int

const (
	// ModeCompile runs every job of the workspace.
	ModeCompile Mode = iota
	// ModeGLVersion prints the tool's OpenGL version.
	ModeGLVersion
	// ModeListDevices prints the devices that can be targeted.
	ModeListDevices
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	JobsPath string // hcl job files

	// ToolPath and PrintCmd take precedence over the job files' tool block.
	ToolPath string
	PrintCmd bool

	ReportURL       string
	ReportNamespace string
	ReportInsecure  bool // skip TLS verification of ReportURL

	// UploadURL receives the artifacts of successful jobs; empty disables uploads.
	UploadURL     string
	UploadTimeout time.Duration

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int

	Mode Mode
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Mode == ModeCompile && cfg.JobsPath == "" {
		return nil, errors.New("JobsPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("WorkerCount must not be negative, got %d", cfg.WorkerCount)
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.UploadTimeout < 0 {
		return nil, fmt.Errorf("UploadTimeout must not be negative, got %s", cfg.UploadTimeout)
	}
	if cfg.ReportNamespace == "" {
		cfg.ReportNamespace = "/"
	}

	return &cfg, nil
}
