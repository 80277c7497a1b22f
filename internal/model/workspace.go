// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/devices"
	"github.com/specialistvlad/glcompile/internal/fsutil"
	"github.com/specialistvlad/glcompile/internal/hclutil"
	"github.com/specialistvlad/glcompile/internal/vccmd"
	"github.com/zclconf/go-cty/cty"
)

// FileExtension is the extension of job files.
const FileExtension = ".hcl"

// Workspace is every definition loaded from a set of job files.
type Workspace struct {
	// Tool is nil when no file has a tool block.
	Tool    *Tool
	Devices []*Device
	Jobs    []*Job
	Locals  map[string]cty.Value
}

// jobFileSchema lists the top-level blocks of a job file.
var jobFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "locals"},
		{Type: "tool"},
		{Type: "device", LabelNames: []string{"name"}},
		{Type: "job", LabelNames: []string{"name"}},
	},
}

type parsedFile struct {
	path    string
	content *hcl.BodyContent
}

// Load finds every job file below the given paths and decodes them into one
// Workspace. Paths may be files or directories; missing paths are skipped.
func Load(ctx context.Context, paths ...string) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading job files.", "paths", paths)

	files, err := findJobFiles(paths)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{}
	if len(files) == 0 {
		logger.Warn("No job files found, returning empty workspace.", "paths", paths)
		return ws, nil
	}

	// First pass: parse everything and collect locals, which every file sees.
	parser := hclparse.NewParser()
	parsed := make([]parsedFile, 0, len(files))
	localAttrs := make(map[string]*hcl.Attribute)
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse job file %s: %w", file, diags)
		}
		content, diags := hclFile.Body.Content(jobFileSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode job file %s: %w", file, diags)
		}
		for _, block := range content.Blocks.OfType("locals") {
			if diags := collectLocals(localAttrs, block); diags.HasErrors() {
				return nil, fmt.Errorf("invalid locals in %s: %w", file, diags)
			}
		}
		parsed = append(parsed, parsedFile{path: file, content: content})
	}

	ws.Locals, err = evalLocals(localAttrs)
	if err != nil {
		return nil, err
	}
	evalCtx := hclutil.NewEvalContext(ws.Locals)

	// Second pass: decode the definitions.
	jobNames := make(map[string]string)
	deviceNames := make(map[string]string)
	for _, pf := range parsed {
		toolBlock, diags := hclutil.FindUniqueBlock(pf.content.Blocks, "tool")
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid job file %s: %w", pf.path, diags)
		}
		if toolBlock != nil {
			if ws.Tool != nil {
				return nil, fmt.Errorf("tool block in %s: already defined in %s", pf.path, ws.Tool.FSInformation.FilePath)
			}
			tool, diags := newToolFromHCL(toolBlock, evalCtx, pf.path)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode tool block in %s: %w", pf.path, diags)
			}
			ws.Tool = tool
		}

		for _, block := range pf.content.Blocks.OfType("device") {
			dev, diags := newDeviceFromHCL(block, evalCtx, pf.path)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode device %q in %s: %w", block.Labels[0], pf.path, diags)
			}
			if prev, dup := deviceNames[dev.Name]; dup {
				return nil, fmt.Errorf("device %q in %s: already defined in %s", dev.Name, pf.path, prev)
			}
			deviceNames[dev.Name] = pf.path
			ws.Devices = append(ws.Devices, dev)
		}

		for _, block := range pf.content.Blocks.OfType("job") {
			job, diags := newJobFromHCL(block, evalCtx, pf.path)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode job %q in %s: %w", block.Labels[0], pf.path, diags)
			}
			if prev, dup := jobNames[job.Name]; dup {
				return nil, fmt.Errorf("job %q in %s: already defined in %s", job.Name, pf.path, prev)
			}
			jobNames[job.Name] = pf.path
			ws.Jobs = append(ws.Jobs, job)
		}
	}

	logger.Debug("Job files loaded.", "files", len(files), "jobs", len(ws.Jobs), "devices", len(ws.Devices), "locals", len(ws.Locals))
	return ws, nil
}

// DeviceTable returns base extended with the workspace's devices.
func (w *Workspace) DeviceTable(base *devices.Table) *devices.Table {
	if len(w.Devices) == 0 {
		return base
	}
	extra := make(map[string]devices.Identity, len(w.Devices))
	for _, d := range w.Devices {
		extra[d.Name] = d.Identity
	}
	return base.With(extra)
}

// Validate checks that every job targets a device known to table and that
// none of its paths breaks the tool's positional argument.
func (w *Workspace) Validate(table *devices.Table) error {
	var errs []error
	for _, j := range w.Jobs {
		id, ok := table.Lookup(j.Device)
		if !ok {
			errs = append(errs, fmt.Errorf("job %q in %s: unknown device %q", j.Name, j.FSInformation.FilePath, j.Device))
			continue
		}
		if err := vccmd.CheckRequest(j.Request(id)); err != nil {
			errs = append(errs, fmt.Errorf("job %q in %s: %w", j.Name, j.FSInformation.FilePath, err))
		}
	}
	return errors.Join(errs...)
}

// findJobFiles walks all given paths and returns every job file, each once.
func findJobFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		files, err := fsutil.FindFilesByExtension(path, FileExtension)
		if err != nil {
			return nil, fmt.Errorf("failed to find job files in %s: %w", path, err)
		}
		for _, f := range files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			all = append(all, f)
		}
	}
	return all, nil
}
