// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/glcompile/internal/devices"
	"github.com/specialistvlad/glcompile/internal/hclutil"
	"github.com/specialistvlad/glcompile/internal/pipeline"
)

// DefaultOutputDir is used when a job sets no output_dir. It is relative to
// the job file.
const DefaultOutputDir = "out"

// Job is one compile of a shader pipeline for one device.
type Job struct {
	Name   string
	Device string

	OutputDir string

	ISA    bool
	IL     bool
	Stats  bool
	Binary bool

	// Explicit output paths. Missing ones are derived from OutputDir.
	BinaryFile string
	ISAFiles   pipeline.ShaderSet
	ILFiles    pipeline.ShaderSet
	StatsFiles pipeline.ShaderSet

	Shaders     pipeline.ShaderSet
	EntryPoints map[pipeline.Stage]string

	FSInformation *FSInfo
}

// hclJob is the decoding target of a job block body.
type hclJob struct {
	Device      string       `hcl:"device"`
	OutputDir   *string      `hcl:"output_dir,optional"`
	ISA         *bool        `hcl:"isa,optional"`
	IL          *bool        `hcl:"il,optional"`
	Stats       *bool        `hcl:"stats,optional"`
	Binary      *bool        `hcl:"binary,optional"`
	BinaryFile  *string      `hcl:"binary_file,optional"`
	Shaders     *hclStageMap `hcl:"shaders,block"`
	EntryPoints *hclStageMap `hcl:"entry_points,block"`
	ISAFiles    *hclStageMap `hcl:"isa_files,block"`
	ILFiles     *hclStageMap `hcl:"il_files,block"`
	StatsFiles  *hclStageMap `hcl:"stats_files,block"`
}

// hclStageMap is a block of stage = "value" attributes. Stages may be given
// by long (vertex) or short (vert) name.
type hclStageMap struct {
	Body hcl.Body `hcl:",remain"`
}

func (m *hclStageMap) decode(evalCtx *hcl.EvalContext) (map[pipeline.Stage]string, hcl.Diagnostics) {
	if m == nil {
		return nil, nil
	}
	values, diags := hclutil.StringAttrs(m.Body, evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, _ := m.Body.JustAttributes()
	out := make(map[pipeline.Stage]string, len(values))
	for name, v := range values {
		stage, err := pipeline.ParseStage(name)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown pipeline stage",
				Detail:   err.Error(),
				Subject:  &attrs[name].NameRange,
			})
			continue
		}
		if _, dup := out[stage]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate pipeline stage",
				Detail:   fmt.Sprintf("Stage %s is set more than once.", stage),
				Subject:  &attrs[name].NameRange,
			})
			continue
		}
		out[stage] = v
	}
	return out, diags
}

// newJobFromHCL decodes a job block.
func newJobFromHCL(block *hcl.Block, evalCtx *hcl.EvalContext, filePath string) (*Job, hcl.Diagnostics) {
	var parsed hclJob
	diags := gohcl.DecodeBody(block.Body, evalCtx, &parsed)
	if diags.HasErrors() {
		return nil, diags
	}

	fsInfo := NewFSInfo(filePath)
	job := &Job{
		Name:          block.Labels[0],
		Device:        parsed.Device,
		OutputDir:     fsInfo.Resolve(DefaultOutputDir),
		ISA:           true,
		FSInformation: fsInfo,
	}
	if parsed.OutputDir != nil {
		job.OutputDir = fsInfo.Resolve(*parsed.OutputDir)
	}
	setBool(&job.ISA, parsed.ISA)
	setBool(&job.IL, parsed.IL)
	setBool(&job.Stats, parsed.Stats)
	setBool(&job.Binary, parsed.Binary)
	if parsed.BinaryFile != nil {
		job.BinaryFile = fsInfo.Resolve(*parsed.BinaryFile)
	}

	shaders, d := parsed.Shaders.decode(evalCtx)
	diags = append(diags, d...)
	entryPoints, d := parsed.EntryPoints.decode(evalCtx)
	diags = append(diags, d...)
	isaFiles, d := parsed.ISAFiles.decode(evalCtx)
	diags = append(diags, d...)
	ilFiles, d := parsed.ILFiles.decode(evalCtx)
	diags = append(diags, d...)
	statsFiles, d := parsed.StatsFiles.decode(evalCtx)
	diags = append(diags, d...)
	if diags.HasErrors() {
		return nil, diags
	}

	job.Shaders = resolvedSet(fsInfo, shaders)
	job.ISAFiles = resolvedSet(fsInfo, isaFiles)
	job.ILFiles = resolvedSet(fsInfo, ilFiles)
	job.StatsFiles = resolvedSet(fsInfo, statsFiles)
	job.EntryPoints = entryPoints

	if job.Shaders.IsEmpty() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Job has no shaders",
			Detail:   fmt.Sprintf("Job %q must set at least one stage in its shaders block.", job.Name),
			Subject:  &block.DefRange,
		})
		return nil, diags
	}

	return job, diags
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func resolvedSet(fsInfo *FSInfo, paths map[pipeline.Stage]string) pipeline.ShaderSet {
	var s pipeline.ShaderSet
	for stage, p := range paths {
		s.Set(stage, fsInfo.Resolve(p))
	}
	return s
}

// StagingDir is where generated GLSL for WGSL inputs is written.
func (j *Job) StagingDir() string {
	return filepath.Join(j.OutputDir, "glsl")
}

// Request builds the compile request for the job on the given device.
// Output paths the job leaves unset are derived as
// <output_dir>/<device>_<job>_<stage>.isa|.il|_stats.txt and
// <output_dir>/<device>_<job>.bin.
func (j *Job) Request(id devices.Identity) pipeline.CompileRequest {
	req := pipeline.CompileRequest{
		Shaders:        j.Shaders,
		ISARequired:    j.ISA,
		ILRequired:     j.IL,
		StatsRequired:  j.Stats,
		BinaryRequired: j.Binary,
		ChipFamily:     id.Family,
		ChipRevision:   id.Revision,
	}

	prefix := fmt.Sprintf("%s_%s", j.Device, j.Name)
	req.ISADisassembly = j.derive(j.ISAFiles, j.ISA, prefix, ".isa")
	req.ILDisassembly = j.derive(j.ILFiles, j.IL, prefix, ".il")
	req.Statistics = j.derive(j.StatsFiles, j.Stats, prefix, "_stats.txt")

	req.Binary = j.BinaryFile
	if req.Binary == "" && j.Binary {
		req.Binary = filepath.Join(j.OutputDir, prefix+".bin")
	}
	return req
}

func (j *Job) derive(explicit pipeline.ShaderSet, required bool, prefix, suffix string) pipeline.ShaderSet {
	out := explicit
	if !required {
		return out
	}
	for _, stage := range j.Shaders.Present() {
		if out.Has(stage) {
			continue
		}
		out.Set(stage, filepath.Join(j.OutputDir, fmt.Sprintf("%s_%s%s", prefix, stage.Short(), suffix)))
	}
	return out
}
