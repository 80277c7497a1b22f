// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package pipeline

// ShaderSet holds one optional file path per pipeline stage.
type ShaderSet struct {
	paths [NumStages]string
}

// NewShaderSet builds a set from a stage-to-path map. Stages missing from the
// map stay absent.
func NewShaderSet(paths map[Stage]string) ShaderSet {
	var s ShaderSet
	for stage, p := range paths {
		s.Set(stage, p)
	}
	return s
}

// Get returns the path for a stage, or "" when the stage is absent.
func (s ShaderSet) Get(stage Stage) string {
	if !stage.Valid() {
		return ""
	}
	return s.paths[stage]
}

// Set stores the path for a stage. Setting "" removes the stage.
func (s *ShaderSet) Set(stage Stage, path string) {
	if !stage.Valid() {
		return
	}
	s.paths[stage] = path
}

// Has reports whether the stage has a non-empty path.
func (s ShaderSet) Has(stage Stage) bool {
	return s.Get(stage) != ""
}

// Present returns the stages that have a path, in canonical order.
func (s ShaderSet) Present() []Stage {
	var out []Stage
	for _, stage := range Stages {
		if s.paths[stage] != "" {
			out = append(out, stage)
		}
	}
	return out
}

// IsEmpty reports whether no stage has a path.
func (s ShaderSet) IsEmpty() bool {
	return len(s.Present()) == 0
}

// Paths returns all six slots in canonical order, absent stages as "".
func (s ShaderSet) Paths() [NumStages]string {
	return s.paths
}

// CompileRequest is everything one invocation of the compiler tool needs.
type CompileRequest struct {
	// Shaders are the input files. Absent stages are not part of the pipeline.
	Shaders ShaderSet

	ISADisassembly ShaderSet
	ILDisassembly  ShaderSet
	Statistics     ShaderSet
	Binary         string

	ISARequired    bool
	ILRequired     bool
	StatsRequired  bool
	BinaryRequired bool

	ChipFamily   int
	ChipRevision int
}

// Category names an artifact kind produced by the tool.
type Category string

const (
	CategoryISA    Category = "isa"
	CategoryIL     Category = "il"
	CategoryStats  Category = "stats"
	CategoryBinary Category = "binary"
)

// Expected is one artifact the tool promised to produce.
type Expected struct {
	Category Category
	// Stage is meaningless for CategoryBinary.
	Stage Stage
	Path  string
}

// ExpectedOutputs lists every artifact that must exist after a successful
// compile: each required per-stage category for every present input stage,
// then the binary when required. Absent stages never contribute, whatever
// their output slot holds.
func (r CompileRequest) ExpectedOutputs() []Expected {
	var out []Expected
	perStage := []struct {
		cat      Category
		required bool
		set      ShaderSet
	}{
		{CategoryISA, r.ISARequired, r.ISADisassembly},
		{CategoryIL, r.ILRequired, r.ILDisassembly},
		{CategoryStats, r.StatsRequired, r.Statistics},
	}
	for _, group := range perStage {
		if !group.required {
			continue
		}
		for _, stage := range r.Shaders.Present() {
			out = append(out, Expected{Category: group.cat, Stage: stage, Path: group.set.Get(stage)})
		}
	}
	if r.BinaryRequired {
		out = append(out, Expected{Category: CategoryBinary, Path: r.Binary})
	}
	return out
}
