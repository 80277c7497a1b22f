// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package pipeline

import "fmt"

// Stage identifies a shader role in a graphics pipeline.
type Stage int

const (
	Vertex Stage = iota
	TessControl
	TessEvaluation
	Geometry
	Fragment
	Compute

	// NumStages is the number of stage slots in every ShaderSet.
	NumStages = 6
)

// Stages lists every stage in canonical order.
var Stages = [NumStages]Stage{Vertex, TessControl, TessEvaluation, Geometry, Fragment, Compute}

var stageNames = [NumStages]string{
	"vertex",
	"tessellation_control",
	"tessellation_evaluation",
	"geometry",
	"fragment",
	"compute",
}

var stageShort = [NumStages]string{"vert", "tesc", "tese", "geom", "frag", "comp"}

// String returns the long, snake_case name used in job files and logs.
func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Short returns the conventional file-extension style abbreviation (vert, frag, ...).
func (s Stage) Short() string {
	if !s.Valid() {
		return fmt.Sprintf("stage%d", int(s))
	}
	return stageShort[s]
}

// Valid reports whether s is one of the six known stages.
func (s Stage) Valid() bool {
	return s >= Vertex && s <= Compute
}

// ParseStage resolves a stage by its long or short name.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if name == stageNames[s] || name == stageShort[s] {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown pipeline stage %q", name)
}
