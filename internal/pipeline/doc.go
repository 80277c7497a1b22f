// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package pipeline describes a graphics pipeline as the external compiler tool
// sees it: six fixed stage slots holding input shader paths, the parallel
// output slots for every artifact category and the flags selecting which
// categories the caller expects.
//
// # Core Concepts
//
//   - Stage: one of the six shader roles, always iterated in the canonical
//     order vertex, tessellation-control, tessellation-evaluation, geometry,
//     fragment, compute. The tool parses its argument by position, so this
//     order is part of the wire contract.
//
//   - ShaderSet: one path per stage. An empty path means the stage is not part
//     of the pipeline. The same shape is reused for input shaders and for every
//     per-stage output category.
//
//   - CompileRequest: the inputs, the outputs and the target device, bundled
//     for a single invocation of the tool.
//
// An output path is meaningful only when its input stage is present and its
// category is required. Consumers must skip absent stages rather than treat
// their outputs as missing.
package pipeline
