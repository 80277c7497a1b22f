// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model loads glcompile job files. A job file is HCL and may contain
// any number of these top-level blocks:
//
//	locals { ... }                  values visible as local.<name> in every file
//	tool { path, print_cmd, ... }   compiler tool settings, at most one per workspace
//	device "<name>" { ... }         extra device family/revision pairs
//	job "<name>" { ... }            one compile of one shader pipeline
//
// All .hcl files found below the given paths form one Workspace. Expressions
// may use local, env and a small set of string functions.
//
// # Core Concepts
//
//   - Workspace: every definition found across the loaded files.
//
//   - Job: a shader pipeline, a target device and the outputs to produce. A job
//     turns into a pipeline.CompileRequest once its device is resolved.
//
//   - FSInfo: the source file of a definition, used for error messages and to
//     resolve relative paths.
package model
