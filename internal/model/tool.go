// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// Tool holds the compiler tool settings of a workspace.
type Tool struct {
	// Path is empty when the platform default should be used.
	Path     string
	PrintCmd bool

	FSInformation *FSInfo
}

type hclTool struct {
	Path     *string `hcl:"path,optional"`
	PrintCmd *bool   `hcl:"print_cmd,optional"`
}

// newToolFromHCL decodes a tool block. A relative path that names a file is
// resolved against the job file; a bare name is kept for PATH lookup.
func newToolFromHCL(block *hcl.Block, evalCtx *hcl.EvalContext, filePath string) (*Tool, hcl.Diagnostics) {
	var parsed hclTool
	diags := gohcl.DecodeBody(block.Body, evalCtx, &parsed)
	if diags.HasErrors() {
		return nil, diags
	}

	tool := &Tool{FSInformation: NewFSInfo(filePath)}
	if parsed.Path != nil {
		tool.Path = *parsed.Path
		if strings.ContainsAny(tool.Path, `/\`) {
			tool.Path = tool.FSInformation.Resolve(tool.Path)
		}
	}
	setBool(&tool.PrintCmd, parsed.PrintCmd)

	return tool, diags
}
