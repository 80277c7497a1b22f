// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/glcompile/internal/devices"
)

// Device is a device identity declared in a job file.
type Device struct {
	Name     string
	Identity devices.Identity

	FSInformation *FSInfo
}

type hclDevice struct {
	Family   int `hcl:"family"`
	Revision int `hcl:"revision"`
}

func newDeviceFromHCL(block *hcl.Block, evalCtx *hcl.EvalContext, filePath string) (*Device, hcl.Diagnostics) {
	var parsed hclDevice
	diags := gohcl.DecodeBody(block.Body, evalCtx, &parsed)
	if diags.HasErrors() {
		return nil, diags
	}
	return &Device{
		Name:          block.Labels[0],
		Identity:      devices.Identity{Family: parsed.Family, Revision: parsed.Revision},
		FSInformation: NewFSInfo(filePath),
	}, diags
}
