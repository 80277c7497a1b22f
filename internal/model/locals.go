// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/glcompile/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// evalLocals evaluates every local attribute. Locals may refer to each other
// in any order; evaluation repeats until no further local resolves.
func evalLocals(attrs map[string]*hcl.Attribute) (map[string]cty.Value, error) {
	resolved := make(map[string]cty.Value, len(attrs))
	pending := slices.Sorted(maps.Keys(attrs))

	for len(pending) > 0 {
		evalCtx := hclutil.NewEvalContext(resolved)

		var next []string
		var lastDiags hcl.Diagnostics
		for _, name := range pending {
			val, diags := attrs[name].Expr.Value(evalCtx)
			if diags.HasErrors() {
				next = append(next, name)
				if lastDiags == nil {
					lastDiags = diags
				}
				continue
			}
			resolved[name] = val
		}

		if len(next) == len(pending) {
			return nil, fmt.Errorf("failed to evaluate local %q: %w", next[0], lastDiags)
		}
		pending = next
	}

	return resolved, nil
}

// collectLocals gathers the attributes of every locals block. A name may be
// defined only once across the workspace.
func collectLocals(into map[string]*hcl.Attribute, block *hcl.Block) hcl.Diagnostics {
	attrs, diags := block.Body.JustAttributes()
	for name, attr := range attrs {
		if prev, exists := into[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate local value",
				Detail:   fmt.Sprintf("Local %q was already defined at %s.", name, prev.NameRange),
				Subject:  &attr.NameRange,
			})
			continue
		}
		into[name] = attr
	}
	return diags
}
