// Package hclutil holds small helpers shared by the job-file loader.
package hclutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Environ is the source of the `env` variable.
var Environ = os.Environ

// FindUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   fmt.Sprintf("Only one %q block is allowed; the first is at %s.", name, found.DefRange),
				Subject:  &block.DefRange,
			})
			continue
		}
		found = block
	}

	return found, diags
}

// Functions are the functions available in job-file expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"upper":   stdlib.UpperFunc,
		"lower":   stdlib.LowerFunc,
		"format":  stdlib.FormatFunc,
		"join":    stdlib.JoinFunc,
		"replace": stdlib.ReplaceFunc,
	}
}

// EnvObject exposes the process environment as an object value.
func EnvObject() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vars)
}

// NewEvalContext builds the evaluation context for job-file expressions.
func NewEvalContext(locals map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"local": cty.ObjectVal(locals),
			"env":   EnvObject(),
		},
		Functions: Functions(),
	}
}

// StringAttrs evaluates every attribute of body as a string.
func StringAttrs(body hcl.Body, evalCtx *hcl.EvalContext) (map[string]string, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	out := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid value",
				Detail:   fmt.Sprintf("Attribute %q must be a string.", name),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		out[name] = val.AsString()
	}
	return out, diags
}
