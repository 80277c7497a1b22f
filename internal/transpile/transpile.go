// Package transpile turns WGSL stage inputs into GLSL files the compiler tool
// can consume. Anything that is not WGSL passes through untouched.
package transpile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/pipeline"
)

// Extension marks a shader path as WGSL source.
const Extension = ".wgsl"

// LangVersion is the GLSL dialect generated for the compiler tool.
var LangVersion = glsl.Version450

// nagaStage maps pipeline stages to the stages naga can emit. Tessellation and
// geometry have no WGSL counterpart.
var nagaStage = map[pipeline.Stage]ir.ShaderStage{
	pipeline.Vertex:   ir.StageVertex,
	pipeline.Fragment: ir.StageFragment,
	pipeline.Compute:  ir.StageCompute,
}

// IsWGSL reports whether path names a WGSL source file.
func IsWGSL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Prepare returns a copy of shaders in which every WGSL stage is replaced by
// a generated GLSL file under stagingDir. entryPoints optionally names the
// WGSL function to use per stage; otherwise the first entry point of the
// matching stage is taken.
func Prepare(ctx context.Context, shaders pipeline.ShaderSet, entryPoints map[pipeline.Stage]string, stagingDir string) (pipeline.ShaderSet, error) {
	logger := ctxlog.FromContext(ctx)

	out := shaders
	for _, stage := range shaders.Present() {
		src := shaders.Get(stage)
		if !IsWGSL(src) {
			continue
		}

		code, err := File(src, stage, entryPoints[stage])
		if err != nil {
			return pipeline.ShaderSet{}, err
		}

		if err := os.MkdirAll(stagingDir, 0o755); err != nil {
			return pipeline.ShaderSet{}, fmt.Errorf("failed to create staging directory %s: %w", stagingDir, err)
		}
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dst := filepath.Join(stagingDir, fmt.Sprintf("%s.%s.glsl", base, stage.Short()))
		if err := os.WriteFile(dst, []byte(code), 0o644); err != nil {
			return pipeline.ShaderSet{}, fmt.Errorf("failed to write transpiled shader %s: %w", dst, err)
		}

		logger.Debug("Transpiled WGSL stage to GLSL.", "stage", stage, "source", src, "output", dst)
		out.Set(stage, dst)
	}
	return out, nil
}

// File reads a WGSL file and generates GLSL for one stage.
func File(path string, stage pipeline.Stage, entryPoint string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read shader %s: %w", path, err)
	}
	code, err := Source(string(source), stage, entryPoint)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return code, nil
}

// Source generates GLSL for one stage of WGSL source.
func Source(source string, stage pipeline.Stage, entryPoint string) (string, error) {
	want, ok := nagaStage[stage]
	if !ok {
		return "", fmt.Errorf("WGSL has no %s stage", stage)
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return "", err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return "", fmt.Errorf("lowering error: %w", err)
	}

	ep, err := pickEntryPoint(module, want, entryPoint)
	if err != nil {
		return "", fmt.Errorf("%s stage: %w", stage, err)
	}

	code, _, err := glsl.Compile(module, glsl.Options{
		LangVersion: LangVersion,
		EntryPoint:  ep,
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// pickEntryPoint resolves the entry point name. An explicit name must exist
// and belong to the requested stage.
func pickEntryPoint(module *ir.Module, stage ir.ShaderStage, name string) (string, error) {
	for _, ep := range module.EntryPoints {
		if name == "" && ep.Stage == stage {
			return ep.Name, nil
		}
		if name != "" && ep.Name == name {
			if ep.Stage != stage {
				return "", fmt.Errorf("entry point %q has the wrong stage", name)
			}
			return ep.Name, nil
		}
	}
	if name != "" {
		return "", fmt.Errorf("entry point %q not found", name)
	}
	return "", fmt.Errorf("no entry point for this stage")
}
