package vccmd

import (
	"strings"
	"testing"

	"github.com/specialistvlad/glcompile/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRequest() pipeline.CompileRequest {
	set := func(prefix string) pipeline.ShaderSet {
		return pipeline.NewShaderSet(map[pipeline.Stage]string{
			pipeline.Vertex:         prefix + "_vert",
			pipeline.TessControl:    prefix + "_tesc",
			pipeline.TessEvaluation: prefix + "_tese",
			pipeline.Geometry:       prefix + "_geom",
			pipeline.Fragment:       prefix + "_frag",
			pipeline.Compute:        prefix + "_comp",
		})
	}
	return pipeline.CompileRequest{
		Shaders:        set("in"),
		ISADisassembly: set("isa"),
		ILDisassembly:  set("il"),
		Statistics:     set("st"),
		Binary:         "prog.bin",
		ChipFamily:     143,
		ChipRevision:   40,
	}
}

func TestEncode_FullPipelineOrder(t *testing.T) {
	cmd := Build("VirtualContext", fullRequest())

	expected := "isa_vert;isa_tesc;isa_tese;isa_geom;isa_frag;isa_comp;" +
		"prog.bin;" +
		"st_vert;st_tesc;st_tese;st_geom;st_frag;st_comp;" +
		"143;40;" +
		"in_vert;in_tesc;in_tese;in_geom;in_frag;in_comp;" +
		";" +
		"il_vert;il_tesc;il_tese;il_geom;il_frag;il_comp;"

	assert.Equal(t, expected, cmd.Arg)
	assert.Equal(t, `VirtualContext "`+expected+`"`, cmd.String())
}

func TestEncode_FieldCountInvariant(t *testing.T) {
	computeOnly := pipeline.CompileRequest{
		Shaders:        pipeline.NewShaderSet(map[pipeline.Stage]string{pipeline.Compute: "k.comp"}),
		ISADisassembly: pipeline.NewShaderSet(map[pipeline.Stage]string{pipeline.Compute: "k.isa"}),
	}

	testCases := []struct {
		name string
		req  pipeline.CompileRequest
	}{
		{name: "empty request", req: pipeline.CompileRequest{}},
		{name: "compute only", req: computeOnly},
		{name: "full pipeline", req: fullRequest()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			arg := Build("vc", tc.req).Arg
			parts := strings.Split(arg, Delimiter)
			require.Len(t, parts, NumFields+1)
			assert.Equal(t, "", parts[NumFields], "argument must end with a delimiter")
		})
	}
}

func TestEncode_ComputeOnlyLeavesOtherFieldsEmpty(t *testing.T) {
	req := pipeline.CompileRequest{
		Shaders:        pipeline.NewShaderSet(map[pipeline.Stage]string{pipeline.Compute: "k.comp"}),
		ISADisassembly: pipeline.NewShaderSet(map[pipeline.Stage]string{pipeline.Compute: "k.isa"}),
		Statistics:     pipeline.NewShaderSet(map[pipeline.Stage]string{pipeline.Compute: "k.stats"}),
		ILDisassembly:  pipeline.NewShaderSet(map[pipeline.Stage]string{pipeline.Compute: "k.il"}),
	}

	fields, err := Decode(Build("vc", req).Arg)
	require.NoError(t, err)

	nonEmpty := map[string]string{}
	for _, f := range fields {
		if f.Value != "" {
			nonEmpty[f.Name] = f.Value
		}
	}
	assert.Equal(t, map[string]string{
		"isa.compute":     "k.isa",
		"stats.compute":   "k.stats",
		"input.compute":   "k.comp",
		"il.compute":      "k.il",
		"device.family":   "0",
		"device.revision": "0",
	}, nonEmpty)
}

func TestVersion_MatchesFixedProbe(t *testing.T) {
	cmd := Version("VirtualContext")
	assert.Equal(t, ";;;;;;;;;;;;;;;;;;;;;version;;;;;;;", cmd.Arg)
	assert.Equal(t, `VirtualContext ";;;;;;;;;;;;;;;;;;;;;version;;;;;;;"`, cmd.String())

	fields, err := Decode(cmd.Arg)
	require.NoError(t, err)
	assert.Equal(t, VersionMarker, fields.Value("version"))
	assert.Equal(t, VersionMarker, fields[VersionIndex].Value)
}

func TestDecode_RoundTripsNames(t *testing.T) {
	req := fullRequest()
	fields, err := Decode(Build("vc", req).Arg)
	require.NoError(t, err)

	assert.Equal(t, "in_frag", fields.Value("input.fragment"))
	assert.Equal(t, "prog.bin", fields.Value("binary"))
	assert.Equal(t, "143", fields.Value("device.family"))
	assert.Equal(t, "40", fields.Value("device.revision"))
	assert.Equal(t, "", fields.Value("version"))
	assert.Equal(t, "", fields.Value("no.such.field"))
}

func TestDecode_RejectsMalformed(t *testing.T) {
	testCases := []string{
		"",
		"a;b;c;",
		strings.Repeat(";", NumFields) + "trailing",
		strings.Repeat(";", NumFields+1),
	}
	for _, arg := range testCases {
		t.Run(arg, func(t *testing.T) {
			_, err := Decode(arg)
			require.Error(t, err)
		})
	}
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "isa.vertex", FieldName(ISAStart))
	assert.Equal(t, "binary", FieldName(BinaryIndex))
	assert.Equal(t, "stats.compute", FieldName(FamilyIndex-1))
	assert.Equal(t, "input.vertex", FieldName(InputStart))
	assert.Equal(t, "version", FieldName(21))
	assert.Equal(t, "il.compute", FieldName(NumFields-1))
	assert.Equal(t, "", FieldName(NumFields))
	assert.Equal(t, "", FieldName(-1))
}

func TestCheckRequest(t *testing.T) {
	require.NoError(t, CheckRequest(fullRequest()))

	req := pipeline.CompileRequest{ISARequired: true}
	req.Shaders.Set(pipeline.Fragment, "shaders/a;b.frag")
	req.ISADisassembly.Set(pipeline.Fragment, "out/a;b.isa")

	err := CheckRequest(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field input.fragment: value "shaders/a;b.frag"`)
	assert.Contains(t, err.Error(), "field isa.fragment")

	_, decodeErr := Decode(Encode(RequestFields(req)))
	assert.Error(t, decodeErr, "an unchecked value shifts every later field")
}
