package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	testCases := []struct {
		input    string
		expected Stage
	}{
		{"vertex", Vertex},
		{"vert", Vertex},
		{"tessellation_control", TessControl},
		{"tesc", TessControl},
		{"tese", TessEvaluation},
		{"geometry", Geometry},
		{"frag", Fragment},
		{"compute", Compute},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseStage(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := ParseStage("pixel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"pixel"`)
}

func TestStage_Names(t *testing.T) {
	assert.Equal(t, "tessellation_evaluation", TessEvaluation.String())
	assert.Equal(t, "geom", Geometry.Short())
	assert.Equal(t, "stage(9)", Stage(9).String())
	assert.False(t, Stage(-1).Valid())
}

func TestShaderSet(t *testing.T) {
	s := NewShaderSet(map[Stage]string{Fragment: "a.frag", Vertex: "a.vert"})

	assert.Equal(t, []Stage{Vertex, Fragment}, s.Present())
	assert.True(t, s.Has(Vertex))
	assert.False(t, s.Has(Compute))
	assert.Equal(t, "", s.Get(Stage(42)))

	s.Set(Vertex, "")
	assert.Equal(t, []Stage{Fragment}, s.Present())

	s.Set(Stage(42), "ignored")
	assert.Equal(t, [NumStages]string{"", "", "", "", "a.frag", ""}, s.Paths())

	assert.True(t, ShaderSet{}.IsEmpty())
}

func TestExpectedOutputs(t *testing.T) {
	req := CompileRequest{
		Shaders: NewShaderSet(map[Stage]string{Vertex: "s.vert", Fragment: "s.frag"}),
		ISADisassembly: NewShaderSet(map[Stage]string{
			Vertex:   "v.isa",
			Fragment: "f.isa",
			// Not an input stage, so never expected.
			Compute: "c.isa",
		}),
		ILDisassembly:  NewShaderSet(map[Stage]string{Vertex: "v.il"}),
		Statistics:     NewShaderSet(map[Stage]string{Vertex: "v.txt", Fragment: "f.txt"}),
		Binary:         "prog.bin",
		ISARequired:    true,
		ILRequired:     false,
		StatsRequired:  true,
		BinaryRequired: true,
	}

	want := []Expected{
		{Category: CategoryISA, Stage: Vertex, Path: "v.isa"},
		{Category: CategoryISA, Stage: Fragment, Path: "f.isa"},
		{Category: CategoryStats, Stage: Vertex, Path: "v.txt"},
		{Category: CategoryStats, Stage: Fragment, Path: "f.txt"},
		{Category: CategoryBinary, Path: "prog.bin"},
	}
	if diff := cmp.Diff(want, req.ExpectedOutputs()); diff != "" {
		t.Errorf("ExpectedOutputs() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpectedOutputs_NothingRequired(t *testing.T) {
	req := CompileRequest{
		Shaders:        NewShaderSet(map[Stage]string{Compute: "k.comp"}),
		ISADisassembly: NewShaderSet(map[Stage]string{Compute: "k.isa"}),
	}
	assert.Empty(t, req.ExpectedOutputs())
}

func TestExpectedOutputs_RequiredButUnset(t *testing.T) {
	req := CompileRequest{
		Shaders:        NewShaderSet(map[Stage]string{Compute: "k.comp"}),
		ILRequired:     true,
		BinaryRequired: true,
	}
	got := req.ExpectedOutputs()
	require.Len(t, got, 2)
	assert.Equal(t, Expected{Category: CategoryIL, Stage: Compute, Path: ""}, got[0])
	assert.Equal(t, Expected{Category: CategoryBinary, Path: ""}, got[1])
}
