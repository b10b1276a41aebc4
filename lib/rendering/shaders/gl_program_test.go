package shaders

import (
	"testing"

	"github.com/nemo/helloquad/lib/rendering/gpu"
	"github.com/nemo/helloquad/lib/rendering/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVertexSource = `#version 410 core
in vec4 a_Position;
void main() {
  gl_Position = a_Position;
}
`
	testFragmentSource = `#version 410 core
out vec4 fragColour;
void main() {
  fragColour = vec4(1.0, 0.0, 0.0, 1.0);
}
`
	brokenVertexSource = `#version 410 core
in vec4 a_Position;
void main() {
  gl_Position = a_Position
}
`
)

func TestCompileAndLink(t *testing.T) {
	dev := gputest.New(4, 4)

	vs, err := Compile(dev, gpu.VertexStage, testVertexSource)
	require.NoError(t, err)
	fs, err := Compile(dev, gpu.FragmentStage, testFragmentSource)
	require.NoError(t, err)

	program, err := Link(dev, vs, fs)
	require.NoError(t, err)
	assert.NotZero(t, program.ID())
	assert.Equal(t, program.ID(), dev.CurrentProgram(), "linked program should be current")

	loc, err := program.AttribLocation("a_Position")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), loc)
	assert.NoError(t, gpu.CheckError(dev, "link"))
}

func TestCompileSyntaxError(t *testing.T) {
	dev := gputest.New(4, 4)

	vs, err := Compile(dev, gpu.VertexStage, brokenVertexSource)
	require.Error(t, err)
	assert.Nil(t, vs)

	var compileErr *gpu.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, gpu.VertexStage, compileErr.Stage)
	assert.Contains(t, compileErr.Log, "syntax error")
	assert.Zero(t, dev.Live(), "failed shader must be released")
}

func TestCompileAllocationFailure(t *testing.T) {
	dev := gputest.New(4, 4)
	dev.FailShaderAlloc = true

	_, err := Compile(dev, gpu.FragmentStage, testFragmentSource)
	var allocErr *gpu.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, "fragment shader", allocErr.Object)
}

func TestLinkSameStage(t *testing.T) {
	dev := gputest.New(4, 4)

	first, err := Compile(dev, gpu.VertexStage, testVertexSource)
	require.NoError(t, err)
	second, err := Compile(dev, gpu.VertexStage, testVertexSource)
	require.NoError(t, err)

	program, err := Link(dev, first, second)
	assert.Nil(t, program)
	var linkErr *gpu.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.NotEmpty(t, linkErr.Log)
	assert.Zero(t, dev.CurrentProgram())

	// only the two shaders the caller owns remain
	assert.Equal(t, 2, dev.Live())
	first.Delete()
	second.Delete()
	assert.Zero(t, dev.Live())
}

func TestLinkAllocationFailure(t *testing.T) {
	dev := gputest.New(4, 4)
	vs, err := Compile(dev, gpu.VertexStage, testVertexSource)
	require.NoError(t, err)
	fs, err := Compile(dev, gpu.FragmentStage, testFragmentSource)
	require.NoError(t, err)

	dev.FailProgramAlloc = true
	_, err = Link(dev, vs, fs)
	var allocErr *gpu.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, "program", allocErr.Object)
}

func TestAttribLocationMissing(t *testing.T) {
	dev := gputest.New(4, 4)
	program, err := Build(dev, `#version 410 core
in vec4 position;
void main() {
  gl_Position = position;
}
`, testFragmentSource)
	require.NoError(t, err)

	_, err = program.AttribLocation("a_Position")
	var lookupErr *gpu.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "a_Position", lookupErr.Attribute)
}

func TestBuildReleasesShaders(t *testing.T) {
	dev := gputest.New(4, 4)

	program, err := Build(dev, testVertexSource, testFragmentSource)
	require.NoError(t, err)
	assert.Equal(t, 1, dev.Live(), "only the program should survive")

	program.Delete()
	program.Delete()
	assert.Zero(t, dev.Live())
}

func TestBuildFailureLeavesNothing(t *testing.T) {
	dev := gputest.New(4, 4)

	_, err := Build(dev, testVertexSource, "void main() {\n  fragColour = vec4(1.0)\n}\n")
	var compileErr *gpu.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, gpu.FragmentStage, compileErr.Stage)
	assert.Zero(t, dev.Live())
}
