package shaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nemo/helloquad/lib/rendering/gpu"
	"github.com/nemo/helloquad/lib/rendering/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSources(t *testing.T) {
	s, err := NewShaderer()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{VertexShaderName, FragmentShaderName}, s.TemplateNames())

	vert, err := s.GetShaderSource(VertexShaderName, DefaultShaderData())
	require.NoError(t, err)
	assert.Equal(t, testVertexSourceRendered, vert)

	frag, err := s.GetShaderSource(FragmentShaderName, DefaultShaderData())
	require.NoError(t, err)
	assert.Contains(t, frag, "#version 410 core\n")
	assert.Contains(t, frag, "fragColour = vec4(1.0, 0.0, 0.0, 1.0);")
}

const testVertexSourceRendered = `#version 410 core

in vec4 a_Position;

void main() {
  gl_Position = a_Position;
}
`

func TestColourFormatting(t *testing.T) {
	assert.Equal(t, "vec4(0.5, 0.25, 1.0, 0.0)", glslVec4(mgl32.Vec4{0.5, 0.25, 1, 0}))
	assert.Equal(t, "2.0", glslFloat(2))
	assert.Equal(t, "-0.75", glslFloat(-0.75))
}

func TestOverride(t *testing.T) {
	s, err := NewShaderer()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "green.frag")
	require.NoError(t, os.WriteFile(path, []byte(`#version {{ .Version }}
out vec4 colour;
void main() {
  colour = vec4(0.0, 1.0, 0.0, 1.0);
}
`), 0o644))
	require.NoError(t, s.Override(FragmentShaderName, path))

	frag, err := s.GetShaderSource(FragmentShaderName, DefaultShaderData())
	require.NoError(t, err)
	assert.Contains(t, frag, "colour = vec4(0.0, 1.0, 0.0, 1.0);")
	assert.Contains(t, frag, "#version 410 core")

	assert.Error(t, s.Override(FragmentShaderName, filepath.Join(t.TempDir(), "missing.frag")))
}

func TestBuildGLProgram(t *testing.T) {
	dev := gputest.New(4, 4)
	s, err := NewShaderer()
	require.NoError(t, err)

	program, err := BuildGLProgram(dev, s, DefaultShaderData())
	require.NoError(t, err)
	defer program.Delete()

	_, err = program.AttribLocation("a_Position")
	assert.NoError(t, err)
	assert.NoError(t, gpu.CheckError(dev, "build"))
}
