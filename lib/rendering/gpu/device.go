package gpu

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type ShaderStage uint32

const (
	VertexStage   ShaderStage = gl.VERTEX_SHADER
	FragmentStage ShaderStage = gl.FRAGMENT_SHADER
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

type Topology uint32

const (
	Triangles     Topology = gl.TRIANGLES
	TriangleStrip Topology = gl.TRIANGLE_STRIP
)

type BufferUsage uint32

const (
	StaticDraw BufferUsage = gl.STATIC_DRAW
)

// Device is the subset of the GL API the renderer needs. Object names are
// the driver's; zero means the driver refused to allocate one.
// A Device is bound to one GL context and must only be used from the
// thread that owns it.
type Device interface {
	CreateShader(stage ShaderStage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// AttribLocation returns -1 when the program has no active attribute
	// with that name.
	AttribLocation(program uint32, name string) int32

	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	CreateBuffer() uint32
	BindArrayBuffer(buffer uint32)
	ArrayBufferData(data []float32, usage BufferUsage)
	DeleteBuffer(buffer uint32)
	VertexAttribPointer(index uint32, size int32, stride int32, offset int)
	EnableVertexAttribArray(index uint32)

	ClearColor(c mgl32.Vec4)
	Clear()
	Viewport(x, y, width, height int32)
	DrawArrays(mode Topology, first, count int32)

	// ReadPixels returns the RGBA contents of the given window rectangle
	// with rows ordered top to bottom.
	ReadPixels(x, y, width, height int32) *image.RGBA

	// Error returns and clears one pending error flag, or NoError.
	Error() uint32
}
