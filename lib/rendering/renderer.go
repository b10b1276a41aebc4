package rendering

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nemo/helloquad/lib/rendering/gpu"
	"github.com/nemo/helloquad/lib/rendering/shaders"
)

// Surface is what a rendering surface host drives. OnSurfaceCreated is
// called once the context exists, OnSurfaceChanged on every resize and
// OnDrawFrame once per refresh, all from the thread owning the context.
type Surface interface {
	OnSurfaceCreated(width, height int) error
	OnSurfaceChanged(width, height int)
	OnDrawFrame() error
}

var (
	QuadVertices = []mgl32.Vec2{
		{-0.5, 0.5},
		{-0.5, -0.5},
		{0.5, 0.5},
		{0.5, -0.5},
	}

	Black = mgl32.Vec4{0, 0, 0, 1}
)

// Quad is everything the renderer draws: one program and one strip.
type Quad struct {
	VertexSource   string
	FragmentSource string
	ClearColour    mgl32.Vec4
	Vertices       []mgl32.Vec2
}

// NewQuad renders the shader templates with data and uses the fixed quad
// vertices on a black background.
func NewQuad(s *shaders.Shaderer, data *shaders.ShaderData) (*Quad, error) {
	vertexSource, err := s.GetShaderSource(shaders.VertexShaderName, data)
	if err != nil {
		return nil, fmt.Errorf("could not get vertex shader: %w", err)
	}
	fragmentSource, err := s.GetShaderSource(shaders.FragmentShaderName, data)
	if err != nil {
		return nil, fmt.Errorf("could not get fragment shader: %w", err)
	}
	return &Quad{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		ClearColour:    Black,
		Vertices:       QuadVertices,
	}, nil
}

// DefaultQuad is the red square on black.
func DefaultQuad() (*Quad, error) {
	s, err := shaders.NewShaderer()
	if err != nil {
		return nil, fmt.Errorf("could not get shaders: %w", err)
	}
	return NewQuad(s, shaders.DefaultShaderData())
}

// Renderer draws a Quad on a Device. It implements Surface.
type Renderer struct {
	dev  gpu.Device
	quad *Quad
	log  *slog.Logger

	program  *shaders.Program
	geometry *Geometry
	viewport Viewport
}

func NewRenderer(dev gpu.Device, quad *Quad) *Renderer {
	return &Renderer{
		dev:  dev,
		quad: quad,
		log:  slog.With("module", "renderer"),
	}
}

func (r *Renderer) OnSurfaceCreated(width, height int) error {
	// a recreated surface gets fresh objects
	r.Close()

	program, err := shaders.Build(r.dev, r.quad.VertexSource, r.quad.FragmentSource)
	if err != nil {
		return fmt.Errorf("could not init shaders: %w", err)
	}

	geometry, err := Upload(r.dev, program, r.quad.Vertices)
	if err != nil {
		program.Delete()
		return fmt.Errorf("could not init vertex buffers: %w", err)
	}

	r.dev.ClearColor(r.quad.ClearColour)

	if err := gpu.CheckError(r.dev, "surface created"); err != nil {
		geometry.Delete()
		program.Delete()
		return err
	}

	r.program = program
	r.geometry = geometry
	r.log.Debug(fmt.Sprintf("surface created at %dx%d with %d vertices", width, height, geometry.Count))
	return nil
}

func (r *Renderer) OnSurfaceChanged(width, height int) {
	r.viewport = CenteredSquare(width, height)
	r.viewport.Apply(r.dev)
	r.log.Debug(fmt.Sprintf("surface changed to %dx%d, viewport %+v", width, height, r.viewport))
}

func (r *Renderer) OnDrawFrame() error {
	if r.program == nil {
		return fmt.Errorf("draw frame before surface was created")
	}
	r.program.Use()
	r.geometry.Bind()
	r.dev.Clear()
	r.dev.DrawArrays(gpu.TriangleStrip, 0, r.geometry.Count)
	return gpu.CheckError(r.dev, "draw frame")
}

func (r *Renderer) Viewport() Viewport {
	return r.viewport
}

func (r *Renderer) Close() {
	r.geometry.Delete()
	r.geometry = nil
	r.program.Delete()
	r.program = nil
}
