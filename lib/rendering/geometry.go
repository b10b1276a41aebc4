package rendering

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nemo/helloquad/lib/rendering/gpu"
	"github.com/nemo/helloquad/lib/rendering/shaders"
)

const (
	PositionAttribute = "a_Position"

	componentsPerVertex = 2
)

// Geometry is a vertex buffer bound to a program's position attribute.
type Geometry struct {
	dev gpu.Device

	VAO   uint32
	VBO   uint32
	Count int32
}

// Flatten lays out vertices as x0, y0, x1, y1, ...
func Flatten(vertices []mgl32.Vec2) []float32 {
	data := make([]float32, 0, len(vertices)*componentsPerVertex)
	for _, v := range vertices {
		data = append(data, v[0], v[1])
	}
	return data
}

// Upload copies vertices into a new static buffer and points the program's
// a_Position attribute at it. The buffer stays bound to the returned VAO.
func Upload(dev gpu.Device, program *shaders.Program, vertices []mgl32.Vec2) (*Geometry, error) {
	g := &Geometry{dev: dev}

	// the core profile refuses to draw without a vertex array object
	g.VAO = dev.CreateVertexArray()
	if g.VAO == 0 {
		return nil, &gpu.AllocationError{Object: "vertex array"}
	}
	dev.BindVertexArray(g.VAO)

	g.VBO = dev.CreateBuffer()
	if g.VBO == 0 {
		g.Delete()
		return nil, &gpu.AllocationError{Object: "buffer"}
	}
	dev.BindArrayBuffer(g.VBO)

	data := Flatten(vertices)
	dev.ArrayBufferData(data, gpu.StaticDraw)

	vertAttrib, err := program.AttribLocation(PositionAttribute)
	if err != nil {
		g.Delete()
		return nil, err
	}
	dev.VertexAttribPointer(vertAttrib, componentsPerVertex, 0, 0)
	dev.EnableVertexAttribArray(vertAttrib)

	g.Count = int32(len(data) / componentsPerVertex)
	return g, nil
}

func (g *Geometry) Bind() {
	g.dev.BindVertexArray(g.VAO)
}

// Delete releases the buffer and vertex array. It is safe to call more
// than once.
func (g *Geometry) Delete() {
	if g == nil {
		return
	}
	if g.VBO != 0 {
		g.dev.DeleteBuffer(g.VBO)
		g.VBO = 0
	}
	if g.VAO != 0 {
		g.dev.DeleteVertexArray(g.VAO)
		g.VAO = 0
	}
	g.Count = 0
}
