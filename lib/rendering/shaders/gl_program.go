package shaders

import (
	"fmt"

	"github.com/nemo/helloquad/lib/rendering/gpu"
)

// Shader is a compiled shader object. The caller owns it until Delete.
type Shader struct {
	dev   gpu.Device
	id    uint32
	Stage gpu.ShaderStage
}

func (s *Shader) ID() uint32 {
	return s.id
}

// Delete releases the shader object. It is safe to call more than once.
func (s *Shader) Delete() {
	if s == nil || s.id == 0 {
		return
	}
	s.dev.DeleteShader(s.id)
	s.id = 0
}

// Program is a successfully linked program object.
type Program struct {
	dev gpu.Device
	id  uint32
}

func (p *Program) ID() uint32 {
	return p.id
}

func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// AttribLocation looks up an active input attribute of the program.
func (p *Program) AttribLocation(name string) (uint32, error) {
	loc := p.dev.AttribLocation(p.id, name)
	if loc == -1 {
		return 0, &gpu.LookupError{Attribute: name}
	}
	return uint32(loc), nil
}

func (p *Program) Delete() {
	if p == nil || p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}

// Compile creates a shader object of the given stage from source. A shader
// that fails to compile is released before the error is returned.
func Compile(dev gpu.Device, stage gpu.ShaderStage, source string) (*Shader, error) {
	id := dev.CreateShader(stage)
	if id == 0 {
		return nil, &gpu.AllocationError{Object: stage.String() + " shader"}
	}

	dev.ShaderSource(id, source)
	dev.CompileShader(id)

	if !dev.ShaderCompiled(id) {
		clog := dev.ShaderInfoLog(id)
		dev.DeleteShader(id)
		return nil, &gpu.CompileError{Stage: stage, Log: clog}
	}

	return &Shader{dev: dev, id: id, Stage: stage}, nil
}

// Link attaches both shaders to a new program and links it. On success the
// program becomes the current program; on failure nothing is left behind
// except the shaders, which still belong to the caller.
func Link(dev gpu.Device, vertexShader, fragmentShader *Shader) (*Program, error) {
	id := dev.CreateProgram()
	if id == 0 {
		return nil, &gpu.AllocationError{Object: "program"}
	}

	dev.AttachShader(id, vertexShader.id)
	dev.AttachShader(id, fragmentShader.id)
	dev.LinkProgram(id)

	if !dev.ProgramLinked(id) {
		logmsg := dev.ProgramInfoLog(id)
		dev.DetachShader(id, vertexShader.id)
		dev.DetachShader(id, fragmentShader.id)
		dev.DeleteProgram(id)
		return nil, &gpu.LinkError{Log: logmsg}
	}

	dev.UseProgram(id)

	return &Program{dev: dev, id: id}, nil
}

// Build compiles and links a program from two sources. The intermediate
// shader objects are released whether or not linking succeeds.
func Build(dev gpu.Device, vertexShaderSource, fragmentShaderSource string) (*Program, error) {
	vertexShader, err := Compile(dev, gpu.VertexStage, vertexShaderSource)
	if err != nil {
		return nil, err
	}
	defer vertexShader.Delete()

	fragmentShader, err := Compile(dev, gpu.FragmentStage, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	defer fragmentShader.Delete()

	program, err := Link(dev, vertexShader, fragmentShader)
	if err != nil {
		return nil, err
	}

	dev.DetachShader(program.id, vertexShader.id)
	dev.DetachShader(program.id, fragmentShader.id)

	return program, nil
}

// BuildGLProgram renders the embedded quad shaders with data and builds
// them. Templates can be replaced beforehand through s.Override.
func BuildGLProgram(dev gpu.Device, s *Shaderer, data *ShaderData) (*Program, error) {
	vertexShader, err := s.GetShaderSource(VertexShaderName, data)
	if err != nil {
		return nil, fmt.Errorf("could not get vertex shader: %w", err)
	}

	fragmentShader, err := s.GetShaderSource(FragmentShaderName, data)
	if err != nil {
		return nil, fmt.Errorf("could not get fragment shader: %w", err)
	}

	program, err := Build(dev, vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("could not init shader: %w", err)
	}

	return program, nil
}
