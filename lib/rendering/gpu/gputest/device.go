// Package gputest provides a software gpu.Device for tests.
//
// It understands just enough shading language to run the renderer's own
// programs: vertex shaders that copy one attribute into gl_Position and
// fragment shaders that write a constant vec4. Triangles are rasterised at
// pixel centres into an in-memory framebuffer.
package gputest

import (
	"fmt"
	"image"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nemo/helloquad/lib/rendering/gpu"
)

type shader struct {
	stage    gpu.ShaderStage
	source   string
	compiled bool
	log      string
	doomed   bool
}

type program struct {
	attached []uint32
	linked   bool
	log      string

	attribs  map[string]int32
	position int32
	colour   mgl32.Vec4
}

type attribPointer struct {
	buffer  uint32
	size    int32
	stride  int32
	offset  int
	enabled bool
}

type vertexArray struct {
	attribs map[uint32]*attribPointer
}

// Device records GL objects and state the way a driver would. Fail* fields
// make the corresponding Create call return 0.
type Device struct {
	FailShaderAlloc  bool
	FailProgramAlloc bool
	FailBufferAlloc  bool

	// DrawCalls counts DrawArrays calls that rendered something.
	DrawCalls int

	width, height int
	pixels        []color.RGBA // bottom-up, like GL

	nextName uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	buffers  map[uint32][]float32
	arrays   map[uint32]*vertexArray

	current     uint32
	arrayBuffer uint32
	boundArray  uint32
	clearColour mgl32.Vec4
	viewport    [4]int32

	errors []uint32
}

// New returns a device with a width x height framebuffer.
func New(width, height int) *Device {
	d := &Device{
		width:    width,
		height:   height,
		pixels:   make([]color.RGBA, width*height),
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32][]float32),
		arrays:   make(map[uint32]*vertexArray),
		viewport: [4]int32{0, 0, int32(width), int32(height)},
	}
	return d
}

func (d *Device) name() uint32 {
	d.nextName++
	return d.nextName
}

func (d *Device) raise(code uint32) {
	d.errors = append(d.errors, code)
}

// Live reports how many shader, program, buffer and vertex array objects
// have not been deleted.
func (d *Device) Live() int {
	return len(d.shaders) + len(d.programs) + len(d.buffers) + len(d.arrays)
}

// CurrentProgram is the name passed to the last UseProgram call.
func (d *Device) CurrentProgram() uint32 {
	return d.current
}

func (d *Device) ViewportRect() [4]int32 {
	return d.viewport
}

// BufferContents returns a copy of a buffer's data.
func (d *Device) BufferContents(buffer uint32) []float32 {
	return append([]float32(nil), d.buffers[buffer]...)
}

// InjectError queues an error flag as if a previous call had failed.
func (d *Device) InjectError(code uint32) {
	d.raise(code)
}

func (d *Device) CreateShader(stage gpu.ShaderStage) uint32 {
	if d.FailShaderAlloc {
		return 0
	}
	if stage != gpu.VertexStage && stage != gpu.FragmentStage {
		d.raise(gpu.InvalidEnum)
		return 0
	}
	n := d.name()
	d.shaders[n] = &shader{stage: stage}
	return n
}

func (d *Device) ShaderSource(name uint32, source string) {
	s, ok := d.shaders[name]
	if !ok {
		d.raise(gpu.InvalidValue)
		return
	}
	s.source = source
}

func (d *Device) CompileShader(name uint32) {
	s, ok := d.shaders[name]
	if !ok {
		d.raise(gpu.InvalidValue)
		return
	}
	s.log = checkSyntax(s.source)
	s.compiled = s.log == ""
}

func (d *Device) ShaderCompiled(name uint32) bool {
	s, ok := d.shaders[name]
	return ok && s.compiled
}

func (d *Device) ShaderInfoLog(name uint32) string {
	if s, ok := d.shaders[name]; ok {
		return s.log
	}
	return ""
}

func (d *Device) DeleteShader(name uint32) {
	s, ok := d.shaders[name]
	if !ok {
		return
	}
	// attached shaders are only flagged, like GL does
	if d.attached(name) {
		s.doomed = true
		return
	}
	delete(d.shaders, name)
}

func (d *Device) attached(name uint32) bool {
	for _, p := range d.programs {
		for _, a := range p.attached {
			if a == name {
				return true
			}
		}
	}
	return false
}

func (d *Device) reap(name uint32) {
	if s, ok := d.shaders[name]; ok && s.doomed && !d.attached(name) {
		delete(d.shaders, name)
	}
}

func (d *Device) CreateProgram() uint32 {
	if d.FailProgramAlloc {
		return 0
	}
	n := d.name()
	d.programs[n] = &program{}
	return n
}

func (d *Device) AttachShader(prog, name uint32) {
	p, ok := d.programs[prog]
	if !ok || d.shaders[name] == nil {
		d.raise(gpu.InvalidValue)
		return
	}
	for _, a := range p.attached {
		if a == name {
			d.raise(gpu.InvalidOperation)
			return
		}
	}
	p.attached = append(p.attached, name)
}

func (d *Device) DetachShader(prog, name uint32) {
	p, ok := d.programs[prog]
	if !ok {
		d.raise(gpu.InvalidValue)
		return
	}
	for i, a := range p.attached {
		if a == name {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			d.reap(name)
			return
		}
	}
	d.raise(gpu.InvalidOperation)
}

func (d *Device) LinkProgram(prog uint32) {
	p, ok := d.programs[prog]
	if !ok {
		d.raise(gpu.InvalidValue)
		return
	}
	p.linked = false
	p.log = ""

	var vertex, fragment []*shader
	for _, name := range p.attached {
		s := d.shaders[name]
		if !s.compiled {
			p.log = "error: linking with uncompiled shader"
			return
		}
		if s.stage == gpu.VertexStage {
			vertex = append(vertex, s)
		} else {
			fragment = append(fragment, s)
		}
	}
	switch {
	case len(vertex) > 1:
		p.log = "error: vertex shader: function `main' is multiply defined"
		return
	case len(fragment) > 1:
		p.log = "error: fragment shader: function `main' is multiply defined"
		return
	case len(vertex) == 0:
		p.log = "error: program lacks a vertex shader"
		return
	case len(fragment) == 0:
		p.log = "error: program lacks a fragment shader"
		return
	}

	p.attribs = make(map[string]int32)
	for i, name := range parseInputs(vertex[0].source) {
		p.attribs[name] = int32(i)
	}
	p.position = -1
	if m := positionRe.FindStringSubmatch(vertex[0].source); m != nil {
		if loc, ok := p.attribs[m[1]]; ok {
			p.position = loc
		}
	}
	p.colour = parseColour(fragment[0].source)
	p.linked = true
}

func (d *Device) ProgramLinked(prog uint32) bool {
	p, ok := d.programs[prog]
	return ok && p.linked
}

func (d *Device) ProgramInfoLog(prog uint32) string {
	if p, ok := d.programs[prog]; ok {
		return p.log
	}
	return ""
}

func (d *Device) UseProgram(prog uint32) {
	if prog != 0 {
		p, ok := d.programs[prog]
		if !ok || !p.linked {
			d.raise(gpu.InvalidOperation)
			return
		}
	}
	d.current = prog
}

func (d *Device) DeleteProgram(prog uint32) {
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	attached := p.attached
	delete(d.programs, prog)
	for _, name := range attached {
		d.reap(name)
	}
	if d.current == prog {
		d.current = 0
	}
}

func (d *Device) AttribLocation(prog uint32, name string) int32 {
	p, ok := d.programs[prog]
	if !ok || !p.linked {
		d.raise(gpu.InvalidOperation)
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) CreateVertexArray() uint32 {
	n := d.name()
	d.arrays[n] = &vertexArray{attribs: make(map[uint32]*attribPointer)}
	return n
}

func (d *Device) BindVertexArray(vao uint32) {
	if _, ok := d.arrays[vao]; !ok && vao != 0 {
		d.raise(gpu.InvalidOperation)
		return
	}
	d.boundArray = vao
}

func (d *Device) DeleteVertexArray(vao uint32) {
	delete(d.arrays, vao)
	if d.boundArray == vao {
		d.boundArray = 0
	}
}

func (d *Device) CreateBuffer() uint32 {
	if d.FailBufferAlloc {
		return 0
	}
	n := d.name()
	d.buffers[n] = nil
	return n
}

func (d *Device) BindArrayBuffer(buffer uint32) {
	if _, ok := d.buffers[buffer]; !ok && buffer != 0 {
		d.raise(gpu.InvalidOperation)
		return
	}
	d.arrayBuffer = buffer
}

func (d *Device) ArrayBufferData(data []float32, usage gpu.BufferUsage) {
	if d.arrayBuffer == 0 {
		d.raise(gpu.InvalidOperation)
		return
	}
	if usage != gpu.StaticDraw {
		d.raise(gpu.InvalidEnum)
		return
	}
	d.buffers[d.arrayBuffer] = append([]float32(nil), data...)
}

func (d *Device) DeleteBuffer(buffer uint32) {
	delete(d.buffers, buffer)
	if d.arrayBuffer == buffer {
		d.arrayBuffer = 0
	}
}

func (d *Device) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	vao := d.arrays[d.boundArray]
	if vao == nil || d.arrayBuffer == 0 {
		d.raise(gpu.InvalidOperation)
		return
	}
	if size < 1 || size > 4 || stride < 0 || offset < 0 {
		d.raise(gpu.InvalidValue)
		return
	}
	a := vao.pointer(index)
	a.buffer = d.arrayBuffer
	a.size = size
	a.stride = stride
	a.offset = offset
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	vao := d.arrays[d.boundArray]
	if vao == nil {
		d.raise(gpu.InvalidOperation)
		return
	}
	vao.pointer(index).enabled = true
}

func (v *vertexArray) pointer(index uint32) *attribPointer {
	a, ok := v.attribs[index]
	if !ok {
		a = &attribPointer{}
		v.attribs[index] = a
	}
	return a
}

func (d *Device) ClearColor(c mgl32.Vec4) {
	d.clearColour = c
}

func (d *Device) Clear() {
	c := toRGBA(d.clearColour)
	for i := range d.pixels {
		d.pixels[i] = c
	}
}

func (d *Device) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		d.raise(gpu.InvalidValue)
		return
	}
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Device) DrawArrays(mode gpu.Topology, first, count int32) {
	if mode != gpu.Triangles && mode != gpu.TriangleStrip {
		d.raise(gpu.InvalidEnum)
		return
	}
	if first < 0 || count < 0 {
		d.raise(gpu.InvalidValue)
		return
	}
	p := d.programs[d.current]
	vao := d.arrays[d.boundArray]
	if p == nil || vao == nil {
		d.raise(gpu.InvalidOperation)
		return
	}
	if p.position < 0 {
		// nothing reaches gl_Position, every vertex lands on the origin
		d.DrawCalls++
		return
	}
	a := vao.attribs[uint32(p.position)]
	if a == nil || !a.enabled {
		d.DrawCalls++
		return
	}

	verts := make([]mgl32.Vec2, 0, count)
	for i := first; i < first+count; i++ {
		v, ok := d.fetch(a, int(i))
		if !ok {
			d.raise(gpu.InvalidOperation)
			return
		}
		verts = append(verts, v)
	}

	colour := toRGBA(p.colour)
	switch mode {
	case gpu.Triangles:
		for i := 0; i+2 < len(verts); i += 3 {
			d.fill(verts[i], verts[i+1], verts[i+2], colour)
		}
	case gpu.TriangleStrip:
		for i := 0; i+2 < len(verts); i++ {
			d.fill(verts[i], verts[i+1], verts[i+2], colour)
		}
	}
	d.DrawCalls++
}

func (d *Device) fetch(a *attribPointer, index int) (mgl32.Vec2, bool) {
	data := d.buffers[a.buffer]
	stride := int(a.stride) / 4
	if stride == 0 {
		stride = int(a.size)
	}
	start := a.offset/4 + index*stride
	if start+int(a.size) > len(data) {
		return mgl32.Vec2{}, false
	}
	v := mgl32.Vec2{data[start], 0}
	if a.size > 1 {
		v[1] = data[start+1]
	}
	return v, true
}

// fill rasterises one triangle given in normalised device coordinates.
// Pixels whose centre lies inside (or on a top/left edge, approximated by
// >= 0) are written, clipped to the viewport.
func (d *Device) fill(a, b, c mgl32.Vec2, colour color.RGBA) {
	vx, vy := float32(d.viewport[0]), float32(d.viewport[1])
	vw, vh := float32(d.viewport[2]), float32(d.viewport[3])
	toWindow := func(p mgl32.Vec2) mgl32.Vec2 {
		return mgl32.Vec2{vx + (p[0]+1)*vw/2, vy + (p[1]+1)*vh/2}
	}
	a, b, c = toWindow(a), toWindow(b), toWindow(c)

	area := edge(a, b, c)
	if area == 0 {
		return
	}

	x0 := max(int(d.viewport[0]), 0)
	y0 := max(int(d.viewport[1]), 0)
	x1 := min(int(d.viewport[0]+d.viewport[2]), d.width)
	y1 := min(int(d.viewport[1]+d.viewport[3]), d.height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			w0 := edge(b, c, p) / area
			w1 := edge(c, a, p) / area
			w2 := edge(a, b, p) / area
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				d.pixels[y*d.width+x] = colour
			}
		}
	}
}

func edge(a, b, p mgl32.Vec2) float32 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

func (d *Device) ReadPixels(x, y, width, height int32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for row := 0; row < int(height); row++ {
		fy := int(y) + row
		for col := 0; col < int(width); col++ {
			fx := int(x) + col
			if fx < 0 || fy < 0 || fx >= d.width || fy >= d.height {
				continue
			}
			img.SetRGBA(col, int(height)-1-row, d.pixels[fy*d.width+fx])
		}
	}
	return img
}

func (d *Device) Error() uint32 {
	if len(d.errors) == 0 {
		return gpu.NoError
	}
	code := d.errors[0]
	d.errors = d.errors[1:]
	return code
}

func toRGBA(c mgl32.Vec4) color.RGBA {
	clamp := func(f float32) uint8 {
		f = mgl32.Clamp(f, 0, 1)
		return uint8(f*255 + 0.5)
	}
	return color.RGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: clamp(c[3])}
}

var (
	inputRe    = regexp.MustCompile(`^(?:layout\s*\([^)]*\)\s*)?(?:in|attribute)\s+\w+\s+(\w+)\s*;`)
	positionRe = regexp.MustCompile(`gl_Position\s*=\s*(\w+)\s*;`)
	colourRe   = regexp.MustCompile(`=\s*vec4\s*\(([^)]*)\)\s*;`)
)

func parseInputs(source string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		if m := inputRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

func parseColour(source string) mgl32.Vec4 {
	var c mgl32.Vec4
	m := colourRe.FindAllStringSubmatch(source, -1)
	if m == nil {
		return c
	}
	parts := strings.Split(m[len(m)-1][1], ",")
	if len(parts) != 4 {
		return c
	}
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return mgl32.Vec4{}
		}
		c[i] = float32(f)
	}
	return c
}

// checkSyntax applies a line-based approximation of a GLSL parser and
// returns an info log, or "" when the source is acceptable.
func checkSyntax(source string) string {
	if !strings.Contains(source, "void main(") {
		return "0:1(1): error: no function with name 'main'"
	}
	depth := 0
	for i, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			return fmt.Sprintf("0:%d(1): error: syntax error, unexpected '}'", i+1)
		}
		last := line[len(line)-1]
		if last != ';' && last != '{' && last != '}' {
			return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected end of line, expecting ';'", i+1, len(raw))
		}
	}
	if depth != 0 {
		return "0:1(1): error: syntax error, unexpected end of file"
	}
	return ""
}
