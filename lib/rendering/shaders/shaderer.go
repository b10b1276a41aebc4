package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed *.frag *.vert
var templateDir embed.FS

const (
	VertexShaderName   = "quad.vert"
	FragmentShaderName = "quad.frag"

	DefaultVersion = "410 core"
)

var DefaultColour = mgl32.Vec4{1, 0, 0, 1}

type Shaderer struct {
	templates *template.Template
}

var funcs = template.FuncMap{
	"vec4": glslVec4,
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error
	s.templates, err = template.New("").Funcs(funcs).ParseFS(templateDir, "*.frag", "*.vert")

	return s, err
}

// ShaderData contains stuff that gets passed to the shader templates
type ShaderData struct {
	Version string
	Colour  mgl32.Vec4
}

func DefaultShaderData() *ShaderData {
	return &ShaderData{
		Version: DefaultVersion,
		Colour:  DefaultColour,
	}
}

// Override replaces the template called name with the contents of the file
// at path. The file is parsed as a template too.
func (s *Shaderer) Override(name string, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read shader %s: %w", path, err)
	}
	_, err = s.templates.New(name).Parse(string(content))
	if err != nil {
		return fmt.Errorf("could not parse shader %s: %w", path, err)
	}
	return nil
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %w", err)
	}

	return b.String(), nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		if t.Name() == "" {
			continue
		}
		names = append(names, t.Name())
	}
	return names
}

func glslFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func glslVec4(v mgl32.Vec4) string {
	return fmt.Sprintf("vec4(%s, %s, %s, %s)", glslFloat(v[0]), glslFloat(v[1]), glslFloat(v[2]), glslFloat(v[3]))
}
