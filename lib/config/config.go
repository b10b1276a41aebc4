package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "github.com/goccy/go-yaml"
	"github.com/nemo/helloquad/lib/utils"
)

type Config struct {
	Window      WindowCfg
	ClearColour string `yaml:"clear_colour"`
	QuadColour  string `yaml:"quad_colour"`
	Shaders     ShadersCfg
	Api         *ApiCfg
}

type WindowCfg struct {
	Title        string
	Width        int
	Height       int
	Resizable    bool
	SwapInterval int `yaml:"swap_interval"`
	Hidden       bool
}

// ShadersCfg points at shader templates on disk that replace the built-in
// ones. Relative paths are resolved against the config file.
type ShadersCfg struct {
	Version  string
	Vertex   CfgPath
	Fragment CfgPath
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

// Default is the configuration used without a config file: a red square
// on black in an 800x600 window.
func Default() *Config {
	return &Config{
		Window: WindowCfg{
			Title:        "Hello Quad",
			Width:        800,
			Height:       600,
			Resizable:    true,
			SwapInterval: 1,
		},
		ClearColour: "#000000ff",
		QuadColour:  "#ff0000ff",
		Shaders: ShadersCfg{
			Version: "410 core",
		},
	}
}

// Parse reads a config file on top of Default and validates it.
func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", filename, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f, yaml.DisallowUnknownField())
	cfg := Default()
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	err := c.Window.Validate()
	if err != nil {
		return fmt.Errorf("window is invalid: %w", err)
	}
	if !utils.ColourValidate(c.ClearColour) {
		return fmt.Errorf("clear_colour %q is not a valid RGBA hex colour", c.ClearColour)
	}
	if !utils.ColourValidate(c.QuadColour) {
		return fmt.Errorf("quad_colour %q is not a valid RGBA hex colour", c.QuadColour)
	}
	if c.Shaders.Version == "" {
		return fmt.Errorf("shaders.version must not be empty")
	}
	if c.Api != nil && c.Api.Bind == "" {
		return fmt.Errorf("api.bind must be specified when api is configured")
	}
	return nil
}

func (w *WindowCfg) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("size must be positive, got %dx%d", w.Width, w.Height)
	}
	if w.SwapInterval < 0 {
		return fmt.Errorf("swap_interval must be nonnegative")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Window:\n")
	b.WriteString(fmt.Sprintf("  %s (%dx%d, swap interval %d)\n", c.Window.Title, c.Window.Width, c.Window.Height, c.Window.SwapInterval))

	b.WriteString("\nColours:\n")
	b.WriteString(fmt.Sprintf("  clear %s\n", c.ClearColour))
	b.WriteString(fmt.Sprintf("  quad  %s\n", c.QuadColour))

	b.WriteString("\nShaders:\n")
	b.WriteString(fmt.Sprintf("  version %s\n", c.Shaders.Version))
	if c.Shaders.Vertex != "" {
		b.WriteString(fmt.Sprintf("  vertex   %s\n", c.Shaders.Vertex))
	}
	if c.Shaders.Fragment != "" {
		b.WriteString(fmt.Sprintf("  fragment %s\n", c.Shaders.Fragment))
	}

	if c.Api != nil {
		b.WriteString(fmt.Sprintf("\nApi:\n  %s\n", c.Api.Bind))
	}

	return b.String()
}
