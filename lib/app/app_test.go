package app

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nemo/helloquad/lib/config"
	"github.com/nemo/helloquad/lib/metrics"
	"github.com/nemo/helloquad/lib/rendering"
	"github.com/nemo/helloquad/lib/rendering/gpu"
	"github.com/nemo/helloquad/lib/rendering/gpu/gputest"
	"github.com/nemo/helloquad/lib/stats"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuadDefaults(t *testing.T) {
	quad, err := BuildQuad(config.Default())
	require.NoError(t, err)

	assert.Equal(t, rendering.Black, quad.ClearColour)
	assert.Equal(t, rendering.QuadVertices, quad.Vertices)
	assert.Contains(t, quad.VertexSource, "gl_Position = a_Position;")
	assert.Contains(t, quad.FragmentSource, "vec4(1.0, 0.0, 0.0, 1.0)")
}

func TestBuildQuadOverrides(t *testing.T) {
	dir := t.TempDir()
	frag := filepath.Join(dir, "quad.frag")
	require.NoError(t, os.WriteFile(frag, []byte(`#version {{ .Version }}
out vec4 colour;
void main() {
  colour = {{ vec4 .Colour }};
}
`), 0o644))

	cfg := config.Default()
	cfg.QuadColour = "#0000ffff"
	cfg.ClearColour = "#ffffffff"
	cfg.Shaders.Version = "330 core"
	cfg.Shaders.Fragment = config.CfgPath(frag)

	quad, err := BuildQuad(cfg)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, quad.ClearColour)
	assert.Contains(t, quad.VertexSource, "#version 330 core")
	assert.Contains(t, quad.FragmentSource, "colour = vec4(0.0, 0.0, 1.0, 1.0);")

	cfg.Shaders.Vertex = config.CfgPath(filepath.Join(dir, "missing.vert"))
	_, err = BuildQuad(cfg)
	assert.Error(t, err)
}

func TestSetupFailureKind(t *testing.T) {
	assert.Equal(t, "allocation", SetupFailureKind(fmt.Errorf("wrapped: %w", &gpu.AllocationError{Object: "buffer"})))
	assert.Equal(t, "compile", SetupFailureKind(&gpu.CompileError{}))
	assert.Equal(t, "link", SetupFailureKind(&gpu.LinkError{}))
	assert.Equal(t, "lookup", SetupFailureKind(&gpu.LookupError{}))
	assert.Equal(t, "driver", SetupFailureKind(&gpu.DriverError{}))
	assert.Equal(t, "other", SetupFailureKind(fmt.Errorf("nope")))
}

func TestInstrumentedSurface(t *testing.T) {
	quad, err := BuildQuad(config.Default())
	require.NoError(t, err)

	dev := gputest.New(800, 600)
	st := stats.New()
	surface := &instrumented{Renderer: rendering.NewRenderer(dev, quad), stats: st}

	drawn := testutil.ToFloat64(metrics.FramesDrawn)
	changes := testutil.ToFloat64(metrics.SurfaceChanges)

	require.NoError(t, surface.OnSurfaceCreated(800, 600))
	surface.OnSurfaceChanged(800, 600)
	require.NoError(t, surface.OnDrawFrame())
	require.NoError(t, surface.OnDrawFrame())

	assert.Equal(t, drawn+2, testutil.ToFloat64(metrics.FramesDrawn))
	assert.Equal(t, changes+1, testutil.ToFloat64(metrics.SurfaceChanges))

	report := st.Snapshot()
	assert.Equal(t, uint64(2), report.Frames)
	assert.Equal(t, rendering.Viewport{X: 100, Y: 0, Width: 600, Height: 600}, report.Viewport)

	img := rendering.ReadViewport(dev, report.Viewport)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(300, 300))
}

func TestInstrumentedSetupFailure(t *testing.T) {
	quad, err := BuildQuad(config.Default())
	require.NoError(t, err)

	dev := gputest.New(8, 8)
	dev.FailProgramAlloc = true
	surface := &instrumented{Renderer: rendering.NewRenderer(dev, quad), stats: stats.New()}

	before := testutil.ToFloat64(metrics.SetupFailures.WithLabelValues("allocation"))
	assert.Error(t, surface.OnSurfaceCreated(8, 8))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SetupFailures.WithLabelValues("allocation")))
}
