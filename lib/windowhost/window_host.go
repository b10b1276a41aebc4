package windowhost

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/nemo/helloquad/lib/config"
	"github.com/nemo/helloquad/lib/rendering"
)

// Hooks let the caller observe and stop the frame loop. Both are optional.
type Hooks struct {
	// AfterDraw runs after each successful OnDrawFrame, before the swap.
	AfterDraw func() error
	// ShouldStop is checked before every frame.
	ShouldStop func() bool
}

// WindowHost owns a glfw window whose GL context drives a rendering.Surface.
type WindowHost struct {
	Window *glfw.Window

	cfg *config.WindowCfg
	log *slog.Logger

	surface rendering.Surface
}

// New opens the window and makes its context current on the calling
// thread, which must stay locked for the lifetime of the host.
func New(cfg *config.WindowCfg) (*WindowHost, error) {
	w := &WindowHost{
		cfg: cfg,
		log: slog.With("module", "window"),
	}

	w.log.Debug("Initializing window")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfwBool(cfg.Resizable))
	glfw.WindowHint(glfw.Visible, glfwBool(!cfg.Hidden))
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	w.Window = window

	window.MakeContextCurrent()
	glfw.SwapInterval(cfg.SwapInterval)

	err = rendering.Init()
	if err != nil {
		w.Close()
		return nil, err
	}

	return w, nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// FramebufferSize is the drawable size in pixels, which differs from the
// window size on high-dpi screens.
func (w *WindowHost) FramebufferSize() (int, int) {
	return w.Window.GetFramebufferSize()
}

// Run drives surface until the window is closed, hooks.ShouldStop returns
// true or a callback fails. All callbacks run on the calling thread.
func (w *WindowHost) Run(surface rendering.Surface, hooks Hooks) error {
	w.surface = surface

	width, height := w.FramebufferSize()
	err := surface.OnSurfaceCreated(width, height)
	if err != nil {
		return fmt.Errorf("surface setup failed: %w", err)
	}
	surface.OnSurfaceChanged(width, height)

	// glfw delivers this from PollEvents, so it stays on this thread
	w.Window.SetFramebufferSizeCallback(func(_ *glfw.Window, width int, height int) {
		w.log.Debug(fmt.Sprintf("framebuffer resized to %dx%d", width, height))
		surface.OnSurfaceChanged(width, height)
	})
	defer w.Window.SetFramebufferSizeCallback(nil)

	for !w.Window.ShouldClose() {
		if hooks.ShouldStop != nil && hooks.ShouldStop() {
			break
		}

		err = surface.OnDrawFrame()
		if err != nil {
			return fmt.Errorf("draw failed: %w", err)
		}
		if hooks.AfterDraw != nil {
			err = hooks.AfterDraw()
			if err != nil {
				return err
			}
		}

		w.Window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func (w *WindowHost) Close() {
	if w.Window != nil {
		w.Window.Destroy()
		w.Window = nil
	}
	glfw.Terminate()
}
