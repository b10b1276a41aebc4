package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nemo/helloquad/lib/api"
	"github.com/nemo/helloquad/lib/config"
	"github.com/nemo/helloquad/lib/kbdctl"
	"github.com/nemo/helloquad/lib/metrics"
	"github.com/nemo/helloquad/lib/rendering"
	"github.com/nemo/helloquad/lib/rendering/gpu"
	"github.com/nemo/helloquad/lib/rendering/shaders"
	"github.com/nemo/helloquad/lib/stats"
	"github.com/nemo/helloquad/lib/utils"
	"github.com/nemo/helloquad/lib/windowhost"
)

type Options struct {
	// Snapshot, when set, is where the first frame is written as a PNG
	// before the program stops.
	Snapshot string
	// Frames stops the loop after that many frames; zero means no limit.
	Frames uint64
}

// BuildQuad turns the colour and shader settings of cfg into a Quad.
func BuildQuad(cfg *config.Config) (*rendering.Quad, error) {
	s, err := shaders.NewShaderer()
	if err != nil {
		return nil, fmt.Errorf("could not get shaders: %w", err)
	}
	if cfg.Shaders.Vertex != "" {
		err = s.Override(shaders.VertexShaderName, string(cfg.Shaders.Vertex))
		if err != nil {
			return nil, err
		}
	}
	if cfg.Shaders.Fragment != "" {
		err = s.Override(shaders.FragmentShaderName, string(cfg.Shaders.Fragment))
		if err != nil {
			return nil, err
		}
	}

	quad, err := rendering.NewQuad(s, &shaders.ShaderData{
		Version: cfg.Shaders.Version,
		Colour:  utils.ColourVec4(cfg.QuadColour),
	})
	if err != nil {
		return nil, err
	}
	quad.ClearColour = utils.ColourVec4(cfg.ClearColour)
	return quad, nil
}

// SetupFailureKind names the error class of a failed surface setup, for
// the setup failures metric.
func SetupFailureKind(err error) string {
	var (
		allocErr   *gpu.AllocationError
		compileErr *gpu.CompileError
		linkErr    *gpu.LinkError
		lookupErr  *gpu.LookupError
		driverErr  *gpu.DriverError
	)
	switch {
	case errors.As(err, &allocErr):
		return "allocation"
	case errors.As(err, &compileErr):
		return "compile"
	case errors.As(err, &linkErr):
		return "link"
	case errors.As(err, &lookupErr):
		return "lookup"
	case errors.As(err, &driverErr):
		return "driver"
	default:
		return "other"
	}
}

// instrumented wraps a Surface with metrics and stats.
type instrumented struct {
	*rendering.Renderer
	stats *stats.Stats
}

func (i *instrumented) OnSurfaceCreated(width, height int) error {
	err := i.Renderer.OnSurfaceCreated(width, height)
	if err != nil {
		metrics.SetupFailures.WithLabelValues(SetupFailureKind(err)).Inc()
	}
	return err
}

func (i *instrumented) OnSurfaceChanged(width, height int) {
	i.Renderer.OnSurfaceChanged(width, height)
	metrics.SurfaceChanges.Inc()
}

func (i *instrumented) OnDrawFrame() error {
	start := time.Now()
	err := i.Renderer.OnDrawFrame()
	if err != nil {
		return err
	}
	metrics.FrameDuration.Observe(time.Since(start).Seconds())
	metrics.FramesDrawn.Inc()
	i.stats.Update(i.Renderer.Viewport())
	return nil
}

// Run opens the window and draws until it is closed. It must be called
// from a goroutine locked to its OS thread.
func Run(cfg *config.Config, opts Options) error {
	log := slog.With("module", "app")

	quad, err := BuildQuad(cfg)
	if err != nil {
		return err
	}

	windowCfg := cfg.Window
	if opts.Snapshot != "" {
		windowCfg.Hidden = true
	}
	host, err := windowhost.New(&windowCfg)
	if err != nil {
		return fmt.Errorf("could not open window: %w", err)
	}
	defer host.Close()

	var shutdownRequested atomic.Bool
	shutdown := func() { shutdownRequested.Store(true) }

	st := stats.New()
	if cfg.Api != nil {
		a := api.ServeInBackground(cfg.Api, st, shutdown)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = a.Shutdown(ctx)
		}()
	}

	kbdctl.SetupShortcutKeys(host.Window, shutdown)

	dev := gpu.NewGLDevice()
	renderer := rendering.NewRenderer(dev, quad)
	defer renderer.Close()
	surface := &instrumented{Renderer: renderer, stats: st}

	var frames uint64
	hooks := windowhost.Hooks{
		ShouldStop: shutdownRequested.Load,
		AfterDraw: func() error {
			frames++
			if opts.Snapshot != "" {
				img := rendering.ReadViewport(dev, renderer.Viewport())
				err := rendering.SavePNG(opts.Snapshot, img)
				if err != nil {
					return err
				}
				log.Info(fmt.Sprintf("wrote snapshot to %s", opts.Snapshot))
				shutdown()
			}
			if opts.Frames != 0 && frames >= opts.Frames {
				shutdown()
			}
			return nil
		},
	}

	err = host.Run(surface, hooks)
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("stopped after %d frames", frames))
	return nil
}
