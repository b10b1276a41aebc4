package rendering

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/nemo/helloquad/lib/rendering/gpu"
)

// ReadViewport copies the pixels inside v out of the framebuffer.
func ReadViewport(dev gpu.Device, v Viewport) *image.RGBA {
	return dev.ReadPixels(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))
}

func SavePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", filename, err)
	}

	err = png.Encode(f, img)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("could not encode %s: %w", filename, err)
	}
	return f.Close()
}
