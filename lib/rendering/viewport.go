package rendering

import "github.com/nemo/helloquad/lib/rendering/gpu"

type Viewport struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CenteredSquare returns the largest square that fits in a width x height
// surface, centred in it.
func CenteredSquare(width, height int) Viewport {
	size := min(width, height)
	if size < 0 {
		size = 0
	}
	return Viewport{
		X:      (width - size) / 2,
		Y:      (height - size) / 2,
		Width:  size,
		Height: size,
	}
}

func (v Viewport) Apply(dev gpu.Device) {
	dev.Viewport(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))
}

// Center is the pixel at the middle of the viewport, in window coordinates
// with the origin at the bottom left.
func (v Viewport) Center() (int, int) {
	return v.X + v.Width/2, v.Y + v.Height/2
}
