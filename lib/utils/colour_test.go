package utils

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestColourValidate(t *testing.T) {
	assert.True(t, ColourValidate("#ff0000ff"))
	assert.True(t, ColourValidate("#00AAbb10"))
	assert.False(t, ColourValidate("#ff0000"))
	assert.False(t, ColourValidate("ff0000ff"))
	assert.False(t, ColourValidate("#ff0000ff00"))
	assert.False(t, ColourValidate("#gg0000ff"))
}

func TestColourParse(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, ColourParse("#ff8000ff"))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, ColourVec4("#ff0000ff"))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, ColourVec4("#000000ff"))
}
