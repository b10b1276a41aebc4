package kbdctl

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestQuitShortcuts(t *testing.T) {
	tests := []struct {
		name   string
		key    glfw.Key
		action glfw.Action
		mods   glfw.ModifierKey
		quit   bool
	}{
		{"escape", glfw.KeyEscape, glfw.Release, 0, true},
		{"escape pressed", glfw.KeyEscape, glfw.Press, 0, false},
		{"ctrl shift q", glfw.KeyQ, glfw.Release, glfw.ModControl | glfw.ModShift, true},
		{"ctrl q", glfw.KeyQ, glfw.Release, glfw.ModControl, false},
		{"q", glfw.KeyQ, glfw.Release, 0, false},
		{"other key", glfw.KeyA, glfw.Release, glfw.ModControl | glfw.ModShift, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quit := false
			cb := keyCallback(func() { quit = true })
			cb(nil, tt.key, 0, tt.action, tt.mods)
			assert.Equal(t, tt.quit, quit)
		})
	}
}
