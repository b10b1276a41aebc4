package kbdctl

import (
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// SetupShortcutKeys makes Ctrl+Shift+Q and Escape call quit.
func SetupShortcutKeys(window *glfw.Window, quit func()) {
	window.SetKeyCallback(keyCallback(quit))
}

func keyCallback(quit func()) glfw.KeyCallback {
	return func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Release {
			return
		}
		if key == glfw.KeyEscape ||
			(key == glfw.KeyQ &&
				mods&glfw.ModControl != 0 &&
				mods&glfw.ModShift != 0) {
			slog.Info("told to quit, exiting", "module", "kbdctl")
			quit()
		}
	}
}
