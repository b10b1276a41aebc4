package stats

import (
	"testing"
	"time"

	"github.com/nemo/helloquad/lib/rendering"
	"github.com/stretchr/testify/assert"
)

func TestFPS(t *testing.T) {
	s := New()
	vp := rendering.CenteredSquare(800, 600)

	for i := 0; i < 30; i++ {
		s.update(s.start.Add(time.Duration(i)*10*time.Millisecond), vp)
	}
	snap := s.Snapshot()
	assert.Equal(t, uint64(30), snap.Frames)
	assert.Zero(t, snap.FPS, "no full second has passed")
	assert.Equal(t, vp, snap.Viewport)

	s.update(s.start.Add(time.Second), vp)
	snap = s.Snapshot()
	assert.Equal(t, uint64(31), snap.FPS)
	assert.InDelta(t, 1.0, snap.Uptime, 1e-9)
}

func TestWsClients(t *testing.T) {
	s := New()
	s.SetWsClients(3)
	assert.Equal(t, 3, s.Snapshot().WsClients)
}
