package stats

import (
	"sync"
	"time"

	"github.com/nemo/helloquad/lib/rendering"
)

type Report struct {
	Frames    uint64             `json:"frames"`
	Uptime    float64            `json:"uptime"`
	FPS       uint64             `json:"fps"`
	Viewport  rendering.Viewport `json:"viewport"`
	WsClients int                `json:"ws_clients"`
}

// Stats is written by the render loop and read by the api.
type Stats struct {
	report Report

	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	mu           sync.Mutex
}

func New() *Stats {
	s := &Stats{}
	s.start = time.Now()
	s.frameTimer = s.start
	return s
}

// Update records one drawn frame.
func (s *Stats) Update(viewport rendering.Viewport) {
	s.update(time.Now(), viewport)
}

func (s *Stats) update(now time.Time, viewport rendering.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.report.Frames++
	s.frameCounter++
	if now.Sub(s.frameTimer) >= 1*time.Second {
		s.report.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.report.Uptime = float64(now.Sub(s.start).Nanoseconds()) / 1e9
	s.report.Viewport = viewport
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.WsClients = n
}

func (s *Stats) Snapshot() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}
