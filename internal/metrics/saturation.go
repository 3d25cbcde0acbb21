package metrics

import (
	"sync/atomic"

	"github.com/san-kum/boxsim/internal/engine"
)

// Saturation counts frames whose physics hit the sub-step cap, i.e. frames
// where simulated time fell behind wall time.
type Saturation struct {
	maxSteps int
	hits     atomic.Int64
	frames   atomic.Int64
}

func NewSaturation(maxSteps int) *Saturation {
	return &Saturation{maxSteps: maxSteps}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) OnFrame(f engine.FrameStats) {
	s.frames.Add(1)
	if f.Steps >= s.maxSteps {
		s.hits.Add(1)
	}
}

func (s *Saturation) Hits() int64 { return s.hits.Load() }

// Value is the fraction of saturated frames.
func (s *Saturation) Value() float64 {
	n := s.frames.Load()
	if n == 0 {
		return 0
	}
	return float64(s.hits.Load()) / float64(n)
}

func (s *Saturation) Reset() {
	s.hits.Store(0)
	s.frames.Store(0)
}
