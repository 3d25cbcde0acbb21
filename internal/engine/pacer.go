package engine

import "time"

// Pacer measures one loop iteration and sleeps the rest of the target frame length.
type Pacer struct {
	clock Clock
	start time.Time
	fps   float64
}

func NewPacer(clock Clock) *Pacer {
	if clock == nil {
		clock = SystemClock
	}
	return &Pacer{clock: clock}
}

func (p *Pacer) BeginFrame() {
	p.start = p.clock.Now()
}

// EndFrameAndSleep sleeps until target has elapsed since BeginFrame (no-op
// on overrun) and returns the actual length of the frame, sleep included.
func (p *Pacer) EndFrameAndSleep(target time.Duration) time.Duration {
	elapsed := p.clock.Now().Sub(p.start)
	if diff := target - elapsed; diff > 0 {
		p.clock.Sleep(diff)
	}

	actual := p.clock.Now().Sub(p.start)
	// A zero length frame keeps the previous reading rather than reporting +Inf.
	if actual > 0 {
		p.fps = float64(time.Second) / float64(actual)
	}
	return actual
}

// FPS achieved by the last measured frame.
func (p *Pacer) FPS() float64 { return p.fps }
