package metrics

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/san-kum/boxsim/internal/engine"
)

// FrameSummary aggregates the frames seen by a FrameRecorder.
type FrameSummary struct {
	Frames       int
	MeanFPS      float64
	MinFPS       float64
	MaxFPS       float64
	P95FrameTime time.Duration
	TotalSteps   int
	Messages     int
}

// FrameRecorder keeps a bounded history of frame timings. OnFrame runs on
// the loop goroutine; Summary and History may be called from anywhere.
type FrameRecorder struct {
	mu       sync.Mutex
	capacity int
	fps      []float64
	elapsed  []time.Duration
	summary  FrameSummary
	sumFPS   float64
}

func NewFrameRecorder(capacity int) *FrameRecorder {
	if capacity <= 0 {
		capacity = 600
	}
	r := &FrameRecorder{capacity: capacity}
	r.Reset()
	return r
}

func (r *FrameRecorder) Name() string { return "frames" }

func (r *FrameRecorder) OnFrame(s engine.FrameStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.fps) == r.capacity {
		r.fps = r.fps[1:]
		r.elapsed = r.elapsed[1:]
	}
	r.fps = append(r.fps, s.FPS)
	r.elapsed = append(r.elapsed, s.Elapsed)

	r.summary.Frames++
	r.summary.TotalSteps += s.Steps
	r.summary.Messages += s.Messages
	r.sumFPS += s.FPS
	r.summary.MinFPS = math.Min(r.summary.MinFPS, s.FPS)
	r.summary.MaxFPS = math.Max(r.summary.MaxFPS, s.FPS)
}

// Summary covers every frame since the last Reset; P95FrameTime only the retained history.
func (r *FrameRecorder) Summary() FrameSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.summary
	if out.Frames == 0 {
		out.MinFPS, out.MaxFPS = 0, 0
		return out
	}
	out.MeanFPS = r.sumFPS / float64(out.Frames)

	sorted := append([]time.Duration(nil), r.elapsed...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(0.95*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	out.P95FrameTime = sorted[idx]
	return out
}

// History returns the retained FPS readings, oldest first.
func (r *FrameRecorder) History() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.fps...)
}

// Elapsed returns the retained frame lengths, oldest first.
func (r *FrameRecorder) Elapsed() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.elapsed...)
}

func (r *FrameRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fps = make([]float64, 0, r.capacity)
	r.elapsed = make([]time.Duration, 0, r.capacity)
	r.summary = FrameSummary{MinFPS: math.Inf(1), MaxFPS: math.Inf(-1)}
	r.sumFPS = 0
}
