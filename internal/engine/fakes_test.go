package engine

import (
	"sync"
	"time"
)

type fakePhysics struct {
	mu      sync.Mutex
	steps   int
	clears  int
	gravity []Vec2
	bodies  int
	lastDt  float64
	lastVel int
	lastPos int
}

func (p *fakePhysics) CreateBody(BodySpec) BodyHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies++
	return BodyHandle(p.bodies)
}

func (p *fakePhysics) Step(dt float64, vel, pos int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps++
	p.lastDt, p.lastVel, p.lastPos = dt, vel, pos
}

func (p *fakePhysics) ClearForces() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clears++
}

func (p *fakePhysics) SetGravity(g Vec2) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gravity = append(p.gravity, g)
}

func (p *fakePhysics) lastGravity() Vec2 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.gravity) == 0 {
		return Vec2{}
	}
	return p.gravity[len(p.gravity)-1]
}

func (p *fakePhysics) counts() (steps, clears int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.steps, p.clears
}

type canvasOp struct {
	Kind  string
	Text  string
	X, Y  float64
	Paint Paint
}

type recordCanvas struct {
	w, h int
	ops  []canvasOp
}

func newRecordCanvas(w, h int) *recordCanvas { return &recordCanvas{w: w, h: h} }

func (c *recordCanvas) Size() (int, int) { return c.w, c.h }

func (c *recordCanvas) Rect(x0, y0, x1, y1 float64, p Paint) {
	c.ops = append(c.ops, canvasOp{Kind: "rect", X: x1, Y: y1, Paint: p})
}

func (c *recordCanvas) Line(x0, y0, x1, y1 float64, p Paint) {
	c.ops = append(c.ops, canvasOp{Kind: "line", Paint: p})
}

func (c *recordCanvas) Circle(cx, cy, r float64, p Paint) {
	c.ops = append(c.ops, canvasOp{Kind: "circle", X: cx, Y: cy, Paint: p})
}

func (c *recordCanvas) Path(points []Vec2, closed bool, p Paint) {
	c.ops = append(c.ops, canvasOp{Kind: "path", Paint: p})
}

func (c *recordCanvas) Text(x, y float64, s string, p Paint) {
	c.ops = append(c.ops, canvasOp{Kind: "text", Text: s, X: x, Y: y, Paint: p})
}

// fakeSurface hands out recording canvases. With a gate set, Acquire reports
// on entered and blocks until the gate is released.
type fakeSurface struct {
	mu        sync.Mutex
	presented int
	last      *recordCanvas
	gate      chan struct{}
	entered   chan struct{}
	once      sync.Once
}

func newGatedSurface() *fakeSurface {
	return &fakeSurface{gate: make(chan struct{}), entered: make(chan struct{})}
}

func (s *fakeSurface) Acquire() (Canvas, bool) {
	if s.gate != nil {
		s.once.Do(func() { close(s.entered) })
		<-s.gate
	}
	return newRecordCanvas(100, 100), true
}

func (s *fakeSurface) Present(c Canvas) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presented++
	s.last = c.(*recordCanvas)
}

func (s *fakeSurface) presentedFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

func (s *fakeSurface) lastOps() []canvasOp {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	return append([]canvasOp(nil), s.last.ops...)
}

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type frameLog struct {
	mu     sync.Mutex
	frames []FrameStats
}

func (l *frameLog) OnFrame(s FrameStats) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, s)
}

func (l *frameLog) all() []FrameStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FrameStats(nil), l.frames...)
}

func (l *frameLog) last() FrameStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.frames) == 0 {
		return FrameStats{}
	}
	return l.frames[len(l.frames)-1]
}

type stubActor struct {
	name string
	err  error
	log  *[]string
}

func (a *stubActor) Draw(c Canvas, p *Paint) error {
	*a.log = append(*a.log, a.name)
	if a.err != nil {
		return a.err
	}
	c.Circle(0, 0, 1, *p)
	return nil
}
