package viz

import (
	"sync"
	"sync/atomic"

	"github.com/san-kum/boxsim/internal/engine"
)

// TerminalSurface hands the loop a braille canvas sized to the terminal and
// delivers each finished frame, rendered with colors, to sink. Resize and
// Close may be called from any goroutine.
type TerminalSurface struct {
	mu     sync.Mutex
	cols   int
	rows   int
	closed bool
	canvas *Canvas
	sink   func(frame string)
	frames atomic.Uint64
}

func NewTerminalSurface(sink func(frame string)) *TerminalSurface {
	return &TerminalSurface{sink: sink}
}

// SetSink replaces the frame receiver.
func (s *TerminalSurface) SetSink(sink func(frame string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Resize sets the canvas size in terminal cells. Zero disables rendering.
func (s *TerminalSurface) Resize(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols, s.rows = cols, rows
}

// Close makes every further Acquire report no canvas.
func (s *TerminalSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *TerminalSurface) Acquire() (engine.Canvas, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.cols <= 0 || s.rows <= 0 {
		return nil, false
	}
	if s.canvas == nil || s.canvas.Width != s.cols || s.canvas.Height != s.rows {
		s.canvas = NewCanvas(s.cols, s.rows)
	} else {
		s.canvas.Clear()
	}
	return s.canvas, true
}

func (s *TerminalSurface) Present(c engine.Canvas) {
	cv, ok := c.(*Canvas)
	if !ok {
		return
	}
	s.frames.Add(1)
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(cv.Render())
	}
}

// Frames is the number of presented frames.
func (s *TerminalSurface) Frames() uint64 { return s.frames.Load() }

// HeadlessSurface renders into a fixed size canvas and keeps only the last
// frame as plain text.
type HeadlessSurface struct {
	canvas *Canvas
	mu     sync.Mutex
	last   string
	frames atomic.Uint64
}

func NewHeadlessSurface(cols, rows int) *HeadlessSurface {
	return &HeadlessSurface{canvas: NewCanvas(cols, rows)}
}

func (s *HeadlessSurface) Acquire() (engine.Canvas, bool) {
	s.canvas.Clear()
	return s.canvas, true
}

func (s *HeadlessSurface) Present(c engine.Canvas) {
	cv, ok := c.(*Canvas)
	if !ok {
		return
	}
	frame := cv.String()
	s.mu.Lock()
	s.last = frame
	s.mu.Unlock()
	s.frames.Add(1)
}

// Last returns the most recently presented frame.
func (s *HeadlessSurface) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *HeadlessSurface) Frames() uint64 { return s.frames.Load() }

// Canvas is the canvas of the last frame. Read it only after the loop has
// stopped; the loop keeps drawing into it.
func (s *HeadlessSurface) Canvas() *Canvas { return s.canvas }
