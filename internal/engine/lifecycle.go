package engine

import "sync"

type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
	// StateStopping means stop was requested but the loop goroutine has not exited yet.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// lifecycle is the only world state shared with other goroutines besides the
// message queue. One mutex and condition guard the flags and the pause handshake.
type lifecycle struct {
	mu      sync.Mutex
	cond    *sync.Cond
	running bool
	paused  bool
	alive   bool
	done    chan struct{}
	err     error
}

func newLifecycle() *lifecycle {
	l := &lifecycle{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *lifecycle) stateLocked() State {
	switch {
	case l.running && l.paused:
		return StatePaused
	case l.running:
		return StateRunning
	case l.alive:
		return StateStopping
	default:
		return StateStopped
	}
}

func (l *lifecycle) state() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

// start marks the world running and returns the channel the loop closes on exit.
func (l *lifecycle) start() (chan struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running || l.alive {
		return nil, &StateError{Op: "start", State: l.stateLocked()}
	}
	l.running = true
	l.paused = false
	l.alive = true
	l.err = nil
	l.done = make(chan struct{})
	return l.done, nil
}

// stop clears both flags and wakes a paused loop so it can observe the stop.
func (l *lifecycle) stop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	was := l.running
	l.running = false
	l.paused = false
	l.cond.Broadcast()
	return was
}

func (l *lifecycle) pause() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return &StateError{Op: "pause", State: l.stateLocked()}
	}
	l.paused = true
	return nil
}

func (l *lifecycle) resume() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return &StateError{Op: "resume", State: l.stateLocked()}
	}
	l.paused = false
	l.cond.Broadcast()
	return nil
}

func (l *lifecycle) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *lifecycle) isPaused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// waitWhilePaused blocks the loop goroutine until resumed or stopped. Spurious
// wake-ups re-check the flags. It reports whether the loop had been paused.
func (l *lifecycle) waitWhilePaused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.paused {
		return false
	}
	for l.paused && l.running {
		l.cond.Wait()
	}
	return true
}

// fail stops the world with err as the loop result.
func (l *lifecycle) fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.err = err
	l.running = false
	l.paused = false
}

// exited is called by the loop goroutine as its last action.
func (l *lifecycle) exited() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.running = false
	l.alive = false
	close(l.done)
}

// wait returns the done channel of the current or last loop.
func (l *lifecycle) wait() (chan struct{}, func() error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.done, func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.err
	}
}
