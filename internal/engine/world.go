package engine

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// World is the loop controller. It owns the physics handle, the actor
// registry and the message queue, and runs the frame sequence on its own
// goroutine between Start and Stop.
type World struct {
	cfg       Config
	physics   Physics
	surface   Surface
	queue     *MessageQueue
	actors    *Registry
	stepper   *Stepper
	pacer     *Pacer
	paint     Paint
	gravity   Vec2
	log       zerolog.Logger
	clock     Clock
	observers []Observer
	life      *lifecycle

	fpsBits atomic.Uint64
	frames  atomic.Uint64
}

type Option func(*World)

func WithLogger(l zerolog.Logger) Option {
	return func(w *World) { w.log = l }
}

func WithClock(c Clock) Option {
	return func(w *World) { w.clock = c }
}

// WithPaint sets the paint the render pass starts from.
func WithPaint(p Paint) Option {
	return func(w *World) { w.paint = p }
}

func WithObserver(o Observer) Option {
	return func(w *World) { w.observers = append(w.observers, o) }
}

// New validates cfg and builds a stopped world. Gravity starts at zero.
func New(cfg Config, physics Physics, surface Surface, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if physics == nil {
		return nil, fmt.Errorf("%w: nil physics", ErrInvalidConfig)
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidConfig)
	}

	w := &World{
		cfg:     cfg,
		physics: physics,
		surface: surface,
		queue:   NewMessageQueue(),
		actors:  NewRegistry(),
		stepper: NewStepper(physics, cfg),
		log:     zerolog.Nop(),
		clock:   SystemClock,
		life:    newLifecycle(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.pacer = NewPacer(w.clock)
	w.log = w.log.With().Str("component", "world").Logger()
	w.physics.SetGravity(w.gravity)
	return w, nil
}

// Post enqueues m for the next message stage of the loop. It is safe for
// concurrent use and accepted in every state; messages posted while stopped
// or paused are applied once the loop runs again.
func (w *World) Post(m Message) error {
	if m == nil {
		return ErrNilMessage
	}
	w.queue.Enqueue(m)
	return nil
}

// Pending reports the number of messages waiting for the next drain.
func (w *World) Pending() int { return w.queue.Len() }

// Start spawns the loop goroutine. Cancelling ctx has the effect of Stop.
func (w *World) Start(ctx context.Context) error {
	if _, err := w.life.start(); err != nil {
		return err
	}
	w.log.Info().Int("fps", w.cfg.TargetFPS).Float64("step", w.cfg.PhysicsStep).Msg("starting game loop")

	go w.loop(ctx)
	return nil
}

// Stop asks the loop to end at the next iteration boundary. In-flight work
// finishes; use Wait to block until the goroutine has exited.
func (w *World) Stop() {
	if w.life.stop() {
		w.log.Info().Msg("stopping game loop")
	}
}

// Pause suspends the loop after the current iteration. Posting still works.
func (w *World) Pause() error {
	if err := w.life.pause(); err != nil {
		return err
	}
	w.log.Info().Msg("pausing game loop")
	return nil
}

func (w *World) Resume() error {
	if err := w.life.resume(); err != nil {
		return err
	}
	w.log.Info().Msg("resuming game loop")
	return nil
}

func (w *World) IsRunning() bool { return w.life.isRunning() }
func (w *World) IsPaused() bool  { return w.life.isPaused() }
func (w *World) State() State    { return w.life.state() }

// Wait blocks until the loop goroutine of the last Start exits and returns
// the error that stopped it, if any. It returns nil at once if the world was
// never started.
func (w *World) Wait() error {
	done, result := w.life.wait()
	if done == nil {
		return nil
	}
	<-done
	return result()
}

// Done is closed when the loop goroutine of the last Start exits. It is nil
// if the world was never started.
func (w *World) Done() <-chan struct{} {
	done, _ := w.life.wait()
	return done
}

// CurrentFPS is the rate achieved by the last completed frame.
func (w *World) CurrentFPS() float64 {
	return math.Float64frombits(w.fpsBits.Load())
}

// Frame is the number of completed loop iterations.
func (w *World) Frame() uint64 { return w.frames.Load() }

func (w *World) Config() Config { return w.cfg }

// AddActor appends a to the registry. Loop goroutine only; use AddActorMessage from elsewhere.
func (w *World) AddActor(a Actor) error { return w.actors.Add(a) }

// Actors returns the registered actors in draw order. Loop goroutine only.
func (w *World) Actors() []Actor { return w.actors.Actors() }

// ActorCount is the registry size. Loop goroutine only.
func (w *World) ActorCount() int { return w.actors.Len() }

// Physics gives messages access to the physics engine. Loop goroutine only.
func (w *World) Physics() Physics { return w.physics }

// SetGravity changes the physics gravity. Loop goroutine only; use SetGravityMessage from elsewhere.
func (w *World) SetGravity(g Vec2) {
	w.gravity = g
	w.physics.SetGravity(g)
}

func (w *World) Gravity() Vec2 { return w.gravity }

func (w *World) loop(ctx context.Context) {
	log := w.log.With().Str("component", "world.loop").Logger()
	defer w.life.exited()

	stopOnCancel := context.AfterFunc(ctx, w.Stop)
	defer stopOnCancel()

	log.Info().Msg("game loop started")

	// The first frame has nothing measured to simulate.
	var frameTime time.Duration
	for w.life.isRunning() {
		w.pacer.BeginFrame()

		applied, err := w.processMessages()
		if err != nil {
			log.Error().Err(err).Msg("message failed, stopping game loop")
			w.life.fail(err)
			break
		}

		steps := w.stepper.Advance(frameTime)
		w.render(log)

		frameTime = w.pacer.EndFrameAndSleep(w.cfg.FrameLength())
		fps := w.pacer.FPS()
		w.fpsBits.Store(math.Float64bits(fps))
		frame := w.frames.Add(1)

		log.Trace().Uint64("frame", frame).Dur("frame_time", frameTime).Int("steps", steps).Msg("frame")

		stats := FrameStats{
			Frame:    frame,
			Elapsed:  frameTime,
			FPS:      fps,
			Steps:    steps,
			Messages: applied,
			Actors:   w.actors.Len(),
		}
		for _, o := range w.observers {
			o.OnFrame(stats)
		}

		if w.life.waitWhilePaused() {
			log.Debug().Msg("game loop resumed")
		}
	}

	log.Info().Uint64("frames", w.frames.Load()).Msg("game loop ended")
}

func (w *World) processMessages() (int, error) {
	messages := w.queue.DrainAll()
	for i, m := range messages {
		if err := m.Apply(w); err != nil {
			return i, &MessageError{Frame: w.frames.Load(), Priority: m.Priority(), Wrapped: err}
		}
	}
	return len(messages), nil
}

func (w *World) render(log zerolog.Logger) {
	c, ok := w.surface.Acquire()
	if !ok {
		log.Trace().Msg("no canvas available, skipping render")
		return
	}
	if err := w.actors.RenderAll(c, &w.paint, w.CurrentFPS()); err != nil {
		log.Warn().Err(err).Msg("actor draw failed")
	}
	w.surface.Present(c)
}
