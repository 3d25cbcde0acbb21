// Package engine provides the real-time loop controller for box simulations.
//
// A [World] drives an opaque physics engine at a fixed timestep while
// rendering at a best-effort frame rate:
//
//   - [MessageQueue]: priority-ordered deferred mutations of the world
//   - [Registry]: insertion-ordered actors drawn each frame
//   - [Stepper]: covers a variable frame time with fixed physics sub-steps
//   - [Pacer]: sleeps each iteration towards the target frame length
//   - [World]: owns the above and runs the per-frame sequence
//
// # Frame Sequence
//
// Every iteration of the loop goroutine drains the message queue, advances
// the physics by the previous frame's measured length, renders through the
// [Surface], paces the frame and, if paused, blocks until resumed.
//
//	w, _ := engine.New(engine.DefaultConfig(), phys, surface)
//	_ = w.Start(ctx)
//	_ = w.Post(engine.MessageFunc(engine.PriorityDefault, func(w *engine.World) error {
//	    return w.AddActor(a)
//	}))
//
// # Thread Safety
//
// Post, Start, Stop, Pause, Resume, IsRunning and IsPaused are safe to call
// from any goroutine. Everything else on [World] (AddActor, Actors, Physics,
// SetGravity) must only be called from within [Message.Apply], which always
// runs on the loop goroutine.
package engine
