package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.TargetFPS = 500
	return cfg
}

var _ = Describe("World", func() {
	var (
		phys    *fakePhysics
		surface *fakeSurface
		frames  *frameLog
		world   *World
	)

	BeforeEach(func() {
		phys = &fakePhysics{}
		surface = &fakeSurface{}
		frames = &frameLog{}
		var err error
		world, err = New(fastConfig(), phys, surface, WithObserver(frames))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		world.Stop()
		if done := world.Done(); done != nil {
			Eventually(done).WithTimeout(2 * time.Second).Should(BeClosed())
		}
	})

	Describe("New", func() {
		It("rejects invalid loop parameters", func() {
			cfg := fastConfig()
			cfg.MaxStepsPerFrame = 0
			_, err := New(cfg, phys, surface)
			Expect(err).To(MatchError(ErrInvalidConfig))
		})

		It("rejects missing collaborators", func() {
			_, err := New(fastConfig(), nil, surface)
			Expect(err).To(MatchError(ErrInvalidConfig))
			_, err = New(fastConfig(), phys, nil)
			Expect(err).To(MatchError(ErrInvalidConfig))
		})

		It("starts stopped with zero gravity", func() {
			Expect(world.State()).To(Equal(StateStopped))
			Expect(world.IsRunning()).To(BeFalse())
			Expect(world.Gravity()).To(Equal(Vec2{}))
			Expect(phys.gravity).To(Equal([]Vec2{{}}))
			Expect(world.Done()).To(BeNil())
			Expect(world.Wait()).To(Succeed())
		})
	})

	Describe("lifecycle", func() {
		It("runs frames until stopped", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			Expect(world.IsRunning()).To(BeTrue())

			Eventually(world.Frame).Should(BeNumerically(">=", 3))
			Eventually(surface.presentedFrames).Should(BeNumerically(">=", 3))

			world.Stop()
			Expect(world.Wait()).To(Succeed())
			Expect(world.State()).To(Equal(StateStopped))
			Expect(world.Done()).To(BeClosed())
		})

		It("refuses a second start while running", func() {
			Expect(world.Start(context.Background())).To(Succeed())

			err := world.Start(context.Background())
			Expect(err).To(MatchError(ErrInvalidState))
			var se *StateError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Op).To(Equal("start"))
		})

		It("can be started again after the loop exits", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			world.Stop()
			Expect(world.Wait()).To(Succeed())

			before := world.Frame()
			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(world.Frame).Should(BeNumerically(">", before))
		})

		It("rejects pause and resume while stopped", func() {
			Expect(world.Pause()).To(MatchError(ErrInvalidState))
			Expect(world.Resume()).To(MatchError(ErrInvalidState))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			Expect(world.Start(ctx)).To(Succeed())
			Eventually(world.Frame).Should(BeNumerically(">=", 1))

			cancel()
			Eventually(world.Done()).Should(BeClosed())
			Expect(world.Wait()).To(Succeed())
			Expect(world.IsRunning()).To(BeFalse())
		})
	})

	Describe("pause", func() {
		settled := func() uint64 {
			var f uint64
			Eventually(func() bool {
				f = world.Frame()
				time.Sleep(20 * time.Millisecond)
				return world.Frame() == f
			}).Should(BeTrue())
			return f
		}

		It("holds the loop until resumed", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(world.Frame).Should(BeNumerically(">=", 1))

			Expect(world.Pause()).To(Succeed())
			Expect(world.IsPaused()).To(BeTrue())
			Expect(world.State()).To(Equal(StatePaused))

			frozen := settled()
			Consistently(world.Frame, 100*time.Millisecond).Should(Equal(frozen))

			Expect(world.Resume()).To(Succeed())
			Expect(world.State()).To(Equal(StateRunning))
			Eventually(world.Frame).Should(BeNumerically(">", frozen))
		})

		It("accepts messages while paused and applies them after resume", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			Expect(world.Pause()).To(Succeed())
			frozen := settled()

			Expect(world.Post(SetGravityMessage(Vec2{X: 1, Y: -2}))).To(Succeed())
			Consistently(world.Pending, 50*time.Millisecond).Should(Equal(1))

			Expect(world.Resume()).To(Succeed())
			Eventually(phys.lastGravity).Should(Equal(Vec2{X: 1, Y: -2}))
			Expect(world.Frame()).To(BeNumerically(">", frozen))
		})

		It("wakes up and exits when stopped", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			Expect(world.Pause()).To(Succeed())
			settled()

			world.Stop()
			Eventually(world.Done()).Should(BeClosed())
			Expect(world.State()).To(Equal(StateStopped))
			Expect(world.IsPaused()).To(BeFalse())
		})
	})

	Describe("frames", func() {
		It("simulates nothing in the first frame and caps the rest", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(func() int { return len(frames.all()) }).Should(BeNumerically(">=", 5))
			world.Stop()
			Expect(world.Wait()).To(Succeed())

			all := frames.all()
			Expect(all[0].Frame).To(Equal(uint64(1)))
			Expect(all[0].Steps).To(Equal(0))
			for i, s := range all {
				Expect(s.Frame).To(Equal(uint64(i + 1)))
				Expect(s.Steps).To(BeNumerically("<=", DefaultMaxStepsPerFrame))
			}
			Expect(all[1].Steps).To(BeNumerically(">=", 1))

			steps, clears := phys.counts()
			Expect(clears).To(Equal(len(all)))
			total := 0
			for _, s := range all {
				total += s.Steps
			}
			Expect(steps).To(Equal(total))
		})

		It("renders the overlay after the actors", func() {
			Expect(world.Post(AddActorMessage(&stubActor{name: "a", log: new([]string)}))).To(Succeed())
			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(surface.presentedFrames).Should(BeNumerically(">=", 2))

			ops := surface.lastOps()
			Expect(ops).NotTo(BeEmpty())
			Expect(ops[0].Kind).To(Equal("rect"))
			Expect(ops[1].Kind).To(Equal("circle"))
			Expect(ops[len(ops)-1].Text).To(HavePrefix("actors#: 1 FPS: "))
		})

		It("reports a measured frame rate", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(world.CurrentFPS).Should(BeNumerically(">", 0))
		})
	})

	Describe("messages", func() {
		It("rejects nil", func() {
			Expect(world.Post(nil)).To(MatchError(ErrNilMessage))
		})

		It("applies posted messages by priority within one frame", func() {
			var mu sync.Mutex
			var order []string
			record := func(name string, priority int) Message {
				return MessageFunc(priority, func(*World) error {
					mu.Lock()
					defer mu.Unlock()
					order = append(order, name)
					return nil
				})
			}
			Expect(world.Post(record("a", PriorityDefault))).To(Succeed())
			Expect(world.Post(record("b", PriorityDefault))).To(Succeed())
			Expect(world.Post(record("urgent", PriorityMax))).To(Succeed())
			Expect(world.Pending()).To(Equal(3))

			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(func() int { return len(frames.all()) }).Should(BeNumerically(">=", 1))
			world.Stop()
			Expect(world.Wait()).To(Succeed())

			mu.Lock()
			defer mu.Unlock()
			Expect(order).To(Equal([]string{"urgent", "a", "b"}))
			Expect(frames.all()[0].Messages).To(Equal(3))
		})

		It("adds actors and changes gravity on the loop goroutine", func() {
			Expect(world.Start(context.Background())).To(Succeed())
			Expect(world.Post(AddActorMessage(&stubActor{name: "a", log: new([]string)}))).To(Succeed())
			Expect(world.Post(SetGravityMessage(Vec2{Y: -9.8}))).To(Succeed())

			Eventually(func() int { return frames.last().Actors }).Should(Equal(1))
			Eventually(phys.lastGravity).Should(Equal(Vec2{Y: -9.8}))
			world.Stop()
			Expect(world.Wait()).To(Succeed())
			Expect(world.Gravity()).To(Equal(Vec2{Y: -9.8}))
			Expect(world.ActorCount()).To(Equal(1))
		})

		It("stops the loop when a message fails", func() {
			errBoom := errors.New("boom")
			applied := false
			Expect(world.Post(MessageFunc(PriorityMax, func(*World) error { return errBoom }))).To(Succeed())
			Expect(world.Post(MessageFunc(PriorityDefault, func(*World) error {
				applied = true
				return nil
			}))).To(Succeed())

			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(world.Done()).Should(BeClosed())

			err := world.Wait()
			Expect(err).To(MatchError(errBoom))
			var me *MessageError
			Expect(errors.As(err, &me)).To(BeTrue())
			Expect(me.Priority).To(Equal(PriorityMax))
			Expect(applied).To(BeFalse())
			Expect(world.Pending()).To(Equal(0))
			Expect(world.State()).To(Equal(StateStopped))
			Expect(world.Frame()).To(Equal(uint64(0)))
		})

		It("stops the loop instead of rendering a nil actor", func() {
			Expect(world.Post(AddActorMessage(nil))).To(Succeed())
			Expect(world.Start(context.Background())).To(Succeed())
			Eventually(world.Done()).Should(BeClosed())

			err := world.Wait()
			Expect(err).To(MatchError(ErrNilActor))
			var me *MessageError
			Expect(errors.As(err, &me)).To(BeTrue())
			Expect(world.ActorCount()).To(Equal(0))
			Expect(surface.presentedFrames()).To(Equal(0))
		})
	})

	Describe("stop before the next drain", func() {
		It("leaves late messages unapplied", func() {
			gated := newGatedSurface()
			w, err := New(fastConfig(), phys, gated)
			Expect(err).NotTo(HaveOccurred())

			Expect(w.Start(context.Background())).To(Succeed())
			Eventually(gated.entered).Should(BeClosed())

			// Frame one is blocked in render, its drain already happened.
			Expect(w.Post(AddActorMessage(&stubActor{name: "late", log: new([]string)}))).To(Succeed())
			w.Stop()
			Expect(w.State()).To(Equal(StateStopping))
			close(gated.gate)

			Expect(w.Wait()).To(Succeed())
			Expect(w.Actors()).To(BeEmpty())
			Expect(w.Pending()).To(Equal(1))
			Expect(w.Frame()).To(Equal(uint64(1)))
		})
	})
})
