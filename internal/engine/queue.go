package engine

import (
	"math"
	"slices"
	"sync"
)

const (
	// PriorityDefault is the priority of ordinary messages.
	PriorityDefault = 0
	// PriorityMax runs before every other priority. Lower values run first.
	PriorityMax = math.MinInt
)

// Message is a deferred mutation of the world. Apply always runs on the loop
// goroutine, between frames, never during a physics step or render pass.
type Message interface {
	Priority() int
	Apply(w *World) error
}

type funcMessage struct {
	priority int
	fn       func(w *World) error
}

func (m *funcMessage) Priority() int { return m.priority }

func (m *funcMessage) Apply(w *World) error {
	if m.fn == nil {
		return nil
	}
	return m.fn(w)
}

// MessageFunc wraps fn as a Message with the given priority.
func MessageFunc(priority int, fn func(w *World) error) Message {
	return &funcMessage{priority: priority, fn: fn}
}

// AddActorMessage adds a to the registry when applied. A nil actor fails
// the message with ErrNilActor.
func AddActorMessage(a Actor) Message {
	return MessageFunc(PriorityDefault, func(w *World) error {
		return w.AddActor(a)
	})
}

// SetGravityMessage changes the gravity before any default priority work of the same frame.
func SetGravityMessage(g Vec2) Message {
	return MessageFunc(PriorityMax, func(w *World) error {
		w.SetGravity(g)
		return nil
	})
}

// MessageQueue keeps pending messages sorted by ascending priority, FIFO
// among equal priorities. It is the only structure in the loop shared
// between goroutines.
type MessageQueue struct {
	mu      sync.Mutex
	pending []Message
}

func NewMessageQueue() *MessageQueue {
	return &MessageQueue{pending: make([]Message, 0, 16)}
}

// Enqueue inserts m before the first pending message with a strictly greater priority.
func (q *MessageQueue) Enqueue(m Message) {
	p := m.Priority()

	q.mu.Lock()
	defer q.mu.Unlock()

	idx := 0
	for _, other := range q.pending {
		if other.Priority() > p {
			break
		}
		idx++
	}
	q.pending = slices.Insert(q.pending, idx, m)
}

// DrainAll takes every pending message and leaves the queue empty.
// Messages enqueued while the caller applies the result wait for the next drain.
func (q *MessageQueue) DrainAll() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	drained := q.pending
	q.pending = make([]Message, 0, cap(drained))
	return drained
}

func (q *MessageQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
