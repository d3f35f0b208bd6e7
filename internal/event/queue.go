package event

import "sync"

// Queue is the pending-event FIFO between backend translation (producer)
// and stage dispatch (consumer).
//
// Push takes the queue lock for each enqueue. Drain holds the drain lock for
// the whole drain-and-dispatch span and takes the queue lock per dequeue, so
// a handler may Push from inside the drain without deadlocking. Events pushed
// during a drain are delivered by that same drain.
type Queue struct {
	drainMu sync.Mutex

	mu      sync.Mutex
	pending []Event
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends e. Safe for concurrent use.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, e)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Event{}, false
	}
	e := q.pending[0]
	q.pending[0] = Event{}
	q.pending = q.pending[1:]
	if len(q.pending) == 0 {
		q.pending = nil
	}
	return e, true
}

// Drain removes events in FIFO order and hands each to fn until the queue is
// empty or fn returns false. The event passed to fn is only valid for the
// duration of the call. Events still queued when fn stops remain queued.
func (q *Queue) Drain(fn func(*Event) bool) {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()
	for {
		e, ok := q.pop()
		if !ok {
			return
		}
		if !fn(&e) {
			return
		}
	}
}

// Clear discards every queued event.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}
