package instance

import (
	"sync"

	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// EventType enumerates the OpenXR event types this runtime emits.
type EventType int

const (
	EventSessionStateChanged EventType = iota
	EventInteractionProfileChanged
	EventReferenceSpaceChangePending
	EventInstanceLossPending
)

// SessionState mirrors OpenXR's XrSessionState enumeration closely
// enough for the state machine internal/session drives.
type SessionState int

const (
	SessionStateUnknown SessionState = iota
	SessionStateIdle
	SessionStateReady
	SessionStateSynchronized
	SessionStateVisible
	SessionStateFocused
	SessionStateStopping
	SessionStateLossPending
	SessionStateExiting
)

// Event is one queued event. Only the fields relevant to Type are
// populated; the rest are zero.
type Event struct {
	Type EventType

	// EventSessionStateChanged
	State SessionState
	Time  xrtime.Time

	// EventReferenceSpaceChangePending
	ReferenceSpaceType int
}

// EventQueue is a FIFO of pending events. xrPollEvent pops the head;
// every component that can raise an event must go through the
// Instance it belongs to push onto the same queue, so PollEvent ordering
// matches the order conditions were actually observed.
type EventQueue struct {
	mu    sync.Mutex
	items []Event
}

func (q *EventQueue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, e)
}

// Pop removes and returns the oldest pending event. ok is false if the
// queue is empty.
func (q *EventQueue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Event{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}
