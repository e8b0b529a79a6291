// Package session implements the OpenXR session state machine and its
// event emissions. Frame counters and the frame lifecycle itself live
// in internal/frame, which holds a *Session to drive state transitions
// from frame progress; this package owns only the state graph, the
// interaction-profile-changed flag, and the overlay-session flag.
package session

import (
	"sync"

	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// Session is the OpenXR session object. There is at most one primary
// Session per Instance (enforced by instance.Instance.AcquireSession);
// IsOverlay sessions may coexist with it.
type Session struct {
	Instance *instance.Instance

	mu    sync.Mutex
	state instance.SessionState

	IsOverlay bool

	// hostIsVisible / hostIsFocused mirror the host compositor's last
	// reported visibility/focus flags; ReEvaluate uses them to drive
	// the VISIBLE <-> FOCUSED transition.
	hostIsVisible bool
	hostIsFocused bool

	// completedAny is set once the first EndFrame completes, driving
	// READY -> SYNCHRONIZED for a normal (non-headless) session.
	completedAny bool
	headless     bool

	lossPending bool

	// interactionProfileDirty is set by internal/action on a rebind and
	// cleared (with an event emitted) on the next ReEvaluate.
	interactionProfileDirty bool

	notifier StatusNotifier
}

// StatusNotifier receives a best-effort notification on every session
// state transition. internal/companion's Notifier implements this; it
// is narrowed to a local interface here so this package never imports
// internal/companion (and so tests can run without one).
type StatusNotifier interface {
	Notify(state instance.SessionState, nowNanos int64)
}

// SetStatusNotifier wires an external status-shim notifier. Passing nil
// disables notification.
func (s *Session) SetStatusNotifier(n StatusNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// New creates a Session bound to inst. overlay selects whether this is
// an XR_EXTX_overlay session; the caller must already have called
// inst.AcquireSession(overlay) successfully.
func New(inst *instance.Instance, overlay, headless bool) *Session {
	return &Session{
		Instance:  inst,
		state:     instance.SessionStateIdle,
		IsOverlay: overlay,
		headless:  headless,
	}
}

// State returns the current session state.
func (s *Session) State() instance.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// transition moves to next and enqueues a session-state-changed event,
// iff next differs from the current state.
func (s *Session) transition(next instance.SessionState, now xrtime.Time) {
	if s.state == next {
		return
	}
	s.state = next
	s.Instance.Events.Push(instance.Event{
		Type:  instance.EventSessionStateChanged,
		State: next,
		Time:  now,
	})
	if s.notifier != nil {
		s.notifier.Notify(next, int64(now))
	}
}

// MarkFrameCompleted notifies the state machine that EndFrame completed
// at least once; READY sessions advance to SYNCHRONIZED on the next
// ReEvaluate.
func (s *Session) MarkFrameCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completedAny = true
}

// SetHostVisibility updates the cached host compositor visibility/focus
// flags; ReEvaluate consumes them on its next call.
func (s *Session) SetHostVisibility(visible, focused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostIsVisible = visible
	s.hostIsFocused = focused
}

// MarkInteractionProfileDirty schedules an interaction-profile-changed
// event on the next ReEvaluate.
func (s *Session) MarkInteractionProfileDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactionProfileDirty = true
}

// MarkLossPending flags the session as lost; ReEvaluate drives it
// straight to STOPPING and every frame-lifecycle call thereafter
// returns xrerror.ErrSessionLost.
func (s *Session) MarkLossPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lossPending = true
}

func (s *Session) IsLossPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lossPending
}

// ReEvaluate runs the state graph's unconditional and flag-driven
// transitions described in spec.md §4.8. It should be called after
// every frame boundary and on every xrPollEvent.
func (s *Session) ReEvaluate(now xrtime.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interactionProfileDirty {
		s.interactionProfileDirty = false
		s.Instance.Events.Push(instance.Event{Type: instance.EventInteractionProfileChanged, Time: now})
	}

	if s.lossPending {
		switch s.state {
		case instance.SessionStateStopping, instance.SessionStateIdle, instance.SessionStateExiting:
		default:
			s.transition(instance.SessionStateStopping, now)
		}
		return
	}

	switch s.state {
	case instance.SessionStateIdle:
		s.transition(instance.SessionStateReady, now)
	case instance.SessionStateReady:
		if s.completedAny || s.headless {
			s.transition(instance.SessionStateSynchronized, now)
		}
	case instance.SessionStateSynchronized:
		if s.hostIsVisible {
			s.transition(instance.SessionStateVisible, now)
		}
	case instance.SessionStateVisible:
		if !s.hostIsVisible {
			s.transition(instance.SessionStateSynchronized, now)
			return
		}
		if s.hostIsFocused {
			s.transition(instance.SessionStateFocused, now)
		}
	case instance.SessionStateFocused:
		if !s.hostIsFocused || !s.hostIsVisible {
			s.transition(instance.SessionStateVisible, now)
		}
		if !s.hostIsVisible {
			s.transition(instance.SessionStateSynchronized, now)
		}
	}
}

// RequestExit transitions the session toward STOPPING from any state.
func (s *Session) RequestExit(now xrtime.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transition(instance.SessionStateStopping, now)
}

// End completes the STOPPING -> IDLE -> EXITING sequence. It is an
// error to call End outside STOPPING.
func (s *Session) End(now xrtime.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != instance.SessionStateStopping {
		return xrerror.ErrCallOrderInvalid
	}
	s.transition(instance.SessionStateIdle, now)
	s.transition(instance.SessionStateExiting, now)
	return nil
}

// RecenterReferenceSpaces emits the reference-space-change-pending
// event twice, once for LOCAL and once for STAGE, per spec.md §4.8.
func (s *Session) RecenterReferenceSpaces(localType, stageType int, now xrtime.Time) {
	s.Instance.Events.Push(instance.Event{Type: instance.EventReferenceSpaceChangePending, ReferenceSpaceType: localType, Time: now})
	s.Instance.Events.Push(instance.Event{Type: instance.EventReferenceSpaceChangePending, ReferenceSpaceType: stageType, Time: now})
}
