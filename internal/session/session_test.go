package session

import (
	"testing"

	"github.com/mbucchia/openxr-hostbridge/internal/instance"
)

func newTestSession(t *testing.T, headless bool) (*Session, *instance.Instance) {
	t.Helper()
	inst := instance.New(instance.Options{})
	if err := inst.AcquireSession(false); err != nil {
		t.Fatalf("AcquireSession: %v", err)
	}
	return New(inst, false, headless), inst
}

func drainEvents(inst *instance.Instance) []instance.Event {
	var out []instance.Event
	for {
		e, ok := inst.Events.Pop()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

func TestIdleToReadyIsUnconditional(t *testing.T) {
	s, inst := newTestSession(t, false)
	s.ReEvaluate(1)
	if s.State() != instance.SessionStateReady {
		t.Fatalf("state = %v, want Ready", s.State())
	}
	events := drainEvents(inst)
	if len(events) != 1 || events[0].State != instance.SessionStateReady {
		t.Fatalf("events = %+v, want one Ready transition", events)
	}
}

func TestReadyToSynchronizedRequiresCompletedFrame(t *testing.T) {
	s, _ := newTestSession(t, false)
	s.ReEvaluate(1) // -> Ready
	s.ReEvaluate(2) // still Ready: no frame completed yet
	if s.State() != instance.SessionStateReady {
		t.Fatalf("state = %v, want Ready (no frame completed)", s.State())
	}

	s.MarkFrameCompleted()
	s.ReEvaluate(3)
	if s.State() != instance.SessionStateSynchronized {
		t.Fatalf("state = %v, want Synchronized", s.State())
	}
}

func TestHeadlessSessionReachesSynchronizedWithoutFrames(t *testing.T) {
	s, _ := newTestSession(t, true)
	s.ReEvaluate(1)
	s.ReEvaluate(2)
	if s.State() != instance.SessionStateSynchronized {
		t.Fatalf("state = %v, want Synchronized for headless session", s.State())
	}
}

func TestVisibleFocusedTracksHostFlags(t *testing.T) {
	s, _ := newTestSession(t, true)
	s.ReEvaluate(1) // Ready
	s.ReEvaluate(2) // Synchronized (headless)

	s.SetHostVisibility(true, false)
	s.ReEvaluate(3)
	if s.State() != instance.SessionStateVisible {
		t.Fatalf("state = %v, want Visible", s.State())
	}

	s.SetHostVisibility(true, true)
	s.ReEvaluate(4)
	if s.State() != instance.SessionStateFocused {
		t.Fatalf("state = %v, want Focused", s.State())
	}

	s.SetHostVisibility(false, false)
	s.ReEvaluate(5)
	if s.State() != instance.SessionStateSynchronized {
		t.Fatalf("state = %v, want Synchronized after losing visibility", s.State())
	}
}

func TestRequestExitThenEnd(t *testing.T) {
	s, _ := newTestSession(t, false)
	s.RequestExit(1)
	if s.State() != instance.SessionStateStopping {
		t.Fatalf("state = %v, want Stopping", s.State())
	}
	if err := s.End(2); err != nil {
		t.Fatalf("End: %v", err)
	}
	if s.State() != instance.SessionStateExiting {
		t.Fatalf("state = %v, want Exiting", s.State())
	}
}

func TestEndOutsideStoppingFails(t *testing.T) {
	s, _ := newTestSession(t, false)
	if err := s.End(1); err == nil {
		t.Error("End from Idle should fail")
	}
}

func TestLossPendingForcesStopping(t *testing.T) {
	s, _ := newTestSession(t, false)
	s.ReEvaluate(1) // Ready
	s.MarkLossPending()
	s.ReEvaluate(2)
	if s.State() != instance.SessionStateStopping {
		t.Fatalf("state = %v, want Stopping after loss pending", s.State())
	}
}
