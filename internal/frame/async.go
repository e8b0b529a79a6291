package frame

import (
	"sync"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/thread"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// asyncSubmitter runs the optional submission thread spec.md §4.7
// describes: a dedicated OS thread that owns every host-facing
// BeginFrame/EndFrame call so the application's own WaitFrame/
// BeginFrame/EndFrame calls never block on the compositor directly.
// It is built on internal/thread.Thread, the same OS-thread-locking
// primitive the teacher's render loop uses, because host frame calls
// (like the teacher's GPU calls) must all originate from one thread.
type asyncSubmitter struct {
	th      *thread.Thread
	host    hostFrameOps
	session hostapi.SessionHandle

	itemCh chan []hostapi.LayerSubmission
	idleCh chan hostapi.FrameTiming
	stopCh chan struct{}
	stopOnce sync.Once

	frameID uint64
}

func newAsyncSubmitter(host hostFrameOps, session hostapi.SessionHandle, mgr *Manager) *asyncSubmitter {
	a := &asyncSubmitter{
		th:      thread.New(),
		host:    host,
		session: session,
		itemCh:  make(chan []hostapi.LayerSubmission),
		idleCh:  make(chan hostapi.FrameTiming, 1),
		stopCh:  make(chan struct{}),
	}
	a.th.CallAsync(a.run)
	return a
}

// dummyLayer stamps host frame timing without presenting anything;
// used to heal a frame ID the application discarded.
var dummyLayer = []hostapi.LayerSubmission{{}}

// run is the async thread's loop body, executed on the dedicated OS
// thread created by thread.New. It implements spec.md §4.7's async
// submission algorithm: wait for host permission, signal idle, accept
// either a real layer list or a discard notification, then submit.
func (a *asyncSubmitter) run() {
	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		timing, err := a.host.WaitToBeginFrame(a.session, a.frameID)
		if err != nil {
			xrlog.Logger().Error("frame: async WaitToBeginFrame failed", "frame", a.frameID, "err", err)
			return
		}

		select {
		case a.idleCh <- timing:
		default:
			// Drain a stale timing the main thread never collected
			// (it only ever wants the most recent one) and retry.
			select {
			case <-a.idleCh:
			default:
			}
			a.idleCh <- timing
		}

		var layers []hostapi.LayerSubmission
		select {
		case layers = <-a.itemCh:
		case <-a.stopCh:
			return
		}
		if layers == nil {
			layers = dummyLayer
		}

		if err := a.host.BeginFrame(a.session, a.frameID); err != nil {
			xrlog.Logger().Error("frame: async BeginFrame failed", "frame", a.frameID, "err", err)
			return
		}
		if err := a.host.EndFrame(a.session, a.frameID, layers); err != nil {
			xrlog.Logger().Error("frame: async EndFrame failed", "frame", a.frameID, "err", err)
			return
		}

		a.frameID++
	}
}

// awaitIdle blocks until the async thread has obtained host permission
// for the current frame and reported its predicted timing.
func (a *asyncSubmitter) awaitIdle() (hostapi.FrameTiming, error) {
	select {
	case timing := <-a.idleCh:
		return timing, nil
	case <-a.stopCh:
		return hostapi.FrameTiming{}, nil
	}
}

// submit hands a real layer list to the async thread for the frame it
// is currently waiting to submit.
func (a *asyncSubmitter) submit(layers []hostapi.LayerSubmission) {
	select {
	case a.itemCh <- layers:
	case <-a.stopCh:
	}
}

// discardCurrent tells the async thread to heal the frame it is
// currently waiting to submit with a dummy layer instead of blocking
// for one the application never produced (BeginFrame returned
// xrerror.ErrFrameDiscarded and no EndFrame will follow).
func (a *asyncSubmitter) discardCurrent() {
	select {
	case a.itemCh <- nil:
	case <-a.stopCh:
	}
}

func (a *asyncSubmitter) stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
		a.th.Stop()
	})
}
