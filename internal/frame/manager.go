// Package frame implements the OpenXR WaitFrame/BeginFrame/EndFrame
// state machine: the waited/begun/completed counters, the synchronous
// and async-submission-thread paths to the host compositor, and
// composition layer assembly.
package frame

import (
	"sync"

	"github.com/mbucchia/openxr-hostbridge/internal/config"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/session"
	"github.com/mbucchia/openxr-hostbridge/internal/swapchain"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// hostFrameOps is the subset of *hostapi.Client the frame manager calls,
// narrowed to a local interface so tests can substitute a fake without
// a loaded host library. *hostapi.Client satisfies this structurally.
type hostFrameOps interface {
	WaitToBeginFrame(session hostapi.SessionHandle, frameIndex uint64) (hostapi.FrameTiming, error)
	BeginFrame(session hostapi.SessionHandle, frameIndex uint64) error
	EndFrame(session hostapi.SessionHandle, frameIndex uint64, layers []hostapi.LayerSubmission) error
}

// Manager drives one session's frame lifecycle.
type Manager struct {
	host       hostFrameOps
	sessionH   hostapi.SessionHandle
	sess       *session.Session
	time       *xrtime.Base
	cfg        *config.Watcher
	swapchains *swapchain.Manager

	idealFrameDuration      xrtime.Time
	reprojectionActive      bool

	mu   sync.Mutex
	cond *sync.Cond

	c counters

	lastPredictedDisplayTime xrtime.Time

	async *asyncSubmitter
}

// NewManager creates a frame.Manager for one session. refreshRateHz is
// the display refresh rate supplied by the caller (abi passes a fixed
// 90 Hz); if zero or negative, 90 Hz is assumed. The value is fixed for
// the Manager's lifetime.
func NewManager(host hostFrameOps, sessionHandle hostapi.SessionHandle, sess *session.Session, t *xrtime.Base, cfg *config.Watcher, swapchains *swapchain.Manager, refreshRateHz float64) *Manager {
	if refreshRateHz <= 0 {
		refreshRateHz = 90
	}
	m := &Manager{
		host: host, sessionH: sessionHandle, sess: sess, time: t, cfg: cfg, swapchains: swapchains,
		idealFrameDuration: xrtime.Time(float64(1) / refreshRateHz * 1e9),
	}
	m.cond = sync.NewCond(&m.mu)

	if !cfg.Current().DisableAsyncSubmission {
		m.async = newAsyncSubmitter(host, sessionHandle, m)
	}

	return m
}

// SetReprojectionActive toggles whether WaitFrame reports double the
// ideal frame period (reprojection halves the app's required
// framerate).
func (m *Manager) SetReprojectionActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reprojectionActive = active
}

// Stop tears down the async submission thread, if one is running.
func (m *Manager) Stop() {
	if m.async != nil {
		m.async.stop()
	}
}

// Timing is what WaitFrame reports back to the application.
type Timing struct {
	PredictedDisplayTime   xrtime.Time
	PredictedDisplayPeriod xrtime.Time
}

// WaitFrame implements spec.md §4.7's WaitFrame: advances session
// state, blocks until the previous frame has been begun, waits for the
// host's per-frame permission (synchronously or via the async thread's
// idle signal), and returns clamped monotonic display timing.
func (m *Manager) WaitFrame(now xrtime.Time) (Timing, error) {
	if m.sess.IsLossPending() {
		return Timing{}, xrerror.ErrSessionLost
	}
	m.sess.ReEvaluate(now)

	m.mu.Lock()
	for !m.c.waitReady() {
		m.cond.Wait()
	}
	waitedFrame := m.c.waited
	m.mu.Unlock()

	var timing hostapi.FrameTiming
	var err error
	if m.async != nil {
		timing, err = m.async.awaitIdle()
	} else {
		timing, err = m.host.WaitToBeginFrame(m.sessionH, waitedFrame)
	}
	if err != nil {
		return Timing{}, err
	}

	m.mu.Lock()
	m.c.waited++
	predicted := m.time.FromHostSeconds(timing.PredictedDisplayTimeSeconds)
	if predicted <= m.lastPredictedDisplayTime {
		predicted = m.lastPredictedDisplayTime + 1
	}
	m.lastPredictedDisplayTime = predicted

	period := m.idealFrameDuration
	if m.reprojectionActive {
		period *= 2
	}
	m.mu.Unlock()

	return Timing{PredictedDisplayTime: predicted, PredictedDisplayPeriod: period}, nil
}

// BeginFrame implements spec.md §4.7's BeginFrame.
func (m *Manager) BeginFrame() error {
	m.mu.Lock()

	outcome := m.c.classifyBegin()
	if outcome == beginOrderInvalid {
		m.mu.Unlock()
		return xrerror.ErrCallOrderInvalid
	}

	discarded := outcome == beginDiscarded
	if outcome == beginMustWaitForCompletion {
		for m.c.completed != m.c.begun {
			m.cond.Wait()
		}
	}

	waited := m.c.waited
	m.c.begun = waited
	if discarded {
		// No EndFrame will follow this BeginFrame — the application is
		// required to treat XR_FRAME_DISCARDED as terminal for this
		// frame ID, so this frame completes here rather than leaving a
		// permanent gap that would discard every subsequent frame too.
		m.c.completed = waited
		m.cond.Broadcast()
	}
	m.mu.Unlock()

	switch {
	case discarded && m.async != nil:
		// The async thread is mid-wait for this frame's submission; tell
		// it to heal with a dummy layer instead of blocking forever for
		// an EndFrame that will never come.
		m.async.discardCurrent()
	case discarded:
		if err := m.host.BeginFrame(m.sessionH, waited-1); err != nil {
			return err
		}
		if err := m.host.EndFrame(m.sessionH, waited-1, []hostapi.LayerSubmission{{}}); err != nil {
			return err
		}
	case m.async == nil:
		if err := m.host.BeginFrame(m.sessionH, waited-1); err != nil {
			return err
		}
	}

	if discarded {
		xrlog.Logger().Debug("frame: BeginFrame discarded a frame", "frame", waited)
		return xrerror.ErrFrameDiscarded
	}
	return nil
}

// EndFrame implements spec.md §4.7's EndFrame: validates ordering,
// assembles the composition layer list, and hands it to the host either
// synchronously or via the async submission thread.
func (m *Manager) EndFrame(layers []Layer) error {
	m.mu.Lock()
	if m.c.begun == m.c.completed {
		m.mu.Unlock()
		return xrerror.ErrCallOrderInvalid
	}
	begun := m.c.begun
	m.mu.Unlock()

	wire, err := buildSubmission(m.swapchains, layers)
	if err != nil {
		return err
	}
	if len(wire) == 0 {
		// The host compositor still needs a call to stamp frame timing
		// even when the application submitted nothing usable.
		wire = []hostapi.LayerSubmission{{}}
	}

	if m.async != nil {
		m.async.submit(wire)
	} else {
		if err := m.host.EndFrame(m.sessionH, begun-1, wire); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.c.completed = begun
	m.sess.MarkFrameCompleted()
	m.cond.Broadcast()
	m.mu.Unlock()

	return nil
}
