package frame

import (
	"sync"
	"testing"

	"github.com/mbucchia/openxr-hostbridge/internal/config"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/session"
	"github.com/mbucchia/openxr-hostbridge/internal/swapchain"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// fakeHost is a minimal hostFrameOps the frame manager can drive without
// a loaded host dynamic library.
type fakeHost struct {
	mu          sync.Mutex
	displayTime float64
	endCalls    []uint64
	beginCalls  []uint64
}

func (f *fakeHost) WaitToBeginFrame(hostapi.SessionHandle, uint64) (hostapi.FrameTiming, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.displayTime += 1.0 / 90.0
	return hostapi.FrameTiming{PredictedDisplayTimeSeconds: f.displayTime, PredictedDisplayPeriodSeconds: 1.0 / 90.0}, nil
}

func (f *fakeHost) BeginFrame(_ hostapi.SessionHandle, frame uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beginCalls = append(f.beginCalls, frame)
	return nil
}

func (f *fakeHost) EndFrame(_ hostapi.SessionHandle, frame uint64, _ []hostapi.LayerSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls = append(f.endCalls, frame)
	return nil
}

func newTestManager(t *testing.T, disableAsync bool) (*Manager, *fakeHost) {
	t.Helper()
	inst := instance.New(instance.Options{})
	if err := inst.AcquireSession(false); err != nil {
		t.Fatalf("AcquireSession: %v", err)
	}
	sess := session.New(inst, false, false)

	cfg := config.Load("")
	host := &fakeHost{}
	sm := swapchain.NewManager(nil, 0)

	var m *Manager
	if disableAsync {
		// Build the manager directly so its async field stays nil,
		// without depending on the config file quirk key being set.
		m = &Manager{
			host: host, sessionH: 0, sess: sess, time: xrtime.NewBase(0), cfg: cfg, swapchains: sm,
			idealFrameDuration: xrtime.Time(1e9 / 90),
		}
		m.cond = sync.NewCond(&m.mu)
	} else {
		m = NewManager(host, 0, sess, xrtime.NewBase(0), cfg, sm, 90)
	}
	return m, host
}

func TestWaitBeginEndHappyPathSync(t *testing.T) {
	m, host := newTestManager(t, true)

	for i := 0; i < 3; i++ {
		if _, err := m.WaitFrame(0); err != nil {
			t.Fatalf("WaitFrame %d: %v", i, err)
		}
		if err := m.BeginFrame(); err != nil {
			t.Fatalf("BeginFrame %d: %v", i, err)
		}
		if err := m.EndFrame(nil); err != nil {
			t.Fatalf("EndFrame %d: %v", i, err)
		}
	}

	if len(host.endCalls) != 3 {
		t.Fatalf("got %d EndFrame calls, want 3", len(host.endCalls))
	}
}

func TestBeginFrameWithoutWaitIsOrderInvalid(t *testing.T) {
	m, _ := newTestManager(t, true)
	if err := m.BeginFrame(); err != xrerror.ErrCallOrderInvalid {
		t.Fatalf("got %v, want ErrCallOrderInvalid", err)
	}
}

func TestEndFrameWithoutBeginIsOrderInvalid(t *testing.T) {
	m, _ := newTestManager(t, true)
	if _, err := m.WaitFrame(0); err != nil {
		t.Fatalf("WaitFrame: %v", err)
	}
	if err := m.EndFrame(nil); err != xrerror.ErrCallOrderInvalid {
		t.Fatalf("got %v, want ErrCallOrderInvalid", err)
	}
}

func TestDiscardedBeginFrameReturnsDiscardedAndAllowsNextCycle(t *testing.T) {
	m, _ := newTestManager(t, true)

	if _, err := m.WaitFrame(0); err != nil {
		t.Fatalf("WaitFrame 1: %v", err)
	}
	if err := m.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame 1: %v", err)
	}
	// Skip EndFrame: WaitFrame again immediately re-enters (begun==waited).
	if _, err := m.WaitFrame(0); err != nil {
		t.Fatalf("WaitFrame 2: %v", err)
	}
	if err := m.BeginFrame(); err != xrerror.ErrFrameDiscarded {
		t.Fatalf("got %v, want ErrFrameDiscarded", err)
	}

	// The cycle must still be recoverable: a normal WaitFrame/BeginFrame/
	// EndFrame after the discard succeeds.
	if _, err := m.WaitFrame(0); err != nil {
		t.Fatalf("WaitFrame 3: %v", err)
	}
	if err := m.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame 3: %v", err)
	}
	if err := m.EndFrame(nil); err != nil {
		t.Fatalf("EndFrame 3: %v", err)
	}
}

func TestWaitFrameRejectsWhenSessionLossPending(t *testing.T) {
	m, _ := newTestManager(t, true)
	m.sess.MarkLossPending()
	if _, err := m.WaitFrame(0); err != xrerror.ErrSessionLost {
		t.Fatalf("got %v, want ErrSessionLost", err)
	}
}

func TestClassifyBeginOrderInvalidWhenNothingWaited(t *testing.T) {
	var c counters
	if c.classifyBegin() != beginOrderInvalid {
		t.Fatalf("zero counters should be order-invalid")
	}
}

func TestClassifyBeginMustWaitForCompletion(t *testing.T) {
	c := counters{waited: 2, begun: 1, completed: 1}
	if c.classifyBegin() != beginMustWaitForCompletion {
		t.Fatalf("got %v, want beginMustWaitForCompletion", c.classifyBegin())
	}
}

func TestClassifyBeginDiscardedWhenBacklogged(t *testing.T) {
	c := counters{waited: 3, begun: 1, completed: 1}
	if c.classifyBegin() != beginDiscarded {
		t.Fatalf("got %v, want beginDiscarded", c.classifyBegin())
	}
}

func TestBuildSubmissionReturnsNilForNoProjectionLayer(t *testing.T) {
	sm := swapchain.NewManager(nil, 0)
	wire, err := buildSubmission(sm, []Layer{{Type: LayerQuad}})
	if err != nil {
		t.Fatalf("buildSubmission: %v", err)
	}
	if wire != nil {
		t.Fatalf("got %v, want nil wire for a layer list with no projection entry", wire)
	}
}

func TestBuildSubmissionInvalidSwapchainFails(t *testing.T) {
	sm := swapchain.NewManager(nil, 0)
	layers := []Layer{{
		Type: LayerProjection,
		Projection: [2]ProjectionView{
			{SubImage: SubImage{}},
			{SubImage: SubImage{}},
		},
	}}
	if _, err := buildSubmission(sm, layers); err != xrerror.ErrLayerInvalid {
		t.Fatalf("got %v, want ErrLayerInvalid for an unknown swapchain handle", err)
	}
}
