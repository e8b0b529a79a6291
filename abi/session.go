package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"github.com/mbucchia/openxr-hostbridge/internal/bodytracker"
	"github.com/mbucchia/openxr-hostbridge/internal/companion"
	"github.com/mbucchia/openxr-hostbridge/internal/frame"
	"github.com/mbucchia/openxr-hostbridge/internal/handle"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	d3d11interop "github.com/mbucchia/openxr-hostbridge/internal/interop/d3d11"
	"github.com/mbucchia/openxr-hostbridge/internal/session"
	"github.com/mbucchia/openxr-hostbridge/internal/spacegraph"
	"github.com/mbucchia/openxr-hostbridge/internal/swapchain"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// bodyStateMappingName/bodyStateEventName and companionPipeName are the
// fixed, process-external names a sidecar body-tracking process and the
// status shim are expected to publish under; neither is negotiated over
// any OpenXR call, so there is nothing in XrSessionCreateInfo to derive
// them from.
const (
	bodyStateMappingName = `openxr-hostbridge-bodystate`
	bodyStateEventName   = `openxr-hostbridge-bodystate-event`
	companionPipeName    = `\\.\pipe\openxr-hostbridge-status`
)

// graphicsAPITag identifies which XrGraphicsBinding*KHR struct the
// caller chained onto XrSessionCreateInfo. A full loader walks the
// next-chain's XrStructureType to determine this before calling in;
// this package is handed the already-identified tag and a pointer to
// the matching struct, so xrCreateSession itself stays a flat switch
// instead of a structure-type walk.
type graphicsAPITag uint32

const (
	graphicsTagD3D11 graphicsAPITag = iota
	graphicsTagD3D12
	graphicsTagVulkan
	graphicsTagOpenGL
)

// refreshRateHz is the fixed display refresh rate this runtime assumes
// in the absence of a host query for it; spec.md's Open Questions left
// dynamic refresh rate detection out of scope for the first host
// integration this runtime targets.
const refreshRateHz = 90.0

// uintptrParam is the cgo-visible shape of a raw native pointer (an
// ID3D11Device*, VkInstance, HGLRC, ...); it is typed per call site by
// the graphics_*.go file that knows which native type it actually is.
type uintptrParam = C.uintptr_t

//export xrCreateSession
func xrCreateSession(instHandle C.XrInstance, isOverlay, isHeadless C.XrBool32, tag C.uint32_t, graphicsBinding uintptrParam, outSession *C.XrSession) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}

	overlay := isOverlay != 0
	headless := isHeadless != 0
	if err := inst.AcquireSession(overlay); err != nil {
		return resultFor(xrerror.ErrValidation)
	}

	hostSession, err := inst.Host.CreateSession()
	if err != nil {
		inst.ReleaseSession(overlay)
		return resultFor(xrerror.ErrInstanceLost)
	}

	st := &sessionState{
		hostSession: hostSession,
		spaces:      handle.NewTable[spacegraph.Space, handle.SpaceMarker](),
	}
	st.sess = session.New(inst, overlay, headless)
	st.swapchains = swapchain.NewManager(inst.Host, hostSession)

	// Both the body-tracking sidecar and the status shim are optional,
	// best-effort companions: their absence must never fail session
	// creation, only leave st.body/st.notifier nil.
	if reader, err := bodytracker.Open(bodyStateMappingName, bodyStateEventName); err != nil {
		xrlog.Logger().Debug("session: no body-tracking sidecar", "err", err)
	} else {
		st.body = reader
	}
	st.graph = newGraph(inst.Host, inst.Config, st.body)

	notifier := companion.New(companionPipeName)
	st.sess.SetStatusNotifier(notifier)
	st.notifier = notifier

	if !headless {
		if err := bindGraphics(inst, st, graphicsAPITag(tag), graphicsBinding); err != nil {
			inst.Host.DestroySession(hostSession)
			inst.ReleaseSession(overlay)
			return resultFor(err)
		}
		// Every graphics backend shares the same D3D11 submission
		// device (see ensureSubmissionDevice), so a single Resolver
		// backs Preprocess's resolve/alpha-correct pass regardless of
		// which XrGraphicsBinding*KHR the application chained in.
		if st.d3d11 != nil {
			st.swapchains.SetResolver(d3d11interop.NewResolver(st.d3d11))
		}
	}

	st.frames = frame.NewManager(inst.Host, hostSession, st.sess, inst.Time, inst.Config, st.swapchains, refreshRateHz)

	id := insertSession(st)
	if outSession != nil {
		*outSession = C.XrSession(id.Raw())
	}
	return resultFor(nil)
}

func bindGraphics(inst *instance.Instance, st *sessionState, tag graphicsAPITag, binding uintptrParam) error {
	switch tag {
	case graphicsTagD3D11:
		return bindD3D11Session(inst, st, binding)
	case graphicsTagD3D12:
		return bindD3D12Session(inst, st, binding)
	case graphicsTagVulkan:
		return bindVulkanSession(inst, st, binding)
	case graphicsTagOpenGL:
		return bindOpenGLSession(inst, st)
	default:
		return xrerror.ErrGraphicsDeviceInvalid
	}
}

// closeGraphicsBridges releases per-session graphics interop state.
// st.d3d11 is the process-wide shared submission device (see
// ensureSubmissionDevice) and outlives the session, so it is never
// closed here; only the per-session D3D12 bridge owns resources scoped
// to this session's app-provided device and queue. Vulkan and OpenGL
// bridges resolve their entry points lazily and hold no handles that
// need releasing.
func closeGraphicsBridges(st *sessionState) {
	if st.d3d12 != nil {
		st.d3d12.Close()
	}
}

//export xrDestroySession
func xrDestroySession(h C.XrSession) C.XrResult {
	st, id, res := mustSessionState(h)
	if st == nil {
		return res
	}
	if _, err := removeSession(id); err != nil {
		return resultFor(err)
	}
	st.swapchains.DestroyAll()
	if st.frames != nil {
		st.frames.Stop()
	}
	if st.body != nil {
		st.body.Close()
	}
	if st.notifier != nil {
		st.notifier.Close()
	}
	closeGraphicsBridges(st)
	inst := st.sess.Instance
	overlay := st.sess.IsOverlay
	inst.Host.DestroySession(st.hostSession)
	inst.ReleaseSession(overlay)
	return resultFor(nil)
}

//export xrBeginSession
func xrBeginSession(h C.XrSession) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	if st.sess.State() != instance.SessionStateReady {
		return resultFor(xrerror.ErrSessionNotReady)
	}
	return resultFor(nil)
}

//export xrEndSession
func xrEndSession(h C.XrSession) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	return resultFor(st.sess.End(st.sess.Instance.Time.Now()))
}

//export xrRequestExitSession
func xrRequestExitSession(h C.XrSession) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	st.sess.RequestExit(st.sess.Instance.Time.Now())
	return resultFor(nil)
}
