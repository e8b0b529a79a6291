// Package abi is the cgo boundary between the C OpenXR entry-point table
// and this runtime's internal packages. Every exported xrFoo function
// here is a thin marshaling layer: decode the caller's C structs, call
// into internal/instance, internal/session, internal/frame,
// internal/spacegraph, internal/action, or internal/swapchain, encode
// the result back into the caller's C structs, and translate the
// returned Go error into an XrResult with xrerror.ToCode.
//
// There is one Instance per process (xrCreateInstance fails if one
// already exists), matching every other OpenXR runtime's loader
// contract; runtimeState below is the process-wide registry of
// everything xrCreateInstance/xrCreateSession spin up, keyed the way
// the C caller addresses them: a constant instance handle and a session
// table for the handful of sessions (one primary, any number of
// overlay) that can coexist.
package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"sync"
	"sync/atomic"

	"github.com/mbucchia/openxr-hostbridge/internal/action"
	"github.com/mbucchia/openxr-hostbridge/internal/bodytracker"
	"github.com/mbucchia/openxr-hostbridge/internal/companion"
	"github.com/mbucchia/openxr-hostbridge/internal/config"
	d3d11interop "github.com/mbucchia/openxr-hostbridge/internal/interop/d3d11"
	d3d12interop "github.com/mbucchia/openxr-hostbridge/internal/interop/d3d12"
	openglinterop "github.com/mbucchia/openxr-hostbridge/internal/interop/opengl"
	vulkaninterop "github.com/mbucchia/openxr-hostbridge/internal/interop/vulkan"
	"github.com/mbucchia/openxr-hostbridge/internal/frame"
	"github.com/mbucchia/openxr-hostbridge/internal/handle"
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/session"
	"github.com/mbucchia/openxr-hostbridge/internal/spacegraph"
	"github.com/mbucchia/openxr-hostbridge/internal/swapchain"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
)

// instanceHandle is the one XrInstance value this runtime ever hands
// out; a process that successfully called xrCreateInstance once has
// nothing left to distinguish a second instance by, so there is no
// point encoding anything richer into it.
const instanceHandle C.XrInstance = 1

// theInstance is nil until xrCreateInstance succeeds and is cleared by
// xrDestroyInstance. atomic.Pointer lets xrPollEvent and friends read it
// without taking a lock on every call.
var theInstance atomic.Pointer[instance.Instance]

// sessionState bundles everything a single XrSession owns: the state
// machine, frame lifecycle manager, pose graph, swapchain manager, the
// per-session handle table for spaces, the action sets attached to it,
// and whichever graphics interop bridge its XrGraphicsBinding selected.
type sessionState struct {
	hostSession hostapi.SessionHandle

	sess       *session.Session
	frames     *frame.Manager
	graph      *spacegraph.Graph
	swapchains *swapchain.Manager

	spaces *handle.Table[spacegraph.Space, handle.SpaceMarker]

	// attachedSets holds the action sets xrAttachSessionActionSets bound
	// to this session, the set xrSyncActions/xrGetActionState* operate
	// over. Action sets and actions themselves are created off
	// XrInstance (see actionSets/actionObjs in action.go) and outlive
	// any one session, so they are not owned by sessionState.
	attachedSets []*action.ActionSet

	body     *bodytracker.Reader
	notifier *companion.Notifier

	graphicsAPI instance.GraphicsAPI
	d3d11       *d3d11interop.SubmissionDevice
	d3d12       *d3d12interop.Bridge
	vulkan      *vulkaninterop.Bridge
	opengl      *openglinterop.Bridge
}

var (
	sessionsMu sync.Mutex
	sessions   = handle.NewTable[*sessionState, handle.SessionMarker]()
)

func activeInstance() (*instance.Instance, error) {
	inst := theInstance.Load()
	if inst == nil {
		return nil, xrerror.ErrHandleInvalid
	}
	return inst, nil
}

func lookupSession(raw handle.Raw) (*sessionState, handle.SessionID, error) {
	id := handle.FromRaw[handle.SessionMarker](raw)
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	st, err := sessions.Get(id)
	if err != nil {
		return nil, id, xrerror.ErrHandleInvalid
	}
	return st, id, nil
}

func insertSession(st *sessionState) handle.SessionID {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	return sessions.Insert(st)
}

func removeSession(id handle.SessionID) (*sessionState, error) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	st, err := sessions.Remove(id)
	if err != nil {
		return nil, xrerror.ErrHandleInvalid
	}
	return st, nil
}

// resultFor translates err via xrerror.ToCode into a C.XrResult, the
// last thing every exported function does before returning.
func resultFor(err error) C.XrResult {
	return C.XrResult(xrerror.ToCode(err))
}

// mustSessionState is a convenience for the many entry points that take
// an XrSession as their first argument and otherwise share nothing: it
// resolves the handle or returns the XrResult to propagate immediately.
func mustSessionState(h C.XrSession) (*sessionState, handle.SessionID, C.XrResult) {
	st, id, err := lookupSession(handle.Raw(h))
	if err != nil {
		return nil, id, resultFor(err)
	}
	return st, id, C.XrResult(xrerror.Success)
}

// newGraph passes body to spacegraph.NewGraph as a literal nil interface
// rather than a typed nil *bodytracker.Reader when no reader is
// configured, since spacegraph treats "body == nil" as "no body
// tracker" and a typed-nil-in-an-interface would not compare equal.
func newGraph(host *hostapi.Client, cfg *config.Watcher, body *bodytracker.Reader) *spacegraph.Graph {
	if body == nil {
		return spacegraph.NewGraph(host, cfg, nil)
	}
	return spacegraph.NewGraph(host, cfg, body)
}
