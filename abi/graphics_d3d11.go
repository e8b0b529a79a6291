package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	d3d11interop "github.com/mbucchia/openxr-hostbridge/internal/interop/d3d11"
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
)

// d3d11MinFeatureLevel is the feature level internal/interop/d3d11's
// shared device is created with (D3D_FEATURE_LEVEL_11_0).
const d3d11MinFeatureLevel = 0xB000

// submissionDevice is the one D3D11 device every session's graphics
// backend ultimately synchronizes against, regardless of which
// XrGraphicsBinding*KHR the application chained in; see
// internal/interop/d3d11's package doc. It is created lazily the first
// time any Get*GraphicsRequirementsKHR is called and outlives every
// session, so it is never torn down by xrDestroySession.
var (
	submissionMu     sync.Mutex
	submissionDevice *d3d11interop.SubmissionDevice
)

func ensureSubmissionDevice(adapter unsafe.Pointer) (*d3d11interop.SubmissionDevice, error) {
	submissionMu.Lock()
	defer submissionMu.Unlock()
	if submissionDevice != nil {
		return submissionDevice, nil
	}
	dev, err := d3d11interop.Open(adapter)
	if err != nil {
		return nil, err
	}
	submissionDevice = dev
	return submissionDevice, nil
}

func writeLUID(dst []byte, luid d3d11interop.LUID) {
	*(*uint32)(unsafe.Pointer(&dst[0])) = luid.LowPart
	*(*int32)(unsafe.Pointer(&dst[4])) = luid.HighPart
}

//export xrGetD3D11GraphicsRequirementsKHR
func xrGetD3D11GraphicsRequirementsKHR(h C.XrInstance, systemID C.XrSystemId, out *C.XrGraphicsRequirementsD3D11KHR) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	dev, err := ensureSubmissionDevice(nil)
	if err != nil {
		return resultFor(xrerror.ErrGraphicsDeviceInvalid)
	}
	inst.ClaimGraphicsRequirements(instance.GraphicsD3D11)

	if out != nil {
		luid, err := dev.AdapterLUID()
		if err != nil {
			return resultFor(xrerror.ErrGraphicsDeviceInvalid)
		}
		writeLUID(out.adapterLuid[:], luid)
		out.minFeatureLevel = d3d11MinFeatureLevel
	}
	return resultFor(nil)
}

// bindD3D11Session validates the application's donated ID3D11Device and
// attaches the shared submission device to st. internal/interop/d3d11
// only constructs its own device against an adapter, not around an
// application-supplied ID3D11Device pointer, so a D3D11-native
// application shares the runtime's device rather than donating its own;
// this is a narrower contract than OpenXR's (which lets the application
// fully own the device) and is noted in DESIGN.md.
func bindD3D11Session(inst *instance.Instance, st *sessionState, binding uintptrParam) error {
	if !inst.HasClaimedGraphicsRequirements(instance.GraphicsD3D11) {
		return xrerror.ErrGraphicsRequirementsCallMissing
	}
	b := (*C.XrGraphicsBindingD3D11KHR)(unsafe.Pointer(uintptr(binding)))
	if b == nil || b.device == nil {
		return xrerror.ErrGraphicsDeviceInvalid
	}

	dev, err := ensureSubmissionDevice(nil)
	if err != nil {
		return xrerror.ErrGraphicsDeviceInvalid
	}
	st.graphicsAPI = instance.GraphicsD3D11
	st.d3d11 = dev
	return nil
}
