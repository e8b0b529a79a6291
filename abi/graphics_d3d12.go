package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/hal/dx12/d3d12"
	d3d12interop "github.com/mbucchia/openxr-hostbridge/internal/interop/d3d12"
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

//export xrGetD3D12GraphicsRequirementsKHR
func xrGetD3D12GraphicsRequirementsKHR(h C.XrInstance, systemID C.XrSystemId, out *C.XrGraphicsRequirementsD3D12KHR) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	dev, err := ensureSubmissionDevice(nil)
	if err != nil {
		return resultFor(xrerror.ErrGraphicsDeviceInvalid)
	}
	inst.ClaimGraphicsRequirements(instance.GraphicsD3D12)

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

// bindD3D12Session wraps the application's ID3D12Device/ID3D12CommandQueue
// pair in a d3d12interop.Bridge and attaches both the bridge and the
// shared D3D11 submission device (created against the default adapter;
// a mismatch with the application's D3D12 adapter is logged as a
// warning, not rejected) to st.
func bindD3D12Session(inst *instance.Instance, st *sessionState, binding uintptrParam) error {
	if !inst.HasClaimedGraphicsRequirements(instance.GraphicsD3D12) {
		return xrerror.ErrGraphicsRequirementsCallMissing
	}
	b := (*C.XrGraphicsBindingD3D12KHR)(unsafe.Pointer(uintptr(binding)))
	if b == nil || b.device == nil || b.queue == nil {
		return xrerror.ErrGraphicsDeviceInvalid
	}

	device := (*d3d12.ID3D12Device)(b.device)
	queue := (*d3d12.ID3D12CommandQueue)(b.queue)
	bridge, err := d3d12interop.NewBridge(device, queue)
	if err != nil {
		return err
	}

	dev, err := ensureSubmissionDevice(nil)
	if err != nil {
		bridge.Close()
		return xrerror.ErrGraphicsDeviceInvalid
	}

	if luid, err := dev.AdapterLUID(); err == nil {
		appLUID := bridge.AdapterLUID()
		if appLUID.LowPart != luid.LowPart || appLUID.HighPart != luid.HighPart {
			xrlog.Logger().Warn("abi: d3d12 app adapter differs from submission device adapter",
				"appLow", appLUID.LowPart, "appHigh", appLUID.HighPart,
				"subLow", luid.LowPart, "subHigh", luid.HighPart)
		}
	}

	st.graphicsAPI = instance.GraphicsD3D12
	st.d3d11 = dev
	st.d3d12 = bridge
	return nil
}
