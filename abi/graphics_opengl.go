package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	openglinterop "github.com/mbucchia/openxr-hostbridge/internal/interop/opengl"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
)

//export xrGetOpenGLGraphicsRequirementsKHR
func xrGetOpenGLGraphicsRequirementsKHR(h C.XrInstance, systemID C.XrSystemId, out *C.XrGraphicsRequirementsOpenGLKHR) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	inst.ClaimGraphicsRequirements(instance.GraphicsOpenGL)
	if out != nil {
		out.minApiVersionSupported = C.uint64_t(vkAPIVersion(4, 3))
		out.maxApiVersionSupported = C.uint64_t(vkAPIVersion(4, 6))
	}
	return resultFor(nil)
}

// bindOpenGLSession attaches an openglinterop.Bridge and the shared
// D3D11 submission device to st. Unlike the other three APIs,
// XrGraphicsBindingOpenGLWin32KHR's hDC/hGLRC only identify a context
// to make current on the calling thread; openglinterop.Bridge resolves
// its entry points lazily against whatever context is current at call
// time, so nothing from the binding struct needs to be threaded through
// to the bridge itself.
func bindOpenGLSession(inst *instance.Instance, st *sessionState) error {
	if !inst.HasClaimedGraphicsRequirements(instance.GraphicsOpenGL) {
		return xrerror.ErrGraphicsRequirementsCallMissing
	}

	dev, err := ensureSubmissionDevice(nil)
	if err != nil {
		return xrerror.ErrGraphicsDeviceInvalid
	}

	st.graphicsAPI = instance.GraphicsOpenGL
	st.d3d11 = dev
	st.opengl = openglinterop.NewBridge()
	return nil
}
