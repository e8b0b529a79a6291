package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
	"github.com/mbucchia/openxr-hostbridge/internal/xrpath"
)

// cStringArray reads count null-terminated C strings out of a C
// char** argument, the shape XrInstanceCreateInfo.enabledExtensionNames
// arrives in.
func cStringArray(arr **C.char, count C.uint32_t) []string {
	if arr == nil || count == 0 {
		return nil
	}
	slice := unsafe.Slice(arr, int(count))
	out := make([]string, len(slice))
	for i, s := range slice {
		out[i] = C.GoString(s)
	}
	return out
}

//export xrCreateInstance
func xrCreateInstance(appName, engineName *C.char, extensionNames **C.char, extensionCount C.uint32_t, configPath *C.char, outInstance *C.XrInstance) C.XrResult {
	if theInstance.Load() != nil {
		return resultFor(xrerror.ErrValidation)
	}

	host, err := hostapi.Open()
	if err != nil {
		return resultFor(xrerror.ErrInstanceLost)
	}

	opts := instance.Options{
		AppName:    C.GoString(appName),
		EngineName: C.GoString(engineName),
		Extensions: cStringArray(extensionNames, extensionCount),
		HostClient: host,
	}
	if configPath != nil {
		opts.ConfigPath = C.GoString(configPath)
	}

	inst := instance.New(opts)
	theInstance.Store(inst)
	if outInstance != nil {
		*outInstance = instanceHandle
	}
	return resultFor(nil)
}

//export xrDestroyInstance
func xrDestroyInstance(h C.XrInstance) C.XrResult {
	inst := theInstance.Load()
	if inst == nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	theInstance.Store(nil)
	return resultFor(inst.Destroy())
}

//export xrGetSystem
func xrGetSystem(h C.XrInstance, outSystemID *C.XrSystemId) C.XrResult {
	if _, err := activeInstance(); err != nil {
		return resultFor(err)
	}
	if outSystemID != nil {
		*outSystemID = C.XrSystemId(instance.SystemID)
	}
	return resultFor(nil)
}

//export xrGetSystemProperties
func xrGetSystemProperties(h C.XrInstance, systemID C.XrSystemId, out *C.XrSystemProperties) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	props, err := inst.SystemProperties()
	if err != nil {
		return resultFor(err)
	}
	if out == nil {
		return resultFor(nil)
	}
	out.systemId = C.XrSystemId(systemID)
	out.vendorId = C.uint32_t(props.VendorID)
	writeFixedString(out.systemName[:], props.SystemName)
	out.graphicsProperties.maxSwapchainImageWidth = C.uint32_t(props.MaxSwapchainWidth)
	out.graphicsProperties.maxSwapchainImageHeight = C.uint32_t(props.MaxSwapchainHeight)
	out.graphicsProperties.maxLayerCount = C.uint32_t(props.MaxLayerCount)
	out.trackingProperties.orientationTracking = boolToC(props.OrientationTracking)
	out.trackingProperties.positionTracking = boolToC(props.PositionTracking)
	return resultFor(nil)
}

func boolToC(b bool) C.XrBool32 {
	if b {
		return 1
	}
	return 0
}

// writeFixedString copies s, NUL-terminated, into a fixed-size C char
// array, truncating if s is too long for it (the array is always left
// NUL-terminated as long as it has room for at least one byte).
func writeFixedString(dst []C.char, s string) {
	if len(dst) == 0 {
		return
	}
	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	for i := 0; i < n; i++ {
		dst[i] = C.char(s[i])
	}
	dst[n] = 0
}

//export xrStringToPath
func xrStringToPath(h C.XrInstance, pathString *C.char, outPath *C.XrPath) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	p, err := inst.Paths.Intern(C.GoString(pathString))
	if err != nil {
		return resultFor(xrerror.ErrPathFormatInvalid)
	}
	if outPath != nil {
		*outPath = C.XrPath(p)
	}
	return resultFor(nil)
}

//export xrPathToString
func xrPathToString(h C.XrInstance, path C.XrPath, bufferCapacityInput C.uint32_t, bufferCountOutput *C.uint32_t, buffer *C.char) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	s, err := inst.Paths.String(xrpath.Path(path))
	if err != nil {
		return resultFor(xrerror.ErrPathInvalid)
	}

	needed := C.uint32_t(len(s) + 1)
	if bufferCountOutput != nil {
		*bufferCountOutput = needed
	}
	if bufferCapacityInput == 0 {
		return resultFor(nil)
	}
	if bufferCapacityInput < needed {
		return resultFor(xrerror.ErrSizeInsufficient)
	}
	writeFixedString(unsafe.Slice(buffer, int(bufferCapacityInput)), s)
	return resultFor(nil)
}

//export xrPollEvent
func xrPollEvent(h C.XrInstance, out *C.XrEventDataBuffer) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	ev, ok := inst.Events.Pop()
	if !ok {
		return C.XrResult(eventUnavailable)
	}
	if out != nil {
		writeEvent(out, ev)
	}
	return resultFor(nil)
}

// eventUnavailable is XR_EVENT_UNAVAILABLE, the one OpenXR "success"
// code this runtime returns outside xrerror's failure taxonomy (events
// draining is not an error condition).
const eventUnavailable = 4

func writeEvent(out *C.XrEventDataBuffer, ev instance.Event) {
	switch ev.Type {
	case instance.EventSessionStateChanged:
		dst := (*C.XrEventDataSessionStateChanged)(unsafe.Pointer(out))
		dst.state = C.uint32_t(ev.State)
		dst.time = C.XrTime(ev.Time)
	case instance.EventInteractionProfileChanged:
		_ = (*C.XrEventDataInteractionProfileChanged)(unsafe.Pointer(out))
	case instance.EventReferenceSpaceChangePending:
		dst := (*C.XrEventDataReferenceSpaceChangePending)(unsafe.Pointer(out))
		dst.referenceSpaceType = C.uint32_t(ev.ReferenceSpaceType)
		dst.changeTime = C.XrTime(ev.Time)
		dst.poseValid = 1
	case instance.EventInstanceLossPending:
		dst := (*C.XrEventDataInstanceLossPending)(unsafe.Pointer(out))
		dst.lossTime = C.XrTime(ev.Time)
	}
}
