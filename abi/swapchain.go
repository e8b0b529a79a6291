package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/internal/handle"
	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	"github.com/mbucchia/openxr-hostbridge/internal/swapchain"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
)

// formatToHost translates an application-native format code into the
// host swapchain format, using the table for whichever graphics API the
// session bound.
func formatToHost(api instance.GraphicsAPI, vendorFormat int64) (swapchain.Format, bool) {
	switch api {
	case instance.GraphicsD3D11, instance.GraphicsD3D12:
		return swapchain.DXGIFormatToHost(uint32(vendorFormat))
	case instance.GraphicsVulkan:
		return swapchain.VulkanFormatToHost(uint32(vendorFormat))
	case instance.GraphicsOpenGL:
		return swapchain.OpenGLFormatToHost(uint32(vendorFormat))
	default:
		return 0, false
	}
}

// vendorFormatCodes lists every vendor format code this runtime
// advertises support for through xrEnumerateSwapchainFormats, for
// whichever graphics API the session bound.
func vendorFormatCodes(api instance.GraphicsAPI) []int64 {
	switch api {
	case instance.GraphicsD3D11, instance.GraphicsD3D12:
		return []int64{28, 29, 87, 91, 10, 40, 45, 24}
	case instance.GraphicsVulkan:
		return []int64{37, 43, 50, 57, 97, 126, 129, 64}
	case instance.GraphicsOpenGL:
		return []int64{0x8058, 0x8C43, 0x881A, 0x8CAC, 0x88F0, 0x8059}
	default:
		return nil
	}
}

//export xrEnumerateSwapchainFormats
func xrEnumerateSwapchainFormats(h C.XrSession, capacityInput C.uint32_t, countOutput *C.uint32_t, formats *C.int64_t) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	codes := vendorFormatCodes(st.graphicsAPI)

	if countOutput != nil {
		*countOutput = C.uint32_t(len(codes))
	}
	if capacityInput == 0 || formats == nil {
		return resultFor(nil)
	}
	if int(capacityInput) < len(codes) {
		return resultFor(xrerror.ErrSizeInsufficient)
	}
	dst := unsafe.Slice(formats, int(capacityInput))
	for i, c := range codes {
		dst[i] = C.int64_t(c)
	}
	return resultFor(nil)
}

//export xrCreateSwapchain
func xrCreateSwapchain(h C.XrSession, createInfo C.XrSwapchainCreateInfo, outSwapchain *C.XrSwapchain) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}

	format, ok := formatToHost(st.graphicsAPI, int64(createInfo.format))
	if !ok {
		return resultFor(xrerror.ErrSwapchainFormatUnsupported)
	}

	desc := swapchain.Desc{
		Width:       uint32(createInfo.width),
		Height:      uint32(createInfo.height),
		Format:      format,
		SampleCount: uint32(createInfo.sampleCount),
		ArraySize:   uint32(createInfo.arraySize),
		FaceCount:   uint32(createInfo.faceCount),
		MipCount:    uint32(createInfo.mipCount),
		Usage:       swapchain.UsageFlags(createInfo.usageFlags),
	}
	id, err := st.swapchains.Create(desc)
	if err != nil {
		return resultFor(err)
	}
	if outSwapchain != nil {
		*outSwapchain = C.XrSwapchain(id.Raw())
	}
	return resultFor(nil)
}

//export xrDestroySwapchain
func xrDestroySwapchain(h C.XrSession, swapchainHandle C.XrSwapchain) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	id := handle.FromRaw[handle.SwapchainMarker](handle.Raw(swapchainHandle))
	return resultFor(st.swapchains.Destroy(id))
}

//export xrEnumerateSwapchainImages
func xrEnumerateSwapchainImages(h C.XrSession, swapchainHandle C.XrSwapchain, capacityInput C.uint32_t, countOutput *C.uint32_t, images *C.uint64_t) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	id := handle.FromRaw[handle.SwapchainMarker](handle.Raw(swapchainHandle))
	sc, err := st.swapchains.Get(id)
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}

	count := sc.LayerCount()
	if countOutput != nil {
		*countOutput = C.uint32_t(count)
	}
	if capacityInput == 0 || images == nil {
		return resultFor(nil)
	}
	if int(capacityInput) < count {
		return resultFor(xrerror.ErrSizeInsufficient)
	}

	dst := unsafe.Slice(images, int(capacityInput))
	for i := 0; i < count; i++ {
		native, err := swapchainNativeHandle(st, sc, i)
		if err != nil {
			return resultFor(err)
		}
		dst[i] = C.uint64_t(native)
	}
	return resultFor(nil)
}

//export xrAcquireSwapchainImage
func xrAcquireSwapchainImage(h C.XrSession, swapchainHandle C.XrSwapchain, outIndex *C.uint32_t) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	id := handle.FromRaw[handle.SwapchainMarker](handle.Raw(swapchainHandle))
	sc, err := st.swapchains.Get(id)
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	idx, err := sc.Acquire()
	if err != nil {
		return resultFor(err)
	}
	if outIndex != nil {
		*outIndex = C.uint32_t(idx)
	}
	return resultFor(nil)
}

//export xrWaitSwapchainImage
func xrWaitSwapchainImage(h C.XrSession, swapchainHandle C.XrSwapchain, index C.uint32_t) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	id := handle.FromRaw[handle.SwapchainMarker](handle.Raw(swapchainHandle))
	sc, err := st.swapchains.Get(id)
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	return resultFor(sc.Wait(uint32(index)))
}

//export xrReleaseSwapchainImage
func xrReleaseSwapchainImage(h C.XrSession, swapchainHandle C.XrSwapchain) C.XrResult {
	st, _, res := mustSessionState(h)
	if st == nil {
		return res
	}
	id := handle.FromRaw[handle.SwapchainMarker](handle.Raw(swapchainHandle))
	sc, err := st.swapchains.Get(id)
	if err != nil {
		return resultFor(xrerror.ErrHandleInvalid)
	}
	return resultFor(sc.Release())
}

// swapchainNativeHandle returns the value xrEnumerateSwapchainImages
// reports for layer i of sc: the host runtime's swapchain handle for
// that slice, cast to uintptr. The same value is reported whichever
// graphics API the session bound; it is not imported into any interop
// bridge and is neither a native texture pointer nor a shared NT handle.
func swapchainNativeHandle(st *sessionState, sc *swapchain.Swapchain, layer int) (uintptr, error) {
	sliceHandle, ok := sc.SliceHandle(layer)
	if !ok {
		return 0, xrerror.ErrIndexOutOfRange
	}
	if st.d3d11 == nil {
		return 0, xrerror.ErrGraphicsDeviceInvalid
	}

	// The host runtime's swapchain handle identifies a host-side slice,
	// not a caller-mappable NT handle; exporting it as one is a
	// capability internal/hostapi does not expose (see DESIGN.md), so
	// the handle reported here is that host slice handle cast to
	// uintptr. D3D11, D3D12, Vulkan and OpenGL sessions all report the
	// same value, an opaque cookie rather than a dereferenceable native
	// handle.
	return uintptr(sliceHandle), nil
}
