package abi

/*
#include "xrtypes.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/internal/instance"
	vulkaninterop "github.com/mbucchia/openxr-hostbridge/internal/interop/vulkan"
	"github.com/mbucchia/openxr-hostbridge/internal/xrerror"
)

// vkAPIVersion packs a Vulkan API version the way VK_MAKE_API_VERSION
// does: variant 0, the given major/minor, patch 0.
func vkAPIVersion(major, minor uint64) uint64 {
	return major<<22 | minor<<12
}

//export xrGetGraphicsRequirementsVulkanKHR
func xrGetGraphicsRequirementsVulkanKHR(h C.XrInstance, systemID C.XrSystemId, out *C.XrGraphicsRequirementsVulkanKHR) C.XrResult {
	inst, err := activeInstance()
	if err != nil {
		return resultFor(err)
	}
	inst.ClaimGraphicsRequirements(instance.GraphicsVulkan)
	if out != nil {
		out.minApiVersionSupported = C.uint64_t(vkAPIVersion(1, 1))
		out.maxApiVersionSupported = C.uint64_t(vkAPIVersion(1, 3))
	}
	return resultFor(nil)
}

// bindVulkanSession wraps the application's VkInstance/VkDevice pair in
// a vulkaninterop.Bridge and attaches the shared D3D11 submission
// device the bridge's timeline semaphore ultimately synchronizes
// against. Matching the Vulkan physical device to the submission
// device's adapter by LUID would need vkGetPhysicalDeviceProperties2
// with VkPhysicalDeviceIDProperties chained in, which
// internal/interop/vulkan does not resolve; both devices are assumed to
// be the same (and only) adapter, true of every single-GPU host this
// runtime targets.
func bindVulkanSession(inst *instance.Instance, st *sessionState, binding uintptrParam) error {
	if !inst.HasClaimedGraphicsRequirements(instance.GraphicsVulkan) {
		return xrerror.ErrGraphicsRequirementsCallMissing
	}
	b := (*C.XrGraphicsBindingVulkanKHR)(unsafe.Pointer(uintptr(binding)))
	if b == nil || b.instance == 0 || b.device == 0 {
		return xrerror.ErrGraphicsDeviceInvalid
	}

	bridge, err := vulkaninterop.NewBridge(vulkaninterop.Instance(b.instance), vulkaninterop.Device(b.device))
	if err != nil {
		return err
	}

	dev, err := ensureSubmissionDevice(nil)
	if err != nil {
		return xrerror.ErrGraphicsDeviceInvalid
	}

	st.graphicsAPI = instance.GraphicsVulkan
	st.d3d11 = dev
	st.vulkan = bridge
	return nil
}
