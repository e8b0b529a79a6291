package hostapi

import (
	"unsafe"

	"github.com/go-webgpu/goffi/types"

	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// CreateSwapchain asks the host compositor to allocate a swapchain
// matching desc, returning its handle.
func (c *Client) CreateSwapchain(session SessionHandle, desc SwapchainDesc) (SwapchainHandle, error) {
	e, err := c.resolve("Host_CreateSwapchain", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.PointerTypeDescriptor,
			types.PointerTypeDescriptor,
		})
	if err != nil {
		return 0, err
	}

	h := uint64(session)
	wireDesc := desc.toWire()
	descPtr := unsafe.Pointer(&wireDesc)
	var handle uint64
	handlePtr := unsafe.Pointer(&handle)

	args := [3]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&descPtr),
		unsafe.Pointer(&handlePtr),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	if err := checkResult("Host_CreateSwapchain", result); err != nil {
		return 0, err
	}

	xrlog.Logger().Debug("hostapi: CreateSwapchain", "handle", handle, "width", desc.Width, "height", desc.Height, "arraySize", desc.ArraySize)
	return SwapchainHandle(handle), nil
}

// DestroySwapchain releases a swapchain previously returned by
// CreateSwapchain.
func (c *Client) DestroySwapchain(session SessionHandle, swapchain SwapchainHandle) error {
	e, err := c.resolve("Host_DestroySwapchain", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.UInt64TypeDescriptor})
	if err != nil {
		return err
	}

	h := uint64(session)
	s := uint64(swapchain)
	args := [2]unsafe.Pointer{unsafe.Pointer(&h), unsafe.Pointer(&s)}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])

	xrlog.Logger().Debug("hostapi: DestroySwapchain", "handle", swapchain)
	return checkResult("Host_DestroySwapchain", result)
}

// AcquireSwapchainImage returns the index of the next writable image in
// the swapchain's ring, matching the XR_KHR... acquire/wait/release
// contract: the caller must still call Host_WaitSwapchainImage
// (modeled by the swapchain package's own wait logic) before writing,
// and release it when done.
func (c *Client) AcquireSwapchainImage(session SessionHandle, swapchain SwapchainHandle) (uint32, error) {
	e, err := c.resolve("Host_AcquireSwapchainImage", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt64TypeDescriptor,
			types.PointerTypeDescriptor,
		})
	if err != nil {
		return 0, err
	}

	h := uint64(session)
	s := uint64(swapchain)
	var index uint32
	indexPtr := unsafe.Pointer(&index)
	args := [3]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&s),
		unsafe.Pointer(&indexPtr),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	if err := checkResult("Host_AcquireSwapchainImage", result); err != nil {
		return 0, err
	}

	return index, nil
}
