//go:build windows

// Package d3d12 bridges a D3D12 application to the runtime's shared D3D11
// submission device. A D3D12 app never touches the submission device's
// swapchain directly: the runtime's D3D11-owned swapchain textures are
// exported as NT handles and opened on the app's D3D12 device, and a
// single fence crossing both APIs keeps the two timelines in order.
//
// Per-frame sequencing (see EndFrame in internal/frame):
//  1. The app records its rendering into the shared texture and signals
//     fenceValue on its own D3D12 queue.
//  2. d3d11.SubmissionDevice.WaitOnSubmission blocks the D3D11 context until that fence
//     value is reached before the runtime's own preprocess pass touches
//     the texture.
package d3d12

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/hal/dx12/d3d12"
	"golang.org/x/sys/windows"
)

// Bridge owns the D3D12 side of a cross-API shared fence and the shared
// swapchain texture handles opened from the runtime's D3D11 device.
type Bridge struct {
	device     *d3d12.ID3D12Device
	queue      *d3d12.ID3D12CommandQueue
	fence      *d3d12.ID3D12Fence
	fenceEvent windows.Handle
	fenceValue uint64
}

// NewBridge wraps the application-provided D3D12 device and queue (from
// XrGraphicsBindingD3D12KHR) and creates the cross-API fence the runtime
// uses to order its own D3D11 work against the app's D3D12 submissions.
func NewBridge(device *d3d12.ID3D12Device, queue *d3d12.ID3D12CommandQueue) (*Bridge, error) {
	fence, err := device.CreateFence(0, d3d12.D3D12_FENCE_FLAG_SHARED)
	if err != nil {
		return nil, fmt.Errorf("interop/d3d12: CreateFence failed: %w", err)
	}
	event, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		fence.Release()
		return nil, fmt.Errorf("interop/d3d12: CreateEvent failed: %w", err)
	}
	return &Bridge{device: device, queue: queue, fence: fence, fenceEvent: event}, nil
}

// AdapterLUID reports the LUID of the app's D3D12 device, so the
// submission device can be created or matched against the same adapter.
func (b *Bridge) AdapterLUID() d3d12.LUID {
	return b.device.GetAdapterLuid()
}

// ShareFenceHandle exports the bridge fence as an NT handle the D3D11
// submission device opens via ID3D11Device5.OpenSharedFence.
func (b *Bridge) ShareFenceHandle() (syscall.Handle, error) {
	h, err := b.device.CreateSharedHandle((*d3d12.ID3D12Pageable)(unsafe.Pointer(b.fence)), 0, nil)
	if err != nil {
		return 0, fmt.Errorf("interop/d3d12: CreateSharedHandle(fence) failed: %w", err)
	}
	return h, nil
}

// ImportSwapchainTexture opens an NT handle exported by the D3D11
// submission device's swapchain texture as an ID3D12Resource on the
// app's device, so the app can render directly into the runtime's
// swapchain image without a copy.
func (b *Bridge) ImportSwapchainTexture(h syscall.Handle) (*d3d12.ID3D12Resource, error) {
	resource, err := b.device.OpenSharedHandleAsResource(h)
	if err != nil {
		return nil, fmt.Errorf("interop/d3d12: OpenSharedHandle(texture) failed: %w", err)
	}
	return resource, nil
}

// SignalSubmitted bumps the fence and signals it on the app's queue at
// the end of the app's per-frame command list, returning the value the
// D3D11 submission device must wait for before its own preprocess pass.
func (b *Bridge) SignalSubmitted() (uint64, error) {
	b.fenceValue++
	if err := b.queue.Signal(b.fence, b.fenceValue); err != nil {
		return 0, fmt.Errorf("interop/d3d12: queue.Signal failed: %w", err)
	}
	return b.fenceValue, nil
}

// WaitLocal blocks the calling goroutine (the runtime's async submission
// thread, never the app's own thread) until the fence reaches value. This
// is used only for diagnostics; the real cross-device wait happens on the
// D3D11 context via the shared fence handle, not here.
func (b *Bridge) WaitLocal(value uint64, timeoutMs uint32) error {
	if b.fence.GetCompletedValue() >= value {
		return nil
	}
	if err := b.fence.SetEventOnCompletion(value, uintptr(b.fenceEvent)); err != nil {
		return err
	}
	_, err := windows.WaitForSingleObject(b.fenceEvent, timeoutMs)
	return err
}

// Close releases the bridge fence and its wait event.
func (b *Bridge) Close() {
	if b.fenceEvent != 0 {
		windows.CloseHandle(b.fenceEvent)
		b.fenceEvent = 0
	}
	if b.fence != nil {
		b.fence.Release()
		b.fence = nil
	}
}
