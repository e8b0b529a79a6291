// Package d3d11 owns the runtime's shared D3D11 submission device: the
// single device every graphics API backend (D3D11-native, D3D12,
// Vulkan, OpenGL) ultimately synchronizes against before the host
// compositor is handed a layer. D3D11-native applications either donate
// their own device directly or get a dedicated same-adapter device;
// every other API gets a dedicated device plus a cross-API fence.
//
// Grounded on hal/dx12's native-library-loading convention
// (syscall.NewLazyDLL against a system DLL, LazyProc per entry point)
// applied to d3d11.dll/dxgi.dll instead of d3d12.dll, and on the
// COM-vtable calling convention hal/dx12/d3d12 establishes for D3D12.
package d3d11

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"
)

var (
	d3d11dll     = syscall.NewLazyDLL("d3d11.dll")
	procD3D11CreateDevice = d3d11dll.NewProc("D3D11CreateDevice")

	loadOnce sync.Once
	loadErr  error
)

func ensureLoaded() error {
	loadOnce.Do(func() {
		loadErr = d3d11dll.Load()
	})
	return loadErr
}

// LUID mirrors the Win32 LUID structure.
type LUID struct {
	LowPart  uint32
	HighPart int32
}

// Equal reports whether two LUIDs refer to the same adapter.
func (l LUID) Equal(other LUID) bool {
	return l.LowPart == other.LowPart && l.HighPart == other.HighPart
}

const (
	d3d11CreateDeviceBGRASupport = 0x20
	d3d11SDKVersion              = 7
	driverTypeUnknown            = 0
	featureLevel11_0             = 0xB000
)

// SubmissionDevice is the runtime's shared D3D11 device and immediate
// context, plus the cross-API fence other backends synchronize against.
type SubmissionDevice struct {
	device  unsafe.Pointer // ID3D11Device
	context unsafe.Pointer // ID3D11DeviceContext4
	fence   unsafe.Pointer // ID3D11Fence

	nextFenceValue uint64
}

// Open creates the shared submission device on the given adapter (nil
// selects the default adapter) and creates the cross-API fence every
// other backend's bridge imports.
func Open(adapter unsafe.Pointer) (*SubmissionDevice, error) {
	if err := ensureLoaded(); err != nil {
		return nil, fmt.Errorf("interop/d3d11: load d3d11.dll: %w", err)
	}

	var device, context unsafe.Pointer
	ret, _, _ := procD3D11CreateDevice.Call(
		uintptr(adapter),
		uintptr(driverTypeUnknown),
		0,
		uintptr(d3d11CreateDeviceBGRASupport),
		0, 0, // pFeatureLevels, FeatureLevels count
		uintptr(d3d11SDKVersion),
		uintptr(unsafe.Pointer(&device)),
		0, // pFeatureLevel out (unused)
		uintptr(unsafe.Pointer(&context)),
	)
	if int32(ret) < 0 {
		return nil, fmt.Errorf("interop/d3d11: D3D11CreateDevice failed: hresult=%#x", uint32(ret))
	}

	dev5, err := queryInterface(device, &IID_ID3D11Device5)
	if err != nil {
		return nil, fmt.Errorf("interop/d3d11: ID3D11Device5 not available: %w", err)
	}
	ctx4, err := queryInterface(context, &IID_ID3D11DeviceContext4)
	if err != nil {
		release(dev5)
		return nil, fmt.Errorf("interop/d3d11: ID3D11DeviceContext4 not available: %w", err)
	}

	var fence unsafe.Pointer
	if _, err := callCOM(dev5, slotCreateFence,
		0, 0, // initial value, flags
		uintptr(unsafe.Pointer(&IID_ID3D11Fence)),
		uintptr(unsafe.Pointer(&fence)),
	); err != nil {
		release(ctx4)
		release(dev5)
		return nil, fmt.Errorf("interop/d3d11: ID3D11Device5.CreateFence failed: %w", err)
	}

	return &SubmissionDevice{device: dev5, context: ctx4, fence: fence}, nil
}

// AdapterLUID returns the LUID of the adapter this device was created
// against, via IDXGIDevice.GetAdapter -> IDXGIAdapter.GetDesc.
func (s *SubmissionDevice) AdapterLUID() (LUID, error) {
	dxgiDev, err := queryInterface(s.device, &IID_IDXGIDevice)
	if err != nil {
		return LUID{}, err
	}
	defer release(dxgiDev)

	var adapter unsafe.Pointer
	if _, err := callCOM(dxgiDev, slotGetAdapter, uintptr(unsafe.Pointer(&adapter))); err != nil {
		return LUID{}, err
	}
	defer release(adapter)

	// DXGI_ADAPTER_DESC begins with a 128-byte description string
	// followed by VendorId/DeviceId/SubSysId/Revision (4x uint32),
	// DedicatedVideoMemory/DedicatedSystemMemory/SharedSystemMemory
	// (3x uintptr), then AdapterLuid (LUID). GetDesc fills the struct
	// at a caller-provided pointer; only the LUID field is read here.
	var desc [176]byte
	if _, err := callCOM(adapter, slotGetDesc, uintptr(unsafe.Pointer(&desc[0]))); err != nil {
		return LUID{}, err
	}
	luidOffset := 128 + 4*4 + 3*unsafe.Sizeof(uintptr(0))
	return *(*LUID)(unsafe.Pointer(&desc[luidOffset])), nil
}

// ShareFenceHandle exports the submission device's fence as an NT handle
// other backends (D3D12, Vulkan, OpenGL) import as their own view of the
// same cross-API timeline.
func (s *SubmissionDevice) ShareFenceHandle() (syscall.Handle, error) {
	var handle syscall.Handle
	if _, err := callCOM(s.fence, slotFenceCreateSharedHandle,
		0, 0, 0, // pAttributes, Access (GENERIC_ALL=0x10000000 recommended), Name
		uintptr(unsafe.Pointer(&handle)),
	); err != nil {
		return 0, err
	}
	return handle, nil
}

// ImportSwapchainTexture opens an NT handle previously exported by a
// peer API (D3D12's CreateSharedHandle, Vulkan/GL's D3D11-exported
// handle flow runs the other direction) as a D3D11 resource this
// device's context can render into or composite from.
func (s *SubmissionDevice) ImportSwapchainTexture(h syscall.Handle) (unsafe.Pointer, error) {
	var resource unsafe.Pointer
	if _, err := callCOM(s.device, slotOpenSharedResource1,
		uintptr(h),
		0, // riid filled below via QueryInterface on the returned IUnknown
		uintptr(unsafe.Pointer(&resource)),
	); err != nil {
		return nil, fmt.Errorf("interop/d3d11: OpenSharedResource1 failed: %w", err)
	}
	return resource, nil
}

// SignalSubmission bumps and signals the cross-API fence on this
// device's context after the runtime's own preprocess/compositor work
// touching a shared texture completes, so peer APIs can wait on it.
func (s *SubmissionDevice) SignalSubmission() (uint64, error) {
	s.nextFenceValue++
	if _, err := callCOM(s.context, slotDeviceContextSignal,
		uintptr(s.fence),
		uintptr(s.nextFenceValue),
	); err != nil {
		return 0, err
	}
	return s.nextFenceValue, nil
}

// WaitOnSubmission blocks the submission device's context (GPU-side,
// not CPU-side) until the cross-API fence reaches value, before any
// further work on this device touches the shared texture.
func (s *SubmissionDevice) WaitOnSubmission(value uint64) error {
	_, err := callCOM(s.context, slotDeviceContextWait, uintptr(s.fence), uintptr(value))
	return err
}

// Close releases the submission device's fence, context, and device.
func (s *SubmissionDevice) Close() {
	release(s.fence)
	release(s.context)
	release(s.device)
}
