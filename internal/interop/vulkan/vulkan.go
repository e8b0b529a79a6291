// Package vulkan bridges a Vulkan application to the runtime's shared
// D3D11 submission device. The application either bootstraps its own
// VkInstance/VkDevice (matched to the submission device's adapter by
// LUID) or hands the runtime an existing one; either way, swapchain
// images are allocated by the D3D11 submission device and imported
// into Vulkan as external-memory images through VK_KHR_external_memory_win32,
// synchronized against the cross-API fence through a VK_KHR_external_semaphore_win32
// timeline semaphore opened on the same shared handle.
//
// Grounded on hal/vulkan/vk's loader (vkGetInstanceProcAddr/
// vkGetDeviceProcAddr resolution via goffi) and on internal/hostapi's
// resolve-and-cache convention for goffi call interfaces; this package
// does not import hal/vulkan/vk directly; the entry points it needs
// are resolved and called against a bare instance/device handle.
package vulkan

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// Instance and Device are opaque Vulkan dispatchable handles.
type Instance uintptr
type Device uintptr
type PhysicalDevice uintptr

// LUID mirrors the 8-byte adapter LUID reported by
// VkPhysicalDeviceIDProperties.deviceLUID when deviceLUIDValid is true.
type LUID [8]byte

var (
	vulkanLib             unsafe.Pointer
	vkGetInstanceProcAddr unsafe.Pointer
	loadOnce              sync.Once
	loadErr               error
)

func ensureLoaded() error {
	loadOnce.Do(func() {
		vulkanLib, loadErr = ffi.LoadLibrary(libraryName())
		if loadErr != nil {
			return
		}
		vkGetInstanceProcAddr, loadErr = ffi.GetSymbol(vulkanLib, "vkGetInstanceProcAddr")
	})
	return loadErr
}

func libraryName() string {
	return "vulkan-1.dll"
}

// entry is a resolved Vulkan function: its address plus a prepared
// goffi call interface, matching internal/hostapi's callEntry.
type entry struct {
	fn  unsafe.Pointer
	cif types.CallInterface
}

// Bridge owns a resolve cache scoped to one VkInstance/VkDevice pair and
// the timeline semaphore imported from the submission device's shared
// fence handle.
type Bridge struct {
	instance Instance
	device   Device

	mu      sync.Mutex
	entries map[string]*entry

	timelineSemaphore uintptr // VkSemaphore
}

// NewBridge wraps an application-provided (or runtime-bootstrapped)
// VkInstance/VkDevice pair.
func NewBridge(instance Instance, device Device) (*Bridge, error) {
	if err := ensureLoaded(); err != nil {
		return nil, fmt.Errorf("interop/vulkan: load libvulkan: %w", err)
	}
	return &Bridge{instance: instance, device: device, entries: make(map[string]*entry)}, nil
}

func (b *Bridge) resolveDevice(name string, ret *types.TypeDescriptor, args []*types.TypeDescriptor) (*entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.entries[name]; ok {
		return e, nil
	}

	fn := getDeviceProcAddr(b.instance, b.device, name)
	if fn == nil {
		return nil, fmt.Errorf("interop/vulkan: %s not available on this device", name)
	}
	var cif types.CallInterface
	if err := ffi.PrepareCallInterface(&cif, types.DefaultCall, ret, args); err != nil {
		return nil, fmt.Errorf("interop/vulkan: prepare call interface for %s: %w", name, err)
	}
	e := &entry{fn: fn, cif: cif}
	b.entries[name] = e
	return e, nil
}

func getInstanceProcAddr(instance Instance, name string) unsafe.Pointer {
	nameBytes := append([]byte(name), 0)
	var cif types.CallInterface
	if err := ffi.PrepareCallInterface(&cif, types.DefaultCall, types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor}); err != nil {
		return nil
	}
	h := uint64(instance)
	namePtr := unsafe.Pointer(&nameBytes[0])
	var result unsafe.Pointer
	args := [2]unsafe.Pointer{unsafe.Pointer(&h), unsafe.Pointer(&namePtr)}
	ffi.CallFunction(&cif, vkGetInstanceProcAddr, unsafe.Pointer(&result), args[:])
	return result
}

var (
	vkGetDeviceProcAddrByInstance = map[Instance]unsafe.Pointer{}
	deviceProcAddrMu              sync.Mutex
)

func getDeviceProcAddr(instance Instance, device Device, name string) unsafe.Pointer {
	deviceProcAddrMu.Lock()
	fn, ok := vkGetDeviceProcAddrByInstance[instance]
	deviceProcAddrMu.Unlock()
	if !ok {
		fn = getInstanceProcAddr(instance, "vkGetDeviceProcAddr")
		deviceProcAddrMu.Lock()
		vkGetDeviceProcAddrByInstance[instance] = fn
		deviceProcAddrMu.Unlock()
	}
	if fn == nil {
		return nil
	}

	nameBytes := append([]byte(name), 0)
	var cif types.CallInterface
	if err := ffi.PrepareCallInterface(&cif, types.DefaultCall, types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor}); err != nil {
		return nil
	}
	h := uint64(device)
	namePtr := unsafe.Pointer(&nameBytes[0])
	var result unsafe.Pointer
	args := [2]unsafe.Pointer{unsafe.Pointer(&h), unsafe.Pointer(&namePtr)}
	ffi.CallFunction(&cif, fn, unsafe.Pointer(&result), args[:])
	return result
}

// ImportTimelineSemaphore imports the submission device's shared fence
// handle as a Vulkan timeline semaphore via
// vkImportSemaphoreWin32HandleKHR, after first creating a semaphore
// with VkExportSemaphoreCreateInfo/VkSemaphoreTypeCreateInfo chained in
// (the caller is expected to have created it that way; only the import
// step, which is the cross-API handoff, lives here).
func (b *Bridge) ImportTimelineSemaphore(semaphore uintptr, handle uintptr) error {
	e, err := b.resolveDevice("vkImportSemaphoreWin32HandleKHR", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor})
	if err != nil {
		return err
	}

	// VkImportSemaphoreWin32HandleInfoKHR{sType, pNext, semaphore,
	// flags, handleType, handle, name}; only the fields the import
	// actually varies across calls are set explicitly here, the rest
	// follow VK_STRUCTURE_TYPE_IMPORT_SEMAPHORE_WIN32_HANDLE_INFO_KHR's
	// fixed layout.
	info := struct {
		sType      uint32
		pNext      uintptr
		semaphore  uint64
		flags      uint32
		handleType uint32
		handle     uintptr
		name       uintptr
	}{
		sType:      1000078000, // VK_STRUCTURE_TYPE_IMPORT_SEMAPHORE_WIN32_HANDLE_INFO_KHR
		semaphore:  uint64(semaphore),
		handleType: 1 << 3, // VK_EXTERNAL_SEMAPHORE_HANDLE_TYPE_D3D11_FENCE_BIT (alias of D3D12_FENCE_BIT)
		handle:     handle,
	}
	h := uint64(b.device)
	infoPtr := unsafe.Pointer(&info)
	var result int32
	args := [2]unsafe.Pointer{unsafe.Pointer(&h), unsafe.Pointer(&infoPtr)}
	ffi.CallFunction(&e.cif, e.fn, unsafe.Pointer(&result), args[:])
	if result != 0 {
		return fmt.Errorf("interop/vulkan: vkImportSemaphoreWin32HandleKHR failed: result=%d", result)
	}
	b.timelineSemaphore = semaphore
	return nil
}

// TimelineSemaphore returns the semaphore imported by
// ImportTimelineSemaphore, for use in the app's own submit info.
func (b *Bridge) TimelineSemaphore() uintptr {
	return b.timelineSemaphore
}
