//go:build windows

package d3d11

import (
	"syscall"
	"unsafe"
)

// comObject is the address of a COM object: a pointer to a pointer to its
// vtable. Every Win32 COM interface starts this way, which is all this
// package needs: rather than mirror hal/dx12/d3d12's fully-named vtable
// structs (practical there because every D3D12 method is exercised;
// here only a handful of D3D11/DXGI methods across several interfaces
// ever get called), interop vtable calls are indexed directly against
// published Microsoft vtable slot numbers.
type comObject struct {
	vtbl *uintptr
}

func vtblSlot(obj unsafe.Pointer, index int) uintptr {
	vtbl := *(**[256]uintptr)(obj)
	return vtbl[index]
}

func callCOM(obj unsafe.Pointer, index int, args ...uintptr) (uintptr, error) {
	fn := vtblSlot(obj, index)
	all := append([]uintptr{uintptr(obj)}, args...)
	var ret uintptr
	switch len(all) {
	case 1:
		ret, _, _ = syscall.Syscall(fn, 1, all[0], 0, 0)
	case 2:
		ret, _, _ = syscall.Syscall(fn, 2, all[0], all[1], 0)
	case 3:
		ret, _, _ = syscall.Syscall(fn, 3, all[0], all[1], all[2])
	case 4:
		ret, _, _ = syscall.Syscall6(fn, 4, all[0], all[1], all[2], all[3], 0, 0)
	case 5:
		ret, _, _ = syscall.Syscall6(fn, 5, all[0], all[1], all[2], all[3], all[4], 0)
	case 6:
		ret, _, _ = syscall.Syscall6(fn, 6, all[0], all[1], all[2], all[3], all[4], all[5])
	case 7:
		ret, _, _ = syscall.Syscall9(fn, 7, all[0], all[1], all[2], all[3], all[4], all[5], all[6], 0, 0)
	case 8:
		ret, _, _ = syscall.Syscall9(fn, 8, all[0], all[1], all[2], all[3], all[4], all[5], all[6], all[7], 0)
	case 9:
		ret, _, _ = syscall.Syscall9(fn, 9, all[0], all[1], all[2], all[3], all[4], all[5], all[6], all[7], all[8])
	default:
		panic("interop/d3d11: callCOM supports at most 8 extra args")
	}
	if int32(ret) < 0 {
		return ret, syscall.Errno(ret & 0xFFFF)
	}
	return ret, nil
}

// COM vtable slot numbers, by interface. IUnknown occupies 0-2 on every
// interface; everything after that follows the MSDN-documented order for
// the interface named in the comment.
const (
	slotQueryInterface = 0
	slotAddRef         = 1
	slotRelease        = 2

	// ID3D11Device
	slotCreateTexture2D     = 5
	slotCreateDeviceContext = 0 // unused: context is supplied by the app
	slotOpenSharedResource  = 32
	slotGetImmediateContext = 27
	slotQueryInterfaceAgain = slotQueryInterface

	// ID3D11Device1 (extends ID3D11Device)
	slotOpenSharedResource1 = 40

	// ID3D11Device5 (extends ID3D11Device1 / ID3D11Device4)
	slotOpenSharedFence = 47
	slotCreateFence     = 46

	// ID3D11DeviceContext4 (extends ID3D11DeviceContext3)
	slotDeviceContextSignal = 115
	slotDeviceContextWait   = 116

	// ID3D11Fence
	slotFenceCreateSharedHandle  = 3
	slotFenceGetCompletedValue   = 4
	slotFenceSetEventOnCompletion = 5

	// IDXGIDevice
	slotGetAdapter = 7

	// IDXGIAdapter
	slotGetDesc = 8

	// IDXGIResource1
	slotCreateSharedHandleResource = 10

	// ID3D11Device (full vtable, canonical MSDN order; only the entries
	// the resolve/alpha-correct pass needs are named)
	slotCreateBuffer              = 3
	slotCreateShaderResourceView  = 7
	slotCreateUnorderedAccessView = 8
	slotCreateComputeShader       = 18

	// ID3D11DeviceContext (canonical MSDN order)
	slotDispatch                = 41
	slotCopySubresourceRegion   = 46
	slotUpdateSubresource       = 48
	slotResolveSubresource      = 57
	slotCSSetShaderResources    = 67
	slotCSSetUnorderedAccessViews = 68
	slotCSSetShader             = 69
	slotCSSetConstantBuffers    = 71
)

func release(obj unsafe.Pointer) {
	if obj == nil {
		return
	}
	callCOM(obj, slotRelease)
}

func queryInterface(obj unsafe.Pointer, iid *GUID) (unsafe.Pointer, error) {
	var out unsafe.Pointer
	_, err := callCOM(obj, slotQueryInterface, uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&out)))
	if err != nil {
		return nil, err
	}
	return out, nil
}
