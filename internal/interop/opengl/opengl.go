//go:build windows

// Package opengl bridges an OpenGL application to the runtime's shared
// D3D11 submission device. Swapchain images are allocated by the D3D11
// submission device and imported as GL memory objects through
// GL_EXT_memory_object_win32, synchronized against the cross-API fence
// through a GL_EXT_semaphore_win32 semaphore opened on the same shared
// handle.
//
// Grounded on hal/gles/wgl's extension-function loading
// (wgl.GetGLProcAddress, itself wglGetProcAddress with an
// opengl32.dll-direct fallback for GL 1.1 entry points).
package opengl

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/mbucchia/openxr-hostbridge/hal/gles/wgl"
)

// Bridge resolves and calls the GL_EXT_memory_object_win32 /
// GL_EXT_semaphore_win32 entry points against the application's current
// GL context. The caller is responsible for having that context current
// on the calling thread before invoking any Bridge method.
type Bridge struct {
	mu    sync.Mutex
	procs map[string]uintptr
}

// NewBridge returns a Bridge with no resolved procs yet; resolution
// happens lazily per call against whatever context is current.
func NewBridge() *Bridge {
	return &Bridge{procs: make(map[string]uintptr)}
}

func (b *Bridge) proc(name string) (uintptr, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if addr, ok := b.procs[name]; ok {
		return addr, nil
	}
	addr := wgl.GetGLProcAddress(name)
	if addr == 0 {
		return 0, fmt.Errorf("interop/opengl: %s not available", name)
	}
	b.procs[name] = addr
	return addr, nil
}

// ImportMemoryObject imports a D3D11-exported NT handle as a GL memory
// object via glImportMemoryWin32HandleEXT, ready to back a texture
// created with glTexStorageMem2DEXT against the same size/format the
// submission device allocated the swapchain image with.
func (b *Bridge) ImportMemoryObject(memoryObject uint32, size uint64, handle syscall.Handle) error {
	addr, err := b.proc("glImportMemoryWin32HandleEXT")
	if err != nil {
		return err
	}
	const glHandleTypeD3D11Image = 0x958B // GL_HANDLE_TYPE_D3D11_IMAGE_EXT
	_, _, _ = syscall.SyscallN(addr,
		uintptr(memoryObject),
		uintptr(size),
		uintptr(glHandleTypeD3D11Image),
		uintptr(handle),
	)
	return nil
}

// ImportSemaphore imports the submission device's shared fence handle
// as a GL semaphore via glImportSemaphoreWin32HandleEXT, used with
// glWaitSemaphoreEXT/glSignalSemaphoreEXT to order GL draws against the
// cross-API timeline.
func (b *Bridge) ImportSemaphore(semaphore uint32, handle syscall.Handle) error {
	addr, err := b.proc("glImportSemaphoreWin32HandleEXT")
	if err != nil {
		return err
	}
	const glHandleTypeD3D11Fence = 0x958E // GL_HANDLE_TYPE_D3D11_FENCE_EXT
	_, _, _ = syscall.SyscallN(addr, uintptr(semaphore), uintptr(glHandleTypeD3D11Fence), uintptr(handle))
	return nil
}

// WaitSemaphore blocks subsequent GL commands until value is signaled on
// the cross-API fence, via glWaitSemaphoreEXT's fence-value parameter
// array.
func (b *Bridge) WaitSemaphore(semaphore uint32, value uint64) error {
	addr, err := b.proc("glSemaphoreParameterui64vEXT")
	if err != nil {
		return err
	}
	const glD3D11FenceValueEXT = 0x933E
	values := [1]uint64{value}
	_, _, _ = syscall.SyscallN(addr, uintptr(semaphore), uintptr(glD3D11FenceValueEXT), uintptr(unsafe.Pointer(&values[0])))

	waitAddr, err := b.proc("glWaitSemaphoreEXT")
	if err != nil {
		return err
	}
	_, _, _ = syscall.SyscallN(waitAddr, uintptr(semaphore), 0, 0, 0, 0, 0)
	return nil
}

// SignalSemaphore schedules a GL-side signal of the cross-API fence to
// value, via glSignalSemaphoreEXT, so the D3D11 submission device's
// context can wait on it before compositing.
func (b *Bridge) SignalSemaphore(semaphore uint32, value uint64) error {
	addr, err := b.proc("glSemaphoreParameterui64vEXT")
	if err != nil {
		return err
	}
	const glD3D11FenceValueEXT = 0x933E
	values := [1]uint64{value}
	_, _, _ = syscall.SyscallN(addr, uintptr(semaphore), uintptr(glD3D11FenceValueEXT), uintptr(unsafe.Pointer(&values[0])))

	signalAddr, err := b.proc("glSignalSemaphoreEXT")
	if err != nil {
		return err
	}
	_, _, _ = syscall.SyscallN(signalAddr, uintptr(semaphore), 0, 0, 0, 0, 0)
	return nil
}
