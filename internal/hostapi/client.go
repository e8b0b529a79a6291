// Package hostapi loads the host VR runtime's shared library and
// exposes its proprietary LibOVR/PVR-style C ABI as Go methods.
//
// Every exported entry point is resolved lazily and its goffi call
// interface prepared once, mirroring the teacher's
// hal/vulkan/vk.Init()/doInit() pattern: a library handle plus a table
// of (function pointer, call interface) pairs built up in a
// mutex-guarded map, so repeated calls never re-touch the dynamic loader.
package hostapi

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"

	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// hostLibraryName returns the platform-specific name of the host VR
// runtime's shared library. The host runtime this bridge targets only
// ships a Windows build; the switch still enumerates other platforms so
// the resolution strategy reads the same way as the teacher's Vulkan
// loader in case a future host build adds them.
func hostLibraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "HostVRRuntime64_1.dll"
	default:
		return "libhostvrruntime.so.1"
	}
}

// callEntry is a resolved host function: its address plus a prepared
// goffi call interface for invoking it.
type callEntry struct {
	fn  unsafe.Pointer
	cif types.CallInterface
}

// Client owns the loaded host runtime library handle and the table of
// resolved entry points. Safe for concurrent use once Open has
// returned; Open itself must not race with any method call.
type Client struct {
	lib unsafe.Pointer

	mu      sync.Mutex
	entries map[string]*callEntry
}

// Open loads the host runtime's shared library. It does not yet resolve
// any entry points — those are resolved lazily, on first use, via
// resolve.
func Open() (*Client, error) {
	lib, err := ffi.LoadLibrary(hostLibraryName())
	if err != nil {
		return nil, fmt.Errorf("hostapi: failed to load %s: %w", hostLibraryName(), err)
	}
	xrlog.Logger().Info("hostapi: library loaded", "name", hostLibraryName())
	return &Client{lib: lib, entries: make(map[string]*callEntry)}, nil
}

// Close releases the host runtime library. The Client must not be used
// afterward.
func (c *Client) Close() error {
	if c.lib == nil {
		return nil
	}
	err := ffi.FreeLibrary(c.lib)
	c.lib = nil
	return err
}

// resolve returns the cached call entry for symbol, preparing it on
// first use with the given goffi call-interface shape.
func (c *Client) resolve(symbol string, ret *types.TypeDescriptor, args []*types.TypeDescriptor) (*callEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[symbol]; ok {
		return e, nil
	}

	fn, err := ffi.GetSymbol(c.lib, symbol)
	if err != nil {
		return nil, fmt.Errorf("hostapi: symbol %s not found: %w", symbol, err)
	}

	var cif types.CallInterface
	if err := ffi.PrepareCallInterface(&cif, types.DefaultCall, ret, args); err != nil {
		return nil, fmt.Errorf("hostapi: failed to prepare call interface for %s: %w", symbol, err)
	}

	e := &callEntry{fn: fn, cif: cif}
	c.entries[symbol] = e
	return e, nil
}

// call invokes a resolved entry, writing the raw return value into ret
// (which must be a pointer to storage sized for the call's declared
// return type) and passing args as goffi expects: each element is a
// pointer to where the corresponding argument value is stored.
func (c *Client) call(e *callEntry, ret unsafe.Pointer, args []unsafe.Pointer) {
	ffi.CallFunction(&e.cif, e.fn, ret, args)
}
