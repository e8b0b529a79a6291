package hostapi

import (
	"unsafe"

	"github.com/go-webgpu/goffi/types"

	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// CreateSession asks the host runtime to open a session against its
// compositor. It is the first call made once an OpenXR application
// creates an xrSession; the returned handle threads through every
// subsequent hostapi call for that session's lifetime.
func (c *Client) CreateSession() (SessionHandle, error) {
	e, err := c.resolve("Host_CreateSession", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.PointerTypeDescriptor})
	if err != nil {
		return 0, err
	}

	var handle uint64
	handlePtr := unsafe.Pointer(&handle)
	args := [1]unsafe.Pointer{unsafe.Pointer(&handlePtr)}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])

	if err := checkResult("Host_CreateSession", result); err != nil {
		return 0, err
	}

	xrlog.Logger().Debug("hostapi: CreateSession", "handle", handle)
	return SessionHandle(handle), nil
}

// DestroySession releases a session previously returned by
// CreateSession. The host runtime tears down its compositor connection
// and stops driving that session's frame timing.
func (c *Client) DestroySession(session SessionHandle) error {
	e, err := c.resolve("Host_DestroySession", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor})
	if err != nil {
		return err
	}

	h := uint64(session)
	args := [1]unsafe.Pointer{unsafe.Pointer(&h)}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])

	xrlog.Logger().Debug("hostapi: DestroySession", "handle", session)
	return checkResult("Host_DestroySession", result)
}
