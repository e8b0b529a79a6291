package hostapi

import (
	"unsafe"

	"github.com/go-webgpu/goffi/types"

	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// WaitToBeginFrame blocks until the host compositor is ready to accept
// the next frame, returning the predicted display time and period it
// should be rendered for.
//
// A result code of -1 is the host runtime's documented legacy pacing
// quirk under certain vsync-off configurations: the call still produced
// valid timing, it simply could not guarantee it landed on a vsync
// boundary. That is logged at Warn, not returned as an error.
func (c *Client) WaitToBeginFrame(session SessionHandle, frameIndex uint64) (FrameTiming, error) {
	e, err := c.resolve("Host_WaitToBeginFrame", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.UInt64TypeDescriptor, types.PointerTypeDescriptor})
	if err != nil {
		return FrameTiming{}, err
	}

	h := uint64(session)
	var timing hostFrameTiming
	timingPtr := unsafe.Pointer(&timing)
	args := [3]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&frameIndex),
		unsafe.Pointer(&timingPtr),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])

	if result == resultLegacyPacingQuirk {
		xrlog.Logger().Warn("hostapi: WaitToBeginFrame hit legacy pacing quirk", "session", session, "frameIndex", frameIndex)
	} else if err := checkResult("Host_WaitToBeginFrame", result); err != nil {
		return FrameTiming{}, err
	}

	xrlog.Logger().Debug("hostapi: WaitToBeginFrame", "session", session, "frameIndex", frameIndex, "displayTime", timing.PredictedDisplayTimeSeconds)
	return timing.toFrameTiming(), nil
}

// BeginFrame marks the start of frame submission work for frameIndex.
func (c *Client) BeginFrame(session SessionHandle, frameIndex uint64) error {
	e, err := c.resolve("Host_BeginFrame", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.UInt64TypeDescriptor})
	if err != nil {
		return err
	}

	h := uint64(session)
	args := [2]unsafe.Pointer{unsafe.Pointer(&h), unsafe.Pointer(&frameIndex)}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])

	xrlog.Logger().Debug("hostapi: BeginFrame", "session", session, "frameIndex", frameIndex)
	return checkResult("Host_BeginFrame", result)
}

// EndFrame submits the given composition layer to the host compositor
// and ends frameIndex. layers may be empty for a discarded frame.
func (c *Client) EndFrame(session SessionHandle, frameIndex uint64, layers []LayerSubmission) error {
	e, err := c.resolve("Host_EndFrame", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt64TypeDescriptor,
			types.PointerTypeDescriptor,
			types.UInt32TypeDescriptor,
		})
	if err != nil {
		return err
	}

	wire := make([]hostLayerSubmission, len(layers))
	for i, l := range layers {
		wire[i] = l.toWire()
	}

	var layersPtr unsafe.Pointer
	if len(wire) > 0 {
		layersPtr = unsafe.Pointer(&wire[0])
	}
	count := uint32(len(wire))

	h := uint64(session)
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&frameIndex),
		unsafe.Pointer(&layersPtr),
		unsafe.Pointer(&count),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])

	xrlog.Logger().Debug("hostapi: EndFrame", "session", session, "frameIndex", frameIndex, "layers", count)
	return checkResult("Host_EndFrame", result)
}
