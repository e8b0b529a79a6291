package hostapi

import (
	"unsafe"

	"github.com/go-webgpu/goffi/types"

	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// GetDevicePose returns the predicted pose of the given tracked device
// at predictedTimeSeconds, expressed in the host runtime's tracking
// space.
func (c *Client) GetDevicePose(session SessionHandle, device DeviceIndex, predictedTimeSeconds float64) (PoseState, error) {
	e, err := c.resolve("Host_GetDevicePose", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.DoubleTypeDescriptor,
			types.PointerTypeDescriptor,
		})
	if err != nil {
		return PoseState{}, err
	}

	h := uint64(session)
	dev := uint32(device)
	var out hostPoseState
	outPtr := unsafe.Pointer(&out)
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&dev),
		unsafe.Pointer(&predictedTimeSeconds),
		unsafe.Pointer(&outPtr),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	if err := checkResult("Host_GetDevicePose", result); err != nil {
		return PoseState{}, err
	}

	xrlog.Logger().Debug("hostapi: GetDevicePose", "session", session, "device", device)
	return out.toPoseState(), nil
}

// GetConnectedControllerTypes reports which controller models the host
// runtime currently has connected, as a bitmask.
func (c *Client) GetConnectedControllerTypes(session SessionHandle) (ControllerType, error) {
	e, err := c.resolve("Host_GetConnectedControllerTypes", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor})
	if err != nil {
		return ControllerNone, err
	}

	h := uint64(session)
	var mask uint32
	maskPtr := unsafe.Pointer(&mask)
	args := [2]unsafe.Pointer{unsafe.Pointer(&h), unsafe.Pointer(&maskPtr)}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	if err := checkResult("Host_GetConnectedControllerTypes", result); err != nil {
		return ControllerNone, err
	}

	return ControllerType(mask), nil
}

// GetInputState returns the current digital and analog input state for
// the given controller device.
func (c *Client) GetInputState(session SessionHandle, device DeviceIndex) (InputState, error) {
	e, err := c.resolve("Host_GetInputState", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.PointerTypeDescriptor,
		})
	if err != nil {
		return InputState{}, err
	}

	h := uint64(session)
	dev := uint32(device)
	var out hostInputState
	outPtr := unsafe.Pointer(&out)
	args := [3]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&dev),
		unsafe.Pointer(&outPtr),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])
	if err := checkResult("Host_GetInputState", result); err != nil {
		return InputState{}, err
	}

	return out.toInputState(), nil
}

// SetVibration issues a haptic pulse to the given controller at the
// given frequency (Hz) and amplitude (0..1) for durationSeconds. A
// durationSeconds of 0 stops any ongoing vibration.
func (c *Client) SetVibration(session SessionHandle, device DeviceIndex, frequencyHz, amplitude, durationSeconds float32) error {
	e, err := c.resolve("Host_SetVibration", types.SInt32TypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.FloatTypeDescriptor,
			types.FloatTypeDescriptor,
			types.FloatTypeDescriptor,
		})
	if err != nil {
		return err
	}

	h := uint64(session)
	dev := uint32(device)
	args := [5]unsafe.Pointer{
		unsafe.Pointer(&h),
		unsafe.Pointer(&dev),
		unsafe.Pointer(&frequencyHz),
		unsafe.Pointer(&amplitude),
		unsafe.Pointer(&durationSeconds),
	}

	var result int32
	c.call(e, unsafe.Pointer(&result), args[:])

	xrlog.Logger().Debug("hostapi: SetVibration", "device", device, "freq", frequencyHz, "amp", amplitude, "dur", durationSeconds)
	return checkResult("Host_SetVibration", result)
}
