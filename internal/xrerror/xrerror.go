// Package xrerror defines the OpenXR error taxonomy this runtime emits,
// as sentinel errors, and the numeric XrResult codes they map to.
//
// Every error an internal package returns across a package boundary is
// either one of these sentinels or wraps one with fmt.Errorf("...: %w").
// The abi package resolves a returned error to its XrResult with
// errors.Is, so wrapping never loses the mapping.
package xrerror

import (
	"errors"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
)

// Code is the numeric OpenXR XrResult value. Negative values are
// failures; XR_SUCCESS is 0.
type Code int32

// XrResult codes this runtime emits. Values match the OpenXR 1.0
// specification's XrResult enumeration.
const (
	Success Code = 0

	ErrorValidationFailure              Code = -1
	ErrorFunctionUnsupported            Code = -7
	ErrorHandleInvalid                  Code = -12
	ErrorInstanceLost                   Code = -13
	ErrorSessionRunning                 Code = -14
	ErrorSessionNotRunning              Code = -16
	ErrorSessionLost                    Code = -17
	ErrorSystemInvalid                  Code = -18
	ErrorPathInvalid                    Code = -19
	ErrorPathCountExceeded              Code = -20
	ErrorPathFormatInvalid              Code = -21
	ErrorPathUnsupported                Code = -22
	ErrorLayerInvalid                   Code = -23
	ErrorCallOrderInvalid               Code = -29
	ErrorGraphicsDeviceInvalid          Code = -30
	ErrorPoseInvalid                    Code = -31
	ErrorIndexOutOfRange                Code = -32
	ErrorEnvironmentBlendModeUnsupported Code = -34
	ErrorNameDuplicated                 Code = -44
	ErrorNameInvalid                    Code = -45
	ErrorActionsetNotAttached           Code = -46
	ErrorActionsetsAlreadyAttached      Code = -47
	ErrorActionTypeMismatch             Code = -48
	ErrorSessionNotReady                Code = -49
	ErrorSessionNotFocused              Code = -50
	ErrorFrameDiscarded                 Code = -51
	ErrorSizeInsufficient               Code = -59
	ErrorGraphicsRequirementsCallMissing Code = -62
	ErrorSwapchainRectInvalid           Code = -72
	ErrorSwapchainFormatUnsupported     Code = -73
	ErrorTimeInvalid                    Code = -74
)

// Sentinels. Every internal package returns one of these (or wraps one)
// instead of an ad hoc error, so the ABI layer can translate it.
var (
	ErrValidation              = errors.New("xr: validation failure")
	ErrHandleInvalid           = errors.New("xr: handle invalid")
	ErrInstanceLost            = errors.New("xr: instance lost")
	ErrSessionRunning          = errors.New("xr: session running")
	ErrSessionNotRunning       = errors.New("xr: session not running")
	ErrSessionLost             = errors.New("xr: session lost")
	ErrSystemInvalid           = errors.New("xr: system invalid")
	ErrPathInvalid             = errors.New("xr: path invalid")
	ErrPathFormatInvalid       = errors.New("xr: path format invalid")
	ErrPathUnsupported         = errors.New("xr: path unsupported for this interaction profile")
	ErrLayerInvalid            = errors.New("xr: composition layer invalid")
	ErrCallOrderInvalid        = errors.New("xr: call order invalid")
	ErrGraphicsDeviceInvalid   = errors.New("xr: graphics device invalid (adapter mismatch)")
	ErrPoseInvalid             = errors.New("xr: pose invalid (quaternion not normalized)")
	ErrIndexOutOfRange         = errors.New("xr: index out of range")
	ErrEnvironmentBlendMode    = errors.New("xr: environment blend mode unsupported")
	ErrNameDuplicated          = errors.New("xr: name duplicated")
	ErrActionsetNotAttached    = errors.New("xr: action set not attached")
	ErrActionsetsAlreadyAttached = errors.New("xr: action sets already attached")
	ErrActionTypeMismatch      = errors.New("xr: action type mismatch")
	ErrSessionNotReady         = errors.New("xr: session not ready")
	ErrSessionNotFocused       = errors.New("xr: session not focused")
	ErrFrameDiscarded          = errors.New("xr: frame discarded")
	ErrSizeInsufficient        = errors.New("xr: buffer capacity insufficient")
	ErrGraphicsRequirementsCallMissing = errors.New("xr: graphics requirements call missing")
	ErrSwapchainRectInvalid    = errors.New("xr: swapchain image rect invalid")
	ErrSwapchainFormatUnsupported = errors.New("xr: swapchain format unsupported")
	ErrTimeInvalid             = errors.New("xr: time invalid")
	ErrFunctionUnsupported     = errors.New("xr: function not supported by this runtime")
)

var codeBySentinel = map[error]Code{
	ErrValidation:                 ErrorValidationFailure,
	ErrHandleInvalid:              ErrorHandleInvalid,
	ErrInstanceLost:               ErrorInstanceLost,
	ErrSessionRunning:             ErrorSessionRunning,
	ErrSessionNotRunning:          ErrorSessionNotRunning,
	ErrSessionLost:                ErrorSessionLost,
	ErrSystemInvalid:              ErrorSystemInvalid,
	ErrPathInvalid:                ErrorPathInvalid,
	ErrPathFormatInvalid:          ErrorPathFormatInvalid,
	ErrPathUnsupported:            ErrorPathUnsupported,
	ErrLayerInvalid:               ErrorLayerInvalid,
	ErrCallOrderInvalid:           ErrorCallOrderInvalid,
	ErrGraphicsDeviceInvalid:      ErrorGraphicsDeviceInvalid,
	ErrPoseInvalid:                ErrorPoseInvalid,
	ErrIndexOutOfRange:            ErrorIndexOutOfRange,
	ErrEnvironmentBlendMode:       ErrorEnvironmentBlendModeUnsupported,
	ErrNameDuplicated:             ErrorNameDuplicated,
	ErrActionsetNotAttached:       ErrorActionsetNotAttached,
	ErrActionsetsAlreadyAttached:  ErrorActionsetsAlreadyAttached,
	ErrActionTypeMismatch:         ErrorActionTypeMismatch,
	ErrSessionNotReady:            ErrorSessionNotReady,
	ErrSessionNotFocused:          ErrorSessionNotFocused,
	ErrFrameDiscarded:             ErrorFrameDiscarded,
	ErrSizeInsufficient:           ErrorSizeInsufficient,
	ErrGraphicsRequirementsCallMissing: ErrorGraphicsRequirementsCallMissing,
	ErrSwapchainRectInvalid:       ErrorSwapchainRectInvalid,
	ErrSwapchainFormatUnsupported: ErrorSwapchainFormatUnsupported,
	ErrTimeInvalid:                ErrorTimeInvalid,
	ErrFunctionUnsupported:        ErrorFunctionUnsupported,
}

// hostSentinelCodes maps hostapi's own sentinels onto XrResult codes, so
// a *hostapi.Error surfaced by a deeply nested call (e.g. a swapchain
// acquire failing because the GPU adapter was lost) resolves correctly
// without internal/swapchain or internal/frame needing to know about
// hostapi's error types themselves.
var hostSentinelCodes = map[error]Code{
	hostapi.ErrDeviceLost:  ErrorInstanceLost,
	hostapi.ErrAdapterLost: ErrorInstanceLost,
	hostapi.ErrTimeout:     ErrorTimeInvalid,
}

// ToCode resolves err to its XrResult code by walking its Unwrap chain
// against every known sentinel. A nil err maps to Success. An
// unrecognized non-nil err maps to ErrorValidationFailure, since every
// well-behaved internal call path is expected to return a sentinel.
func ToCode(err error) Code {
	if err == nil {
		return Success
	}
	for sentinel, code := range codeBySentinel {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	for sentinel, code := range hostSentinelCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrorValidationFailure
}
