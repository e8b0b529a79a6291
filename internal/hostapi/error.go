package hostapi

import (
	"errors"
	"fmt"
)

// Sentinel errors a caller can match with errors.Is against any Error
// this package returns.
var (
	ErrDeviceLost  = errors.New("hostapi: host graphics device lost")
	ErrAdapterLost = errors.New("hostapi: host runtime adapter lost")
	ErrTimeout     = errors.New("hostapi: host runtime call timed out")
)

// resultToSentinel maps a host result code to one of the sentinel
// errors above, or nil if the code names no specific condition this
// package distinguishes.
func resultToSentinel(code int32) error {
	switch code {
	case resultDeviceLost:
		return ErrDeviceLost
	case resultAdapterLost:
		return ErrAdapterLost
	case resultTimeout:
		return ErrTimeout
	default:
		return nil
	}
}

// Host result codes distinguished by resultToSentinel. These are the
// host runtime's own status codes, not OpenXR XrResult values; the
// caller translates an *Error into an XrResult via internal/xrerror.
const (
	resultSuccess     int32 = 0
	resultLegacyPacingQuirk int32 = -1
	resultDeviceLost  int32 = -1000
	resultAdapterLost int32 = -1001
	resultTimeout     int32 = -1002
)

// Error wraps a non-zero host runtime result code. Call is the name of
// the entry point that returned it.
type Error struct {
	Call string
	Code int32
}

func (e *Error) Error() string {
	return fmt.Sprintf("hostapi: %s returned %d", e.Call, e.Code)
}

func (e *Error) Unwrap() error {
	return resultToSentinel(e.Code)
}

// checkResult turns a raw host result code into an error, or nil on
// success. The legacy pacing quirk (code -1 returned by WaitToBeginFrame
// under certain vsync-off configurations) is not an error condition; the
// caller logs it at Warn level instead of surfacing it as a failure.
func checkResult(call string, code int32) error {
	if code == resultSuccess {
		return nil
	}
	return &Error{Call: call, Code: code}
}
