package xrerror

import (
	"fmt"
	"testing"

	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
)

func TestToCodeNilIsSuccess(t *testing.T) {
	if got := ToCode(nil); got != Success {
		t.Errorf("ToCode(nil) = %d, want Success", got)
	}
}

func TestToCodeDirectSentinel(t *testing.T) {
	if got := ToCode(ErrHandleInvalid); got != ErrorHandleInvalid {
		t.Errorf("ToCode(ErrHandleInvalid) = %d, want %d", got, ErrorHandleInvalid)
	}
}

func TestToCodeWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("locate space: %w", ErrPathInvalid)
	if got := ToCode(wrapped); got != ErrorPathInvalid {
		t.Errorf("ToCode(wrapped) = %d, want %d", got, ErrorPathInvalid)
	}
}

func TestToCodeUnrecognizedDefaultsToValidationFailure(t *testing.T) {
	if got := ToCode(fmt.Errorf("some unrelated failure")); got != ErrorValidationFailure {
		t.Errorf("ToCode(unrecognized) = %d, want ErrorValidationFailure", got)
	}
}

func TestToCodeHostapiDeviceLostMapsToInstanceLost(t *testing.T) {
	err := &hostapi.Error{Call: "Host_EndFrame", Code: -1000}
	if got := ToCode(err); got != ErrorInstanceLost {
		t.Errorf("ToCode(device lost) = %d, want ErrorInstanceLost", got)
	}
}

func TestToCodeHostapiTimeoutMapsToTimeInvalid(t *testing.T) {
	err := &hostapi.Error{Call: "Host_GetDevicePose", Code: -1002}
	if got := ToCode(err); got != ErrorTimeInvalid {
		t.Errorf("ToCode(timeout) = %d, want ErrorTimeInvalid", got)
	}
}
