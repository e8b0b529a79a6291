package action

import (
	"github.com/mbucchia/openxr-hostbridge/internal/hostapi"
	"github.com/mbucchia/openxr-hostbridge/internal/xrtime"
)

// defaultHapticFrequencyHz is snapped to when the application requests
// XR_FREQUENCY_UNSPECIFIED, per spec.md §4.6.
const defaultHapticFrequencyHz = 160.0

// minHapticDurationNanos is the minimum duration a nonzero-amplitude
// pulse is clamped to, per spec.md §4.6.
const minHapticDurationNanos = xrtime.Time(20 * 1_000_000)

// hapticState is an outstanding haptic pulse request for one side,
// re-asserted on the host every sync until it expires.
type hapticState struct {
	active    bool
	startTime xrtime.Time
	duration  xrtime.Time
	frequencyHz float32
	amplitude   float32
}

func (h hapticState) expired(now xrtime.Time) bool {
	return !h.active || now >= h.startTime+h.duration
}

// ApplyHapticFeedback records and immediately asserts a haptic pulse on
// side, clamping duration to at least 20ms for nonzero amplitude and
// snapping a zero frequency to the 160 Hz default.
func (s *ActionSet) ApplyHapticFeedback(host *hostapi.Client, device hostapi.DeviceIndex, side Side, frequencyHz, amplitude float32, duration xrtime.Time, now xrtime.Time) error {
	s.mu.Lock()
	if amplitude > 0 && duration < minHapticDurationNanos {
		duration = minHapticDurationNanos
	}
	if frequencyHz == 0 {
		frequencyHz = defaultHapticFrequencyHz
	}
	s.haptics[side] = hapticState{
		active: true, startTime: now, duration: duration,
		frequencyHz: frequencyHz, amplitude: amplitude,
	}
	s.mu.Unlock()

	durationSeconds := float32(duration) / 1e9
	return host.SetVibration(0, device, frequencyHz, amplitude, durationSeconds)
}

// StopHapticFeedback clears any outstanding pulse on side and zeroes it
// on the host immediately.
func (s *ActionSet) StopHapticFeedback(host *hostapi.Client, device hostapi.DeviceIndex, side Side) error {
	s.mu.Lock()
	delete(s.haptics, side)
	s.mu.Unlock()
	return host.SetVibration(0, device, defaultHapticFrequencyHz, 0, 0)
}

// reassertHaptics re-asserts every unexpired pulse on the host and clears
// (with a final zero-amplitude pulse) any that has expired since the
// last sync. Called once per SyncActions.
func (s *ActionSet) reassertHaptics(host *hostapi.Client, deviceForSide map[Side]hostapi.DeviceIndex, now xrtime.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for side, h := range s.haptics {
		device := deviceForSide[side]
		if h.expired(now) {
			delete(s.haptics, side)
			_ = host.SetVibration(0, device, defaultHapticFrequencyHz, 0, 0)
			continue
		}
		_ = host.SetVibration(0, device, h.frequencyHz, h.amplitude, float32(h.duration)/1e9)
	}
}
