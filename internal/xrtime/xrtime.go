// Package xrtime converts between OpenXR's XrTime (int64 nanoseconds)
// and the host runtime's seconds-based double clock, anchored to a
// high-resolution monotonic clock captured at Instance creation.
package xrtime

import "time"

// Time is an OpenXR XrTime value: nanoseconds since an unspecified
// epoch, monotonic within a single runtime instance.
type Time int64

// Base anchors XrTime conversions to the host runtime's clock. It
// captures, once at instance creation, the offset between the host's
// seconds-based clock and Go's monotonic clock, and every subsequent
// conversion is a pure arithmetic transform — no further host calls are
// needed to convert a timestamp.
type Base struct {
	// epoch is the monotonic instant the Base was created, used as the
	// coordinate origin for XrTime.
	epoch time.Time
	// hostOffsetSeconds = hostSeconds(epoch) - 0. Added to the elapsed
	// monotonic duration to recover the host clock's current seconds
	// value, and subtracted the other way to recover an XrTime.
	hostOffsetSeconds float64
}

// NewBase captures the current monotonic instant and the host runtime's
// reported seconds-clock value at that same instant, establishing the
// fixed offset used for every later conversion.
func NewBase(hostSecondsNow float64) *Base {
	return &Base{
		epoch:             time.Now(),
		hostOffsetSeconds: hostSecondsNow,
	}
}

// ToHostSeconds converts an XrTime to the host runtime's seconds clock.
func (b *Base) ToHostSeconds(t Time) float64 {
	return b.hostOffsetSeconds + time.Duration(t).Seconds()
}

// FromHostSeconds converts a host runtime seconds-clock value to XrTime.
func (b *Base) FromHostSeconds(hostSeconds float64) Time {
	elapsedSeconds := hostSeconds - b.hostOffsetSeconds
	return Time(time.Duration(elapsedSeconds * float64(time.Second)))
}

// Now returns the current instant as an XrTime, measured from the
// monotonic epoch captured by NewBase.
func (b *Base) Now() Time {
	return Time(time.Since(b.epoch))
}

// ConvertPerfCounterToTime implements the XR_KHR_win32_convert_performance_counter_time
// contract: given a QueryPerformanceCounter-style tick count and the
// counter's frequency (ticks per second), returns the corresponding
// XrTime.
func (b *Base) ConvertPerfCounterToTime(ticks int64, frequency int64) Time {
	if frequency == 0 {
		return 0
	}
	seconds := float64(ticks) / float64(frequency)
	// The performance counter and the monotonic clock share an origin
	// convention on the platforms this runtime targets: both are
	// "ticks since boot"-style counters. We treat the conversion as
	// elapsed-seconds-since-epoch relative to the Base's own
	// frequency-independent monotonic epoch.
	return Time(time.Duration(seconds * float64(time.Second)))
}

// ConvertTimeToPerfCounter is the inverse of ConvertPerfCounterToTime.
func (b *Base) ConvertTimeToPerfCounter(t Time, frequency int64) int64 {
	seconds := time.Duration(t).Seconds()
	return int64(seconds * float64(frequency))
}

// ClampMonotonic enforces spec.md §4.2's WaitFrame monotonicity
// invariant: the returned predicted display time must never be less
// than or equal to the previous call's returned value. If the host
// predicts a non-monotonic value, the result is clamped to last+1ns.
func ClampMonotonic(last, candidate Time) Time {
	if candidate <= last {
		return last + 1
	}
	return candidate
}
