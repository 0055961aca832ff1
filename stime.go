package gestures

// Time is a monotonic timestamp in fractional seconds, matching the
// double-precision clock the sensor and the host share. It is not a
// wall-clock time and must not be compared across processes.
type Time float64

// Duration is a span of time in fractional seconds.
type Duration float64

// NoDeadline is the sentinel a stage returns from SyncInterpret or
// HandleTimer to mean "I don't need a callback". Any negative value is
// treated as NoDeadline by the host-facing API, but stages should
// return exactly this value.
const NoDeadline Duration = -1

// HasDeadline reports whether d represents a real, pending deadline.
func (d Duration) HasDeadline() bool { return d >= 0 }

// Add returns the instant d after t.
func (t Time) Add(d Duration) Time { return t + Time(d) }

// Sub returns the duration between t and u (t - u).
func (t Time) Sub(u Time) Duration { return Duration(t - u) }

// Seconds returns the raw float64 seconds value.
func (t Time) Seconds() float64 { return float64(t) }

// Seconds returns the raw float64 seconds value.
func (d Duration) Seconds() float64 { return float64(d) }

// MinDuration returns the smaller of two durations, treating
// NoDeadline as "larger than anything real".
func MinDuration(a, b Duration) Duration {
	switch {
	case !a.HasDeadline():
		return b
	case !b.HasDeadline():
		return a
	case a < b:
		return a
	default:
		return b
	}
}
