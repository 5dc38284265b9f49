package listctl

import "time"

// Timer is a cancellable deferred call.
type Timer interface {
	// Stop prevents the call from firing. It reports false if the call already fired or was stopped.
	Stop() bool
}

// Clock schedules deferred calls. Tests substitute a manual clock to control debounce timing.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules calls on the Go runtime timers.
type SystemClock struct{}

// AfterFunc calls f in its own goroutine after d elapses.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
