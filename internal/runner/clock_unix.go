//go:build linux || darwin || freebsd

package runner

import (
	"time"

	"golang.org/x/sys/unix"
)

// clockResolution returns the resolution of the monotonic clock used to
// time accesses.
func clockResolution() (time.Duration, bool) {
	var ts unix.Timespec
	if err := unix.ClockGetres(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, false
	}
	return time.Duration(ts.Nano()), true
}
