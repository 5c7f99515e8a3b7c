//go:build !(linux || darwin || freebsd)

package runner

import "time"

func clockResolution() (time.Duration, bool) {
	return 0, false
}
