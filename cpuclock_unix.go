//go:build linux || darwin

package cannycam

import (
	"time"

	"golang.org/x/sys/unix"
)

const cpuClockSupported = true

// processCPUTime reads the CPU time of all the threads of the process.
func processCPUTime() time.Duration {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_PROCESS_CPUTIME_ID, &ts); err != nil {
		return 0
	}
	return time.Duration(ts.Nano())
}
