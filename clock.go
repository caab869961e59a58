package cannycam

import "time"

// Clock supplies the two time sources the sampler reads at every checkpoint.
type Clock interface {
	// Now returns the wall clock time. The result must carry a monotonic reading.
	Now() time.Time
	// CPUTime returns the CPU time consumed by the process so far.
	CPUTime() time.Duration
}

type systemClock struct{}

// SystemClock returns the clock backed by the operating system.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time         { return time.Now() }
func (systemClock) CPUTime() time.Duration { return processCPUTime() }

// CPUClockSupported reports whether process CPU time can be measured on this platform.
// When it is false every CPU reading is zero.
func CPUClockSupported() bool { return cpuClockSupported }
