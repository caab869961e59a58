//go:build !linux && !darwin

package cannycam

import "time"

const cpuClockSupported = false

func processCPUTime() time.Duration { return 0 }
