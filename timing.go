package cannycam

import "time"

// IterationTiming holds the three checkpoints of one loop iteration, taken on both clocks:
// iteration start, end of the capture phase and end of the process phase.
type IterationTiming struct {
	cpuStart, cpuMid, cpuEnd    time.Duration
	wallStart, wallMid, wallEnd time.Time
}

// Elapsed returns the CPU time spent on the whole iteration.
func (t IterationTiming) Elapsed() time.Duration { return t.cpuEnd - t.cpuStart }

// Capture returns the CPU time spent acquiring and previewing the frame.
func (t IterationTiming) Capture() time.Duration { return t.cpuMid - t.cpuStart }

// Process returns the CPU time spent converting, detecting and persisting.
func (t IterationTiming) Process() time.Duration { return t.cpuEnd - t.cpuMid }

// WallElapsed returns the wall clock duration of the whole iteration.
func (t IterationTiming) WallElapsed() time.Duration { return t.wallEnd.Sub(t.wallStart) }

// WallCapture returns the wall clock duration of the capture phase.
func (t IterationTiming) WallCapture() time.Duration { return t.wallMid.Sub(t.wallStart) }

// WallProcess returns the wall clock duration of the process phase.
func (t IterationTiming) WallProcess() time.Duration { return t.wallEnd.Sub(t.wallMid) }

// FPS returns the frame rate derived from the wall clock duration of the iteration.
// The second value is false when the duration is not positive and the rate is undefined.
func (t IterationTiming) FPS() (float64, bool) {
	elapsed := t.WallElapsed().Seconds()
	if elapsed <= 0 {
		return 0, false
	}
	return FramesPerUnit / elapsed, true
}
