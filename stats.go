package cannycam

import "time"

// Averages holds the running averages of the six measured durations, in seconds.
type Averages struct {
	Elapsed     float64
	Capture     float64
	Process     float64
	WallElapsed float64
	WallCapture float64
	WallProcess float64
}

// RunningStats accumulates the per-iteration durations of a run.
// The zero value is ready to use.
type RunningStats struct {
	frames int

	elapsed, capture, process             time.Duration
	wallElapsed, wallCapture, wallProcess time.Duration
}

// Record adds the durations of a completed iteration and increments the frame counter.
func (s *RunningStats) Record(t IterationTiming) {
	s.elapsed += t.Elapsed()
	s.capture += t.Capture()
	s.process += t.Process()

	s.wallElapsed += t.WallElapsed()
	s.wallCapture += t.WallCapture()
	s.wallProcess += t.WallProcess()

	s.frames++
}

// Frames returns the number of completed iterations.
func (s *RunningStats) Frames() int { return s.frames }

// Averages returns the running averages. They are defined only after the first
// completed iteration; before that the second value is false.
func (s *RunningStats) Averages() (Averages, bool) {
	if s.frames < 1 {
		return Averages{}, false
	}
	n := float64(s.frames)

	return Averages{
		Elapsed:     s.elapsed.Seconds() / n,
		Capture:     s.capture.Seconds() / n,
		Process:     s.process.Seconds() / n,
		WallElapsed: s.wallElapsed.Seconds() / n,
		WallCapture: s.wallCapture.Seconds() / n,
		WallProcess: s.wallProcess.Seconds() / n,
	}, true
}
