package cannycam

import "time"

// Sampler takes the per-iteration checkpoints on the CPU and wall clocks
// and keeps the running statistics of the run. It is owned by a single loop.
type Sampler struct {
	clock Clock
	start time.Time
	cur   IterationTiming
	stats RunningStats
}

// NewSampler creates a sampler reading the provided clock.
// The run start is the moment the sampler is created, until Start is called.
func NewSampler(clock Clock) *Sampler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Sampler{
		clock: clock,
		start: clock.Now(),
	}
}

// Start marks the beginning of the run.
func (s *Sampler) Start() { s.start = s.clock.Now() }

// Begin records the iteration start checkpoint.
func (s *Sampler) Begin() {
	s.cur = IterationTiming{}
	s.cur.wallStart = s.clock.Now()
	s.cur.cpuStart = s.clock.CPUTime()
}

// MarkCapture records the checkpoint separating the capture and the process phases.
func (s *Sampler) MarkCapture() {
	s.cur.wallMid = s.clock.Now()
	s.cur.cpuMid = s.clock.CPUTime()
}

// End records the end of the process phase and returns the timing of the iteration.
func (s *Sampler) End() IterationTiming {
	s.cur.wallEnd = s.clock.Now()
	s.cur.cpuEnd = s.clock.CPUTime()
	return s.cur
}

// Record accumulates a completed iteration and returns the updated averages.
func (s *Sampler) Record(t IterationTiming) Averages {
	s.stats.Record(t)
	avg, _ := s.stats.Averages()
	return avg
}

// Stats returns a copy of the running statistics.
func (s *Sampler) Stats() RunningStats { return s.stats }

// TotalWall returns the wall clock time elapsed since the run started.
func (s *Sampler) TotalWall() time.Duration { return s.clock.Now().Sub(s.start) }
