package cannycam

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// sliceSource yields a fixed list of frames, then the end of the stream.
type sliceSource struct {
	frames []Frame
	idx    int
	calls  int
	closed bool
}

func newSliceSource(n, width, height int) *sliceSource {
	s := &sliceSource{}
	for i := 0; i < n; i++ {
		f := NewFrame(RawColor, width, height)
		// left half dark, right half bright
		for y := 0; y < height; y++ {
			for x := width / 2; x < width; x++ {
				off := (y*width + x) * 3
				f.Pix[off], f.Pix[off+1], f.Pix[off+2] = 200, 200, 200
			}
		}
		s.frames = append(s.frames, f)
	}
	return s
}

func (s *sliceSource) Next() (Frame, error) {
	s.calls++
	if s.idx >= len(s.frames) {
		return Frame{}, ErrEndOfStream
	}
	f := s.frames[s.idx]
	s.idx++
	return f, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// thresholdDetector marks every bright pixel as an edge.
type thresholdDetector struct {
	calls    int
	dirPaths []string
}

func (d *thresholdDetector) Detect(gray Frame, p DetectionParameters, dirPath string) (Frame, error) {
	d.calls++
	d.dirPaths = append(d.dirPaths, dirPath)

	edges := NewFrame(EdgeMap, gray.Width, gray.Height)
	for i, v := range gray.Pix {
		if v > 127 {
			edges.Pix[i] = 0
		} else {
			edges.Pix[i] = 255
		}
	}
	return edges, nil
}

// failingPersister fails on the failAt-th call and delegates the others.
type failingPersister struct {
	next   Persister
	failAt int
	calls  int
}

func (f *failingPersister) Persist(fr Frame, name string) error {
	f.calls++
	if f.calls == f.failAt {
		return &WriteError{Path: name, Err: errors.New("no space left on device")}
	}
	return f.next.Persist(fr, name)
}

type recordingDisplay struct {
	previews   int
	results    int
	lastResult Frame
	closed     bool
}

func (d *recordingDisplay) ShowPreview(Frame) { d.previews++ }
func (d *recordingDisplay) ShowResult(f Frame) {
	d.results++
	d.lastResult = f
}
func (d *recordingDisplay) Close() error {
	d.closed = true
	return nil
}

// countdownCanceller fires on the poll following the first `after` polls.
type countdownCanceller struct {
	after int
	polls int
}

func (c *countdownCanceller) Cancelled() bool {
	c.polls++
	return c.polls > c.after
}

// stepClock advances both clocks by a fixed step on every reading.
type stepClock struct {
	now      time.Time
	cpu      time.Duration
	wallStep time.Duration
	cpuStep  time.Duration
}

func newStepClock(wallStep, cpuStep time.Duration) *stepClock {
	return &stepClock{
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		wallStep: wallStep,
		cpuStep:  cpuStep,
	}
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.wallStep)
	return c.now
}

func (c *stepClock) CPUTime() time.Duration {
	c.cpu += c.cpuStep
	return c.cpu
}

// scriptedClock returns the wall and CPU offsets in order.
type scriptedClock struct {
	base time.Time
	wall []time.Duration
	cpu  []time.Duration
}

func (c *scriptedClock) Now() time.Time {
	if len(c.wall) == 0 {
		return c.base
	}
	d := c.wall[0]
	c.wall = c.wall[1:]
	return c.base.Add(d)
}

func (c *scriptedClock) CPUTime() time.Duration {
	if len(c.cpu) == 0 {
		return 0
	}
	d := c.cpu[0]
	c.cpu = c.cpu[1:]
	return d
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
