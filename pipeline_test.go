package cannycam

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = DetectionParameters{Sigma: 1.5, TLow: 0.4, THigh: 0.8}

func newTestPipeline(t *testing.T, src FrameSource, persister Persister) (*Pipeline, *thresholdDetector, *bytes.Buffer) {
	t.Helper()

	det := &thresholdDetector{}
	out := &bytes.Buffer{}

	p := NewPipeline(testParams, src, det, persister)
	p.Reporter = NewReporter(out)
	p.Sampler = NewSampler(newStepClock(10*time.Millisecond, 2*time.Millisecond))
	p.Logger = quietLogger()

	return p, det, out
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPipeline_ShouldProcessEveryFrameUntilEndOfStream(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := newSliceSource(3, imgWidth, imgHeight)
	p, det, out := newTestPipeline(t, src, NewPGMWriter(dir))

	summary, err := p.Run()
	assert.NoError(err)
	assert.Equal(3, summary.Frames)
	assert.Equal(EndOfStream, summary.Reason)
	assert.Equal(3, det.calls)
	assert.Equal([]string{"frame000.pgm", "frame001.pgm", "frame002.pgm"}, listFiles(t, dir))
	assert.True(src.closed)
	assert.Equal(Terminated, p.State())

	report := out.String()
	assert.Equal(3, strings.Count(report, "Wall time for frame:"))
	assert.Equal(3, strings.Count(report, "FPS: "))
	assert.Equal(1, strings.Count(report, "Total wall time:"))
	assert.True(strings.HasSuffix(report, "\n"))
}

func TestPipeline_ImmediateEndOfStreamShouldNotProduceFiles(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := newSliceSource(0, imgWidth, imgHeight)
	p, det, out := newTestPipeline(t, src, NewPGMWriter(dir))

	summary, err := p.Run()
	assert.NoError(err)
	assert.Equal(0, summary.Frames)
	assert.Equal(EndOfStream, summary.Reason)
	assert.Equal(0, det.calls)
	assert.Empty(listFiles(t, dir))
	assert.True(src.closed)
	assert.NotContains(out.String(), "Average")
	assert.Contains(out.String(), "Total wall time:")
}

func TestPipeline_EmptyFrameShouldEndTheStream(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := newSliceSource(2, imgWidth, imgHeight)
	src.frames = append(src.frames[:1], Frame{Kind: RawColor})
	p, _, _ := newTestPipeline(t, src, NewPGMWriter(dir))

	summary, err := p.Run()
	assert.NoError(err)
	assert.Equal(1, summary.Frames)
	assert.Equal(EndOfStream, summary.Reason)
	assert.Len(listFiles(t, dir), 1)
}

func TestPipeline_WriteFailureShouldStopTheLoop(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := newSliceSource(5, imgWidth, imgHeight)
	persister := &failingPersister{next: NewPGMWriter(dir), failAt: 2}
	p, det, out := newTestPipeline(t, src, persister)

	summary, err := p.Run()
	assert.Error(err)

	var werr *WriteError
	assert.True(errors.As(err, &werr))
	assert.Equal("frame001.pgm", werr.Path)

	assert.Equal(1, summary.Frames)
	assert.Equal(Failed, summary.Reason)
	assert.Equal(2, det.calls)
	assert.Equal([]string{"frame000.pgm"}, listFiles(t, dir))
	assert.True(src.closed)
	assert.NotContains(out.String(), "Total wall time:")
	assert.Equal(Terminated, p.State())
}

func TestPipeline_CancellationShouldSkipTheCurrentFrame(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := newSliceSource(5, imgWidth, imgHeight)
	p, det, out := newTestPipeline(t, src, NewPGMWriter(dir))

	display := &recordingDisplay{}
	p.Display = display
	p.Canceller = &countdownCanceller{after: 2}

	summary, err := p.Run()
	assert.NoError(err)
	assert.Equal(Cancelled, summary.Reason)
	assert.Equal(2, summary.Frames)
	assert.Equal(2, det.calls)
	assert.Equal(3, display.previews)
	assert.Equal(2, display.results)
	assert.True(display.closed)
	assert.Len(listFiles(t, dir), 2)
	assert.Contains(out.String(), "Total wall time:")
}

func TestPipeline_MalformedFrameShouldFail(t *testing.T) {
	assert := assert.New(t)

	src := newSliceSource(1, imgWidth, imgHeight)
	src.frames[0].Pix = src.frames[0].Pix[:10]
	p, det, _ := newTestPipeline(t, src, NewPGMWriter(t.TempDir()))

	summary, err := p.Run()
	assert.ErrorIs(err, ErrMalformedFrame)
	assert.Equal(Failed, summary.Reason)
	assert.Equal(0, det.calls)
}

func TestPipeline_ShouldNotRunTwice(t *testing.T) {
	assert := assert.New(t)

	src := newSliceSource(1, imgWidth, imgHeight)
	p, _, _ := newTestPipeline(t, src, NewPGMWriter(t.TempDir()))

	_, err := p.Run()
	assert.NoError(err)

	_, err = p.Run()
	assert.ErrorIs(err, ErrTerminated)
}

func TestPipeline_DirectionPathShouldStayConstant(t *testing.T) {
	assert := assert.New(t)

	src := newSliceSource(3, imgWidth, imgHeight)
	p, det, _ := newTestPipeline(t, src, NewPGMWriter(t.TempDir()))
	p.Params.DirectionImage = true

	_, err := p.Run()
	assert.NoError(err)
	assert.Equal([]string{
		"camera_s_1.50_l_0.40_h_0.80.fim",
		"camera_s_1.50_l_0.40_h_0.80.fim",
		"camera_s_1.50_l_0.40_h_0.80.fim",
	}, det.dirPaths)
}

type markingAnnotator struct{}

func (markingAnnotator) Annotate(gray, edges Frame) (Frame, error) {
	out := edges.Clone()
	out.Pix[0] = 128
	return out, nil
}

func TestPipeline_AnnotationShouldNotReachTheDisk(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := newSliceSource(1, imgWidth, imgHeight)
	p, _, _ := newTestPipeline(t, src, NewPGMWriter(dir))

	display := &recordingDisplay{}
	p.Display = display
	p.Annotator = markingAnnotator{}

	_, err := p.Run()
	assert.NoError(err)
	assert.Equal(uint8(128), display.lastResult.Pix[0])

	data, err := os.ReadFile(filepath.Join(dir, "frame000.pgm"))
	require.NoError(t, err)

	header := []byte("P5\n10 10\n255\n")
	require.True(t, bytes.HasPrefix(data, header))
	assert.Equal(uint8(255), data[len(header)])
}

func TestPipeline_AveragesShouldBeTheMeanOfTheIterations(t *testing.T) {
	assert := assert.New(t)

	ms := time.Millisecond
	clock := &scriptedClock{
		base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		// sampler creation, run start, then begin, capture, end for each frame
		wall: []time.Duration{0, 0,
			0, 10 * ms, 30 * ms,
			30 * ms, 50 * ms, 90 * ms,
			90 * ms, 95 * ms, 100 * ms,
		},
		cpu: []time.Duration{
			0, 4 * ms, 10 * ms,
			10 * ms, 12 * ms, 20 * ms,
			20 * ms, 26 * ms, 30 * ms,
		},
	}

	src := newSliceSource(3, imgWidth, imgHeight)
	p, _, _ := newTestPipeline(t, src, NewPGMWriter(t.TempDir()))
	p.Sampler = NewSampler(clock)

	summary, err := p.Run()
	assert.NoError(err)
	assert.Equal(3, summary.Frames)

	avg := summary.Averages
	assert.InDelta((30.0+60.0+10.0)/3/1000, avg.WallElapsed, 1e-9)
	assert.InDelta((10.0+20.0+5.0)/3/1000, avg.WallCapture, 1e-9)
	assert.InDelta((20.0+40.0+5.0)/3/1000, avg.WallProcess, 1e-9)
	assert.InDelta((10.0+10.0+10.0)/3/1000, avg.Elapsed, 1e-9)
	assert.InDelta((4.0+2.0+6.0)/3/1000, avg.Capture, 1e-9)
	assert.InDelta((6.0+8.0+4.0)/3/1000, avg.Process, 1e-9)
	assert.InDelta(avg.Elapsed, avg.Capture+avg.Process, 1e-9)
}
