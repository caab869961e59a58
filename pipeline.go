package cannycam

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Pipeline.
type State int

const (
	// Running is entered once the frame source is open.
	Running State = iota
	// Terminating releases the resources and reports the total run time.
	Terminating
	// Terminated is final. A terminated pipeline cannot be run again.
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reason tells why the loop stopped.
type Reason int

const (
	continueLoop Reason = iota
	// EndOfStream means the source ran out of frames.
	EndOfStream
	// Cancelled means the user asked to stop.
	Cancelled
	// Failed means a fatal error stopped the loop.
	Failed
)

func (r Reason) String() string {
	switch r {
	case EndOfStream:
		return "end of stream"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "running"
}

// Summary describes a finished run.
type Summary struct {
	Frames   int
	Reason   Reason
	Total    time.Duration
	Averages Averages
}

// Pipeline is the capture, detect, persist and measure loop.
// It runs on a single goroutine and owns the source, the statistics and the frame sequence.
type Pipeline struct {
	Params    DetectionParameters
	Source    FrameSource
	Detector  EdgeDetector
	Persister Persister
	Display   Display
	Canceller Canceller
	Annotator Annotator
	Reporter  *Reporter
	Sampler   *Sampler
	Logger    logrus.FieldLogger

	sequence FrameSequence
	state    State
	dirPath  string
}

// NewPipeline creates a headless pipeline reporting on the standard output.
// The optional collaborators (Display, Canceller, Annotator) can be replaced before calling Run.
func NewPipeline(params DetectionParameters, src FrameSource, det EdgeDetector, persister Persister) *Pipeline {
	return &Pipeline{
		Params:    params,
		Source:    src,
		Detector:  det,
		Persister: persister,
		Display:   NopDisplay{},
		Canceller: NeverCancel{},
		Reporter:  NewReporter(os.Stdout),
		Sampler:   NewSampler(SystemClock()),
		Logger:    logrus.StandardLogger(),
	}
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State { return p.state }

// Run executes the loop until the stream ends, the user cancels or a fatal error occurs.
// End of stream and cancellation are normal terminations and return a nil error.
func (p *Pipeline) Run() (Summary, error) {
	if p.state != Running {
		return Summary{}, ErrTerminated
	}
	if p.Sampler == nil {
		p.Sampler = NewSampler(SystemClock())
	}
	if p.Display == nil {
		p.Display = NopDisplay{}
	}
	if p.Canceller == nil {
		p.Canceller = NeverCancel{}
	}
	if p.Reporter == nil {
		p.Reporter = NewReporter(os.Stdout)
	}
	if p.Logger == nil {
		p.Logger = logrus.StandardLogger()
	}

	p.dirPath = p.Params.DirectionImagePath()
	p.Sampler.Start()
	p.Logger.WithFields(logrus.Fields{
		"sigma":     p.Params.Sigma,
		"tlow":      p.Params.TLow,
		"thigh":     p.Params.THigh,
		"direction": p.dirPath,
	}).Info("pipeline running")

	var (
		reason = continueLoop
		err    error
	)
	for p.state == Running {
		reason, err = p.iterate()
		switch {
		case err != nil:
			p.state = Terminated
		case reason != continueLoop:
			p.state = Terminating
		}
	}
	return p.shutdown(reason, err)
}

// iterate runs one acquire, preview, cancel check, convert, detect, persist, show and report cycle.
func (p *Pipeline) iterate() (Reason, error) {
	p.Sampler.Begin()

	frame, err := p.Source.Next()
	if errors.Is(err, ErrEndOfStream) || (err == nil && frame.Empty()) {
		return EndOfStream, nil
	}
	if err != nil {
		return Failed, fmt.Errorf("frame acquisition failed: %w", err)
	}
	if err := frame.Validate(); err != nil {
		return Failed, err
	}

	p.Display.ShowPreview(frame)
	if p.Canceller.Cancelled() {
		return Cancelled, nil
	}
	p.Sampler.MarkCapture()

	gray, err := ToGrayscale(frame)
	if err != nil {
		return Failed, err
	}
	edges, err := p.Detector.Detect(gray, p.Params, p.dirPath)
	if err != nil {
		return Failed, fmt.Errorf("edge detection failed: %w", err)
	}

	name := p.sequence.Next()
	if err := p.Persister.Persist(edges, name); err != nil {
		return Failed, err
	}
	timing := p.Sampler.End()

	p.Display.ShowResult(p.annotate(gray, edges))

	avg := p.Sampler.Record(timing)
	p.Reporter.Frame(timing, avg)
	p.Logger.WithFields(logrus.Fields{
		"file":    name,
		"elapsed": timing.WallElapsed(),
	}).Debug("frame processed")

	return continueLoop, nil
}

// annotate returns the frame shown on the result view.
// Annotation failures are not fatal: the plain edge map is shown instead.
func (p *Pipeline) annotate(gray, edges Frame) Frame {
	if p.Annotator == nil {
		return edges
	}
	shown, err := p.Annotator.Annotate(gray, edges)
	if err != nil {
		p.Logger.WithError(err).Warn("could not annotate the result view")
		return edges
	}
	return shown
}

// shutdown releases the source and the display and reports the run.
func (p *Pipeline) shutdown(reason Reason, runErr error) (Summary, error) {
	if err := p.Source.Close(); err != nil {
		p.Logger.WithError(err).Warn("could not release the frame source")
	}
	if err := p.Display.Close(); err != nil {
		p.Logger.WithError(err).Warn("could not close the display")
	}

	stats := p.Sampler.Stats()
	avg, _ := stats.Averages()
	summary := Summary{
		Frames:   stats.Frames(),
		Reason:   reason,
		Averages: avg,
	}

	if runErr != nil {
		p.state = Terminated
		p.Logger.WithFields(logrus.Fields{
			"frames": summary.Frames,
		}).WithError(runErr).Error("pipeline failed")
		return summary, runErr
	}

	summary.Total = p.Sampler.TotalWall()
	p.Reporter.Total(summary.Total)
	p.state = Terminated

	p.Logger.WithFields(logrus.Fields{
		"frames": summary.Frames,
		"reason": reason.String(),
		"total":  summary.Total,
	}).Info("pipeline terminated")

	return summary, nil
}
