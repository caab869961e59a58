package cannycam

import (
	"os"
	"os/signal"
	"syscall"
	"time"
)

// FrameSource yields raw frames on demand and owns the underlying device.
type FrameSource interface {
	// Next blocks until a frame is available. It returns ErrEndOfStream once the stream is over.
	Next() (Frame, error)
	// Close releases the device.
	Close() error
}

// EdgeDetector turns a grayscale frame into an edge map.
// When dirPath is not empty the detector also writes the gradient direction image there.
type EdgeDetector interface {
	Detect(gray Frame, p DetectionParameters, dirPath string) (Frame, error)
}

// Display renders frames for live viewing.
type Display interface {
	ShowPreview(Frame)
	ShowResult(Frame)
	Close() error
}

// Canceller is polled once per iteration. It may block up to a bounded timeout.
type Canceller interface {
	Cancelled() bool
}

// Persister stores an edge map under the given file name.
type Persister interface {
	Persist(f Frame, name string) error
}

// Annotator decorates the edge map shown on the result view. The persisted edge map is never annotated.
type Annotator interface {
	Annotate(gray, edges Frame) (Frame, error)
}

// NopDisplay discards every frame. It is used in headless mode.
type NopDisplay struct{}

func (NopDisplay) ShowPreview(Frame) {}
func (NopDisplay) ShowResult(Frame)  {}
func (NopDisplay) Close() error      { return nil }

// NeverCancel is a Canceller which never fires.
type NeverCancel struct{}

func (NeverCancel) Cancelled() bool { return false }

// SignalCanceller reports a cancellation once SIGINT or SIGTERM was received.
type SignalCanceller struct {
	sigChan   chan os.Signal
	timeout   time.Duration
	cancelled bool
}

// NewSignalCanceller starts relaying the termination signals.
// Each poll waits at most timeout for a signal; a zero timeout does not wait at all.
func NewSignalCanceller(timeout time.Duration) *SignalCanceller {
	c := &SignalCanceller{
		sigChan: make(chan os.Signal, 1),
		timeout: timeout,
	}
	signal.Notify(c.sigChan, os.Interrupt, syscall.SIGTERM)
	return c
}

// Cancelled polls for a pending signal.
func (c *SignalCanceller) Cancelled() bool {
	if c.cancelled {
		return true
	}
	if c.timeout <= 0 {
		select {
		case <-c.sigChan:
			c.cancelled = true
		default:
		}
		return c.cancelled
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-c.sigChan:
		c.cancelled = true
	case <-timer.C:
	}
	return c.cancelled
}

// Stop restores the default signal handling.
func (c *SignalCanceller) Stop() {
	signal.Stop(c.sigChan)
}
