package cannycam

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is returned when the command line arguments are insufficient or malformed.
	ErrUsage = errors.New("invalid usage")

	// ErrDeviceUnavailable is returned when the capture device cannot be opened.
	ErrDeviceUnavailable = errors.New("capture device unavailable")

	// ErrEndOfStream is returned by a FrameSource once it has no more frames.
	// It is a normal terminal condition, not a failure.
	ErrEndOfStream = errors.New("end of stream")

	// ErrMalformedFrame is returned when a frame buffer does not match its declared dimensions or format.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrTerminated is returned when Run is called on a pipeline which already terminated.
	ErrTerminated = errors.New("pipeline already terminated")
)

// WriteError reports a failure to persist an edge map.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("error writing the edge image %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
