package cannycam

import (
	"fmt"
	"io"
	"time"
)

// Reporter writes the per-frame and the shutdown diagnostics.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing into w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Frame prints the wall time of the iteration, the six running averages and the current FPS.
func (r *Reporter) Frame(t IterationTiming, avg Averages) {
	fmt.Fprintf(r.w, "Wall time for frame: %f\n", t.WallElapsed().Seconds())
	fmt.Fprintf(r.w, "Average elapsed time: %f\n", avg.Elapsed)
	fmt.Fprintf(r.w, "Average capture time: %f\n", avg.Capture)
	fmt.Fprintf(r.w, "Average process time: %f\n", avg.Process)
	fmt.Fprintf(r.w, "Average real elapsed time: %f\n", avg.WallElapsed)
	fmt.Fprintf(r.w, "Average real capture time: %f\n", avg.WallCapture)
	fmt.Fprintf(r.w, "Average real process time: %f\n", avg.WallProcess)

	if fps, ok := t.FPS(); ok {
		fmt.Fprintf(r.w, "FPS: %f\n", fps)
	} else {
		fmt.Fprintln(r.w, "FPS: n/a")
	}
}

// Total prints the wall time of the whole run.
func (r *Reporter) Total(d time.Duration) {
	fmt.Fprintf(r.w, "Total wall time: %f\n", d.Seconds())
}
