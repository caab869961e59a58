package cannycam

import (
	"fmt"
	"math"
	"strconv"
)

// Runtime constants. They are not configurable from the command line.
const (
	CaptureWidth  = 640
	CaptureHeight = 480

	// FramesPerUnit is the number of frames a single iteration accounts for when computing the FPS.
	FramesPerUnit = 1.0
)

// Usage is printed when the positional arguments are missing.
const Usage = `
<USAGE> %s [flags] sigma tlow thigh [writedirim]
      sigma:      Standard deviation of the gaussian blur kernel.
      tlow:       Fraction (0.0-1.0) of the high edge strength threshold.
      thigh:      Fraction (0.0-1.0) of the distribution of non-zero edge
                  strengths for hysteresis. The fraction is used to compute
                  the high edge strength threshold.
      writedirim: Optional argument to output a floating point direction image.

`

// DetectionParameters holds the edge detector settings. It is set once at startup.
type DetectionParameters struct {
	Sigma          float64
	TLow           float64
	THigh          float64
	DirectionImage bool
}

// ParseArgs reads the detection parameters from the positional command line arguments:
// sigma, tlow, thigh and an optional fourth argument of any value enabling the direction image.
func ParseArgs(args []string) (DetectionParameters, error) {
	var p DetectionParameters
	if len(args) < 3 {
		return p, fmt.Errorf("%w: expected at least 3 arguments, got %d", ErrUsage, len(args))
	}

	values := make([]float64, 3)
	for i, name := range []string{"sigma", "tlow", "thigh"} {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return p, fmt.Errorf("%w: %s must be a number, got %q", ErrUsage, name, args[i])
		}
		values[i] = v
	}
	p.Sigma, p.TLow, p.THigh = values[0], values[1], values[2]
	p.DirectionImage = len(args) > 3

	return p, nil
}

// Validate checks the parameters against their documented ranges.
// The values are never altered; invalid combinations are only reported.
func (p DetectionParameters) Validate() error {
	// the comparisons are written as range checks so that NaN fails them
	switch {
	case !(p.Sigma > 0) || math.IsInf(p.Sigma, 1):
		return fmt.Errorf("%w: sigma must be a positive finite number, got %v", ErrUsage, p.Sigma)
	case !(p.TLow >= 0 && p.TLow <= 1):
		return fmt.Errorf("%w: tlow must be in [0,1], got %v", ErrUsage, p.TLow)
	case !(p.THigh >= 0 && p.THigh <= 1):
		return fmt.Errorf("%w: thigh must be in [0,1], got %v", ErrUsage, p.THigh)
	case p.TLow > p.THigh:
		return fmt.Errorf("%w: tlow (%v) is greater than thigh (%v)", ErrUsage, p.TLow, p.THigh)
	}
	return nil
}

// DirectionImagePath returns the name of the gradient direction image.
// It depends only on the parameters, so it stays the same for the whole run.
// An empty string is returned when the direction image is disabled.
func (p DetectionParameters) DirectionImagePath() string {
	if !p.DirectionImage {
		return ""
	}
	return fmt.Sprintf("camera_s_%3.2f_l_%3.2f_h_%3.2f.fim", p.Sigma, p.TLow, p.THigh)
}
