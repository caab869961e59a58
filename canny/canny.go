// Package canny implements the Canny edge detector on single channel 8 bit images.
//
// The detection runs in four steps: gaussian smoothing, gradient computation by
// central differences, non-maximum suppression along the gradient direction and
// edge tracking by hysteresis. See https://en.wikipedia.org/wiki/Canny_edge_detector
package canny

import (
	"fmt"
	"math"

	"github.com/esimov/cannycam"
	"github.com/sirupsen/logrus"
)

// Pixel values of the edge map.
const (
	Edge         uint8 = 0
	NoEdge       uint8 = 255
	possibleEdge uint8 = 128
)

// The smoothed image is scaled up before the rounding, so the
// gradient keeps some precision in integer arithmetic.
const boostBlurFactor = 90.0

// Detector is a Canny edge detector implementing cannycam.EdgeDetector.
// It keeps its scratch buffers between frames, so it must not be shared between goroutines.
type Detector struct {
	Logger logrus.FieldLogger

	sigma  float64
	kernel []float64

	tmp      []float64
	smoothed []int
	dx, dy   []int
	mag      []int
	hist     []int
	stack    []int
}

// NewDetector creates a detector with empty scratch buffers.
func NewDetector() *Detector {
	return &Detector{Logger: logrus.StandardLogger()}
}

// Detect computes the edge map of a grayscale frame. When dirPath is not empty
// the gradient direction image is written there as well, replacing the previous one.
func (d *Detector) Detect(gray cannycam.Frame, p cannycam.DetectionParameters, dirPath string) (cannycam.Frame, error) {
	if gray.Kind != cannycam.Grayscale {
		return cannycam.Frame{}, fmt.Errorf("%w: canny expects a grayscale frame, got %s", cannycam.ErrMalformedFrame, gray.Kind)
	}
	if err := gray.Validate(); err != nil {
		return cannycam.Frame{}, err
	}
	if math.IsNaN(p.Sigma) || math.IsInf(p.Sigma, 0) {
		return cannycam.Frame{}, fmt.Errorf("%w: sigma must be finite, got %v", cannycam.ErrUsage, p.Sigma)
	}

	edges := cannycam.NewFrame(cannycam.EdgeMap, gray.Width, gray.Height)
	d.detect(gray.Pix, edges.Pix, gray.Height, gray.Width, p.Sigma, p.TLow, p.THigh)

	if dirPath != "" {
		if err := WriteDirectionFile(dirPath, d.dx, d.dy); err != nil {
			return cannycam.Frame{}, err
		}
	}
	return edges, nil
}

// Edges returns the edge map of a rows x cols image using a throwaway detector.
func Edges(pix []uint8, rows, cols int, sigma, tlow, thigh float64) []uint8 {
	edges := make([]uint8, rows*cols)
	NewDetector().detect(pix, edges, rows, cols, sigma, tlow, thigh)
	return edges
}

func (d *Detector) detect(pix, edges []uint8, rows, cols int, sigma, tlow, thigh float64) {
	d.alloc(rows * cols)

	d.smooth(pix, rows, cols, sigma)
	d.derivatives(rows, cols)
	d.magnitude()
	d.suppress(edges, rows, cols)
	d.hysteresis(edges, rows, cols, tlow, thigh)

	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"rows":  rows,
			"cols":  cols,
			"sigma": sigma,
		}).Trace("edge map computed")
	}
}

// alloc grows the scratch buffers to n elements.
func (d *Detector) alloc(n int) {
	if cap(d.smoothed) < n {
		d.tmp = make([]float64, n)
		d.smoothed = make([]int, n)
		d.dx = make([]int, n)
		d.dy = make([]int, n)
		d.mag = make([]int, n)
	}
	d.tmp = d.tmp[:n]
	d.smoothed = d.smoothed[:n]
	d.dx = d.dx[:n]
	d.dy = d.dy[:n]
	d.mag = d.mag[:n]
}
