package canny

import (
	"math"

	"github.com/esimov/cannycam/utils"
)

// Tangent of 22.5 and 67.5 degrees, bounding the quantized gradient directions.
var (
	tan22 = math.Tan(math.Pi / 8)
	tan67 = math.Tan(3 * math.Pi / 8)
)

// neighbor returns the offset of the pixel following the current one along the
// gradient direction, quantized to horizontal, vertical and the two diagonals.
func neighbor(dx, dy, cols int) int {
	ax, ay := float64(utils.Abs(dx)), float64(utils.Abs(dy))
	switch {
	case ay <= ax*tan22:
		return 1
	case ay >= ax*tan67:
		return cols
	case (dx > 0) == (dy > 0):
		return cols + 1
	default:
		return cols - 1
	}
}

// suppress marks the pixels whose magnitude is a local maximum across the gradient
// as edge candidates. The border pixels are never candidates.
func (d *Detector) suppress(out []uint8, rows, cols int) {
	for i := range out {
		out[i] = NoEdge
	}
	for r := 1; r < rows-1; r++ {
		for c := 1; c < cols-1; c++ {
			pos := r*cols + c
			m := d.mag[pos]
			if m == 0 {
				continue
			}
			off := neighbor(d.dx[pos], d.dy[pos], cols)
			if m >= d.mag[pos+off] && m > d.mag[pos-off] {
				out[pos] = possibleEdge
			}
		}
	}
}

// hysteresis promotes the candidates above the high threshold to edges and
// follows them through the connected candidates above the low threshold.
// The high threshold is the thigh quantile of the candidate magnitudes,
// the low threshold is tlow times the high one.
func (d *Detector) hysteresis(edges []uint8, rows, cols int, tlow, thigh float64) {
	maxMag := 0
	for i, e := range edges {
		if e == possibleEdge {
			maxMag = utils.Max(maxMag, d.mag[i])
		}
	}
	if cap(d.hist) < maxMag+1 {
		d.hist = make([]int, maxMag+1)
	}
	hist := d.hist[:maxMag+1]
	for i := range hist {
		hist[i] = 0
	}
	for i, e := range edges {
		if e == possibleEdge {
			hist[d.mag[i]]++
		}
	}

	numEdges := 0
	for r := 1; r <= maxMag; r++ {
		numEdges += hist[r]
	}
	highCount := int(float64(numEdges)*thigh + 0.5)

	r := 1
	numEdges = 0
	if maxMag >= 1 {
		numEdges = hist[1]
	}
	for r < maxMag-1 && numEdges < highCount {
		r++
		numEdges += hist[r]
	}
	high := r
	low := int(float64(high)*tlow + 0.5)

	for pos, e := range edges {
		if e == possibleEdge && d.mag[pos] >= high {
			edges[pos] = Edge
			d.follow(edges, pos, low, rows, cols)
		}
	}
	for i, e := range edges {
		if e != Edge {
			edges[i] = NoEdge
		}
	}
}

// follow marks the candidates connected to the edge at pos whose magnitude exceeds low.
func (d *Detector) follow(edges []uint8, pos, low, rows, cols int) {
	stack := append(d.stack[:0], pos)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r, c := p/cols, p%cols
		for nr := utils.Max(r-1, 0); nr <= utils.Min(r+1, rows-1); nr++ {
			for nc := utils.Max(c-1, 0); nc <= utils.Min(c+1, cols-1); nc++ {
				n := nr*cols + nc
				if edges[n] == possibleEdge && d.mag[n] > low {
					edges[n] = Edge
					stack = append(stack, n)
				}
			}
		}
	}
	d.stack = stack
}
