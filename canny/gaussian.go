package canny

import (
	"math"

	"github.com/esimov/cannycam/utils"
)

// gaussianKernel returns a normalized one dimensional gaussian kernel
// of 1+2*ceil(2.5*sigma) taps. A non positive or non finite sigma yields the identity kernel.
func gaussianKernel(sigma float64) []float64 {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return []float64{1}
	}
	size := 1 + 2*int(math.Ceil(2.5*sigma))
	center := size / 2

	kernel := make([]float64, size)
	var sum float64
	for i := range kernel {
		x := float64(i - center)
		kernel[i] = math.Exp(-0.5*x*x/(sigma*sigma)) / (sigma * math.Sqrt(2*math.Pi))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// smooth blurs the image first along the rows, then along the columns.
// Near the borders only the in-bounds taps are used and the result is
// normalized by their weight.
func (d *Detector) smooth(pix []uint8, rows, cols int, sigma float64) {
	if d.kernel == nil || d.sigma != sigma {
		d.kernel = gaussianKernel(sigma)
		d.sigma = sigma
	}
	kernel := d.kernel
	center := len(kernel) / 2

	for r := 0; r < rows; r++ {
		row := r * cols
		for c := 0; c < cols; c++ {
			var dot, sum float64
			for cc := utils.Max(-center, -c); cc <= utils.Min(center, cols-1-c); cc++ {
				dot += float64(pix[row+c+cc]) * kernel[center+cc]
				sum += kernel[center+cc]
			}
			d.tmp[row+c] = dot / sum
		}
	}

	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			var dot, sum float64
			for rr := utils.Max(-center, -r); rr <= utils.Min(center, rows-1-r); rr++ {
				dot += d.tmp[(r+rr)*cols+c] * kernel[center+rr]
				sum += kernel[center+rr]
			}
			d.smoothed[r*cols+c] = int(dot*boostBlurFactor/sum + 0.5)
		}
	}
}
