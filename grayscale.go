package cannycam

import (
	"fmt"

	"github.com/esimov/cannycam/utils"
)

// ToGrayscale converts a raw BGR frame to a single channel luma frame.
func ToGrayscale(src Frame) (Frame, error) {
	if src.Kind != RawColor {
		return Frame{}, fmt.Errorf("%w: cannot convert a %s frame to grayscale", ErrMalformedFrame, src.Kind)
	}
	if err := src.Validate(); err != nil {
		return Frame{}, err
	}

	dst := NewFrame(Grayscale, src.Width, src.Height)
	for i, j := 0, 0; j < len(dst.Pix); i, j = i+3, j+1 {
		b, g, r := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
		dst.Pix[j] = uint8(utils.Clamp(lum+0.5, 0, 255))
	}
	return dst, nil
}
