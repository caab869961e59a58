package cannycam

import (
	"fmt"
	"image"
	"image/color"
)

// Kind tags the content of a frame buffer.
type Kind int

const (
	// RawColor is a packed 3 bytes per pixel buffer in BGR order, as delivered by OpenCV.
	RawColor Kind = iota
	// Grayscale is a single channel luma buffer.
	Grayscale
	// EdgeMap is a single channel buffer produced by the edge detector.
	EdgeMap
)

func (k Kind) String() string {
	switch k {
	case RawColor:
		return "raw-color"
	case Grayscale:
		return "grayscale"
	case EdgeMap:
		return "edge-map"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Channels returns the number of bytes used by one pixel.
func (k Kind) Channels() int {
	if k == RawColor {
		return 3
	}
	return 1
}

// Frame is a raster buffer captured or derived during one loop iteration.
type Frame struct {
	Kind   Kind
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a zeroed frame of the given kind and size.
func NewFrame(kind Kind, width, height int) Frame {
	return Frame{
		Kind:   kind,
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*kind.Channels()),
	}
}

// Empty reports whether the frame holds no pixels. Sources return empty frames at the end of the stream.
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Pix) == 0
}

// Validate checks that the pixel buffer matches the declared dimensions.
func (f Frame) Validate() error {
	if f.Empty() {
		return fmt.Errorf("%w: empty %s frame", ErrMalformedFrame, f.Kind)
	}
	if want := f.Width * f.Height * f.Kind.Channels(); len(f.Pix) != want {
		return fmt.Errorf("%w: %s frame %dx%d has %d bytes, expected %d",
			ErrMalformedFrame, f.Kind, f.Width, f.Height, len(f.Pix), want)
	}
	return nil
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	pix := make([]uint8, len(f.Pix))
	copy(pix, f.Pix)
	f.Pix = pix
	return f
}

// ToImage converts the frame into a standard library image.
// Single channel frames become *image.Gray, raw color frames *image.NRGBA.
func (f Frame) ToImage() image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.Kind.Channels() == 1 {
		return &image.Gray{Pix: f.Pix, Stride: f.Width, Rect: rect}
	}

	dst := image.NewNRGBA(rect)
	for i, j := 0, 0; i+2 < len(f.Pix) && j+3 < len(dst.Pix); i, j = i+3, j+4 {
		dst.Pix[j+0] = f.Pix[i+2]
		dst.Pix[j+1] = f.Pix[i+1]
		dst.Pix[j+2] = f.Pix[i+0]
		dst.Pix[j+3] = 0xff
	}
	return dst
}

// FrameFromImage converts any image type to a raw color frame with min-point at (0, 0).
func FrameFromImage(img image.Image) Frame {
	bounds := img.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()
	f := NewFrame(RawColor, dx, dy)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			di := y * dx * 3
			for x := 0; x < dx; x++ {
				f.Pix[di+0] = src.Pix[si+2]
				f.Pix[di+1] = src.Pix[si+1]
				f.Pix[di+2] = src.Pix[si+0]
				si += 4
				di += 3
			}
		}
	case *image.YCbCr:
		for y := 0; y < dy; y++ {
			di := y * dx * 3
			for x := 0; x < dx; x++ {
				siy := src.YOffset(bounds.Min.X+x, bounds.Min.Y+y)
				sic := src.COffset(bounds.Min.X+x, bounds.Min.Y+y)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				f.Pix[di+0] = b
				f.Pix[di+1] = g
				f.Pix[di+2] = r
				di += 3
			}
		}
	default:
		for y := 0; y < dy; y++ {
			di := y * dx * 3
			for x := 0; x < dx; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				f.Pix[di+0] = c.B
				f.Pix[di+1] = c.G
				f.Pix[di+2] = c.R
				di += 3
			}
		}
	}
	return f
}
