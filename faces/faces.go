// Package faces marks the detected faces on the displayed edge map using the pigo face detector.
package faces

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/esimov/cannycam"
	"github.com/esimov/cannycam/utils"
	pigo "github.com/esimov/pigo/core"
)

// Detection defaults.
const (
	DefaultMinSize     = 100
	DefaultShiftFactor = 0.1
	DefaultScaleFactor = 1.1
	DefaultIoU         = 0.2
	DefaultThreshold   = 5.0
)

// markerGray keeps the outlines apart from the black edges and the white background.
const markerGray = 128

// Marker detects faces on the grayscale frame and outlines them on the edge map.
type Marker struct {
	// Angle is the in-plane rotation of the searched faces, as a fraction of 2*Pi.
	Angle float64
	// Threshold is the minimum detection score of a marked face.
	Threshold float32
	// Thickness is the outline width in pixels.
	Thickness int

	detector *pigo.Pigo
}

// NewMarker unpacks a pigo cascade file.
func NewMarker(cascade []byte) (*Marker, error) {
	if len(cascade) == 0 {
		return nil, errors.New("empty cascade file")
	}
	detector, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %v", err)
	}
	return &Marker{
		Threshold: DefaultThreshold,
		Thickness: 2,
		detector:  detector,
	}, nil
}

// LoadCascade reads a cascade file from a local path or downloads it when src is an URL.
func LoadCascade(src string) ([]byte, error) {
	if !utils.IsValidUrl(src) {
		return os.ReadFile(src)
	}

	f, err := utils.DownloadFile(src)
	if f != nil {
		defer os.Remove(f.Name())
		defer f.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download the cascade file: %w", err)
	}
	return io.ReadAll(f)
}

// Annotator loads the cascade from src and returns a marker. It has the factory
// signature used by cannycam.Ops.
func Annotator(src string) (cannycam.Annotator, error) {
	cascade, err := LoadCascade(src)
	if err != nil {
		return nil, err
	}
	m, err := NewMarker(cascade)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Detect returns the clustered face detections of a grayscale frame scoring above the threshold.
func (m *Marker) Detect(gray cannycam.Frame) []pigo.Detection {
	params := pigo.CascadeParams{
		MinSize:     DefaultMinSize,
		MaxSize:     utils.Max(gray.Width, gray.Height),
		ShiftFactor: DefaultShiftFactor,
		ScaleFactor: DefaultScaleFactor,

		ImageParams: pigo.ImageParams{
			Pixels: gray.Pix,
			Rows:   gray.Height,
			Cols:   gray.Width,
			Dim:    gray.Width,
		},
	}

	// Each detection holds the row, column, scale and score of a face.
	dets := m.detector.RunCascade(params, m.Angle)
	dets = m.detector.ClusterDetections(dets, DefaultIoU)

	faces := dets[:0]
	for _, det := range dets {
		if det.Q > m.Threshold {
			faces = append(faces, det)
		}
	}
	return faces
}

// Annotate outlines the faces found on gray over a copy of the edge map.
func (m *Marker) Annotate(gray, edges cannycam.Frame) (cannycam.Frame, error) {
	if gray.Kind != cannycam.Grayscale {
		return cannycam.Frame{}, fmt.Errorf("%w: face detection expects a grayscale frame", cannycam.ErrMalformedFrame)
	}
	out := edges.Clone()
	Outline(out, m.Detect(gray), m.Thickness)
	return out, nil
}

// Outline draws the bounding square of every detection onto a single channel frame, in place.
func Outline(f cannycam.Frame, dets []pigo.Detection, thickness int) {
	img, ok := f.ToImage().(*image.Gray)
	if !ok {
		return
	}
	thickness = utils.Max(thickness, 1)
	ink := image.NewUniform(color.Gray{Y: markerGray})

	for _, det := range dets {
		half := det.Scale / 2
		box := image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half).Intersect(img.Rect)
		if box.Empty() {
			continue
		}
		t := utils.Min(thickness, utils.Min(box.Dx(), box.Dy()))

		sides := []image.Rectangle{
			image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+t),
			image.Rect(box.Min.X, box.Max.Y-t, box.Max.X, box.Max.Y),
			image.Rect(box.Min.X, box.Min.Y, box.Min.X+t, box.Max.Y),
			image.Rect(box.Max.X-t, box.Min.Y, box.Max.X, box.Max.Y),
		}
		for _, side := range sides {
			draw.Draw(img, side, ink, image.Point{}, draw.Src)
		}
	}
}
