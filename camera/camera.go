// Package camera binds the capture loop to OpenCV: device capture, the live
// preview windows and the cancel key poll.
package camera

import (
	"fmt"

	"github.com/esimov/cannycam"
	"gocv.io/x/gocv"
)

// Camera is a cannycam.FrameSource reading BGR frames from a video capture device.
type Camera struct {
	device int
	width  int
	height int
	webcam *gocv.VideoCapture
	frame  gocv.Mat
}

// Open opens the capture device and requests the given frame size.
func Open(device, width, height int) (*Camera, error) {
	webcam, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", cannycam.ErrDeviceUnavailable, device, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, fmt.Errorf("%w: device %d could not be opened", cannycam.ErrDeviceUnavailable, device)
	}
	webcam.Set(gocv.VideoCaptureFrameWidth, float64(width))
	webcam.Set(gocv.VideoCaptureFrameHeight, float64(height))

	return &Camera{
		device: device,
		width:  width,
		height: height,
		webcam: webcam,
		frame:  gocv.NewMat(),
	}, nil
}

// Source adapts Open to the factory signature used by cannycam.Ops.
func Source(device, width, height int) (cannycam.FrameSource, error) {
	c, err := Open(device, width, height)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Next blocks until the device delivers a frame. A failed read or an empty
// frame ends the stream. The driver may ignore the requested size, so the
// frame keeps the size actually delivered.
func (c *Camera) Next() (cannycam.Frame, error) {
	if ok := c.webcam.Read(&c.frame); !ok || c.frame.Empty() {
		return cannycam.Frame{}, cannycam.ErrEndOfStream
	}
	if c.frame.Channels() != 3 {
		return cannycam.Frame{}, fmt.Errorf("%w: expected 3 channels, got %d",
			cannycam.ErrMalformedFrame, c.frame.Channels())
	}

	f := cannycam.Frame{
		Kind:   cannycam.RawColor,
		Width:  c.frame.Cols(),
		Height: c.frame.Rows(),
		Pix:    c.frame.ToBytes(),
	}
	return f, f.Validate()
}

// Close releases the device.
func (c *Camera) Close() error {
	ferr := c.frame.Close()
	werr := c.webcam.Close()
	if ferr != nil {
		return ferr
	}
	return werr
}

// toMat copies a frame into a new Mat. The caller must close it.
func toMat(f cannycam.Frame) (gocv.Mat, error) {
	mt := gocv.MatTypeCV8UC3
	if f.Kind.Channels() == 1 {
		mt = gocv.MatTypeCV8UC1
	}
	return gocv.NewMatFromBytes(f.Height, f.Width, mt, f.Pix)
}
