package canny

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/esimov/cannycam"
)

// derivatives computes the x and y derivatives of the smoothed image.
// Interior pixels use central differences, the first and last row or column one-sided ones.
func (d *Detector) derivatives(rows, cols int) {
	s := d.smoothed

	for r := 0; r < rows; r++ {
		pos := r * cols
		if cols == 1 {
			d.dx[pos] = 0
			continue
		}
		d.dx[pos] = s[pos+1] - s[pos]
		for c := 1; c < cols-1; c++ {
			d.dx[pos+c] = s[pos+c+1] - s[pos+c-1]
		}
		d.dx[pos+cols-1] = s[pos+cols-1] - s[pos+cols-2]
	}

	for c := 0; c < cols; c++ {
		if rows == 1 {
			d.dy[c] = 0
			continue
		}
		d.dy[c] = s[c+cols] - s[c]
		for r := 1; r < rows-1; r++ {
			pos := r*cols + c
			d.dy[pos] = s[pos+cols] - s[pos-cols]
		}
		last := (rows-1)*cols + c
		d.dy[last] = s[last] - s[last-cols]
	}
}

// magnitude computes the rounded gradient magnitude.
func (d *Detector) magnitude() {
	for i := range d.mag {
		dx, dy := float64(d.dx[i]), float64(d.dy[i])
		d.mag[i] = int(0.5 + math.Sqrt(dx*dx+dy*dy))
	}
}

// angleRadians returns the angle of the (x, y) vector in the [0, 2*Pi) interval.
func angleRadians(x, y float64) float64 {
	xu, yu := math.Abs(x), math.Abs(y)
	if xu == 0 && yu == 0 {
		return 0
	}
	ang := math.Atan(yu / xu)

	if x >= 0 {
		if y >= 0 {
			return ang
		}
		return 2*math.Pi - ang
	}
	if y >= 0 {
		return math.Pi - ang
	}
	return math.Pi + ang
}

// WriteDirection writes the gradient direction of every pixel as little endian
// float32 radians, measured counterclockwise from the positive x axis.
func WriteDirection(w io.Writer, dx, dy []int) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 4)
	for i := range dx {
		// the image y axis points downwards
		dir := float32(angleRadians(float64(-dx[i]), float64(-dy[i])))
		binary.LittleEndian.PutUint32(buf, math.Float32bits(dir))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDirectionFile creates or truncates path and writes the direction image into it.
func WriteDirectionFile(path string, dx, dy []int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &cannycam.WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &cannycam.WriteError{Path: path, Err: cerr}
		}
	}()

	if err := WriteDirection(f, dx, dy); err != nil {
		return &cannycam.WriteError{Path: path, Err: err}
	}
	return nil
}
