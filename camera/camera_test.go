package camera

import (
	"testing"

	"github.com/esimov/cannycam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestCamera_MissingDeviceShouldBeUnavailable(t *testing.T) {
	_, err := Open(99, cannycam.CaptureWidth, cannycam.CaptureHeight)
	assert.ErrorIs(t, err, cannycam.ErrDeviceUnavailable)
}

func TestCamera_FrameToMat(t *testing.T) {
	assert := assert.New(t)

	raw := cannycam.NewFrame(cannycam.RawColor, 4, 3)
	for i := range raw.Pix {
		raw.Pix[i] = uint8(i)
	}
	mat, err := toMat(raw)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(3, mat.Rows())
	assert.Equal(4, mat.Cols())
	assert.Equal(3, mat.Channels())
	assert.Equal(raw.Pix, mat.ToBytes())

	edges := cannycam.NewFrame(cannycam.EdgeMap, 4, 3)
	gray, err := toMat(edges)
	require.NoError(t, err)
	defer gray.Close()

	assert.Equal(1, gray.Channels())
}

func TestCamera_CloseShouldReleaseTheDevice(t *testing.T) {
	c := &Camera{
		webcam: &gocv.VideoCapture{},
		frame:  gocv.NewMat(),
	}
	assert.NoError(t, c.Close())
}
