package camera

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/esimov/cannycam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestWriter_ShouldWriteAGraymap(t *testing.T) {
	assert := assert.New(t)

	edges := cannycam.NewFrame(cannycam.EdgeMap, 8, 5)
	for i := range edges.Pix {
		if i%3 == 0 {
			edges.Pix[i] = 255
		}
	}

	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).Persist(edges, "frame000.pgm"))

	mat := gocv.IMRead(filepath.Join(dir, "frame000.pgm"), gocv.IMReadGrayScale)
	defer mat.Close()
	require.False(t, mat.Empty())

	assert.Equal(5, mat.Rows())
	assert.Equal(8, mat.Cols())
	assert.Equal(edges.Pix, mat.ToBytes())
}

func TestWriter_MissingDirectoryShouldReturnAWriteError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	err := Persister(dir).Persist(cannycam.NewFrame(cannycam.EdgeMap, 4, 4), "frame000.pgm")

	var werr *cannycam.WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, filepath.Join(dir, "frame000.pgm"), werr.Path)
	assert.NoFileExists(t, werr.Path)
}

func TestWriter_ShouldRejectColorFrames(t *testing.T) {
	err := NewWriter(t.TempDir()).Persist(cannycam.NewFrame(cannycam.RawColor, 4, 4), "frame000.pgm")
	assert.ErrorIs(t, err, cannycam.ErrMalformedFrame)
}
