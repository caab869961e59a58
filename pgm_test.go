package cannycam

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGM_ShouldEncodeTheBinaryGraymap(t *testing.T) {
	assert := assert.New(t)

	f := NewFrame(EdgeMap, 3, 2)
	copy(f.Pix, []uint8{0, 255, 0, 255, 0, 255})

	var buf bytes.Buffer
	assert.NoError(EncodePGM(&buf, f))

	want := append([]byte("P5\n3 2\n255\n"), 0, 255, 0, 255, 0, 255)
	assert.Equal(want, buf.Bytes())
}

func TestPGM_ShouldRejectColorFrames(t *testing.T) {
	var buf bytes.Buffer

	err := EncodePGM(&buf, NewFrame(RawColor, 2, 2))
	assert.ErrorIs(t, err, ErrMalformedFrame)
	assert.Zero(t, buf.Len())
}

func TestPGM_PersistShouldCreateTheFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	w := NewPGMWriter(dir)

	f := NewFrame(EdgeMap, imgWidth, imgHeight)
	require.NoError(t, w.Persist(f, "frame000.pgm"))

	info, err := os.Stat(filepath.Join(dir, "frame000.pgm"))
	require.NoError(t, err)
	assert.Equal(int64(len("P5\n10 10\n255\n")+imgWidth*imgHeight), info.Size())

	// existing files are truncated
	small := NewFrame(EdgeMap, 1, 1)
	require.NoError(t, w.Persist(small, "frame000.pgm"))

	data, err := os.ReadFile(filepath.Join(dir, "frame000.pgm"))
	require.NoError(t, err)
	assert.Equal(append([]byte("P5\n1 1\n255\n"), 0), data)
}

func TestPGM_PersistShouldReportTheFailingPath(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(t.TempDir(), "missing")
	w := NewPGMWriter(dir)

	err := w.Persist(NewFrame(EdgeMap, 2, 2), "frame007.pgm")

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(filepath.Join(dir, "frame007.pgm"), werr.Path)
	assert.Contains(err.Error(), "frame007.pgm")
}

func TestPGM_PersistShouldRemoveIncompleteFiles(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	w := NewPGMWriter(dir)

	malformed := Frame{Kind: EdgeMap, Width: 4, Height: 4, Pix: make([]uint8, 3)}
	err := w.Persist(malformed, "frame000.pgm")
	assert.ErrorIs(err, ErrMalformedFrame)

	_, err = os.Stat(filepath.Join(dir, "frame000.pgm"))
	assert.True(os.IsNotExist(err))
}
