package camera

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/esimov/cannycam"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Writer persists the edge maps with OpenCV. The encoder is picked from the
// file extension, so the ".pgm" names of the frame sequence produce binary graymaps.
type Writer struct {
	Dir    string
	Logger logrus.FieldLogger
}

// NewWriter creates a writer storing the files into dir. An empty dir means the working directory.
func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:    dir,
		Logger: logrus.StandardLogger(),
	}
}

// Persister adapts NewWriter to the factory signature used by cannycam.Ops.
func Persister(dir string) cannycam.Persister {
	return NewWriter(dir)
}

// Persist writes the single channel frame into Dir/name. On failure the
// incomplete file is removed and a *cannycam.WriteError is returned.
func (w *Writer) Persist(f cannycam.Frame, name string) error {
	path := filepath.Join(w.Dir, name)

	if f.Kind.Channels() != 1 {
		return &cannycam.WriteError{
			Path: path,
			Err:  fmt.Errorf("%w: cannot write a %s frame as a graymap", cannycam.ErrMalformedFrame, f.Kind),
		}
	}
	if err := f.Validate(); err != nil {
		return &cannycam.WriteError{Path: path, Err: err}
	}

	mat, err := toMat(f)
	if err != nil {
		return &cannycam.WriteError{Path: path, Err: err}
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) && w.Logger != nil {
			w.Logger.WithError(rerr).Warnf("could not remove the incomplete file %s", path)
		}
		return &cannycam.WriteError{Path: path, Err: fmt.Errorf("failed to save image: %s", path)}
	}
	return nil
}
