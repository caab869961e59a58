package cannycam

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// PGMWriter persists edge maps as binary Netpbm graymaps (P5) inside a directory.
type PGMWriter struct {
	Dir string
}

// NewPGMWriter creates a writer storing the files into dir. An empty dir means the working directory.
func NewPGMWriter(dir string) *PGMWriter {
	return &PGMWriter{Dir: dir}
}

// Persist writes the frame into Dir/name. On failure the partially written file is removed
// and a *WriteError is returned.
func (w *PGMWriter) Persist(f Frame, name string) (err error) {
	path := filepath.Join(w.Dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
				logrus.WithError(rerr).Warnf("could not remove the incomplete file %s", path)
			}
		}
	}()

	if err := EncodePGM(file, f); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// EncodePGM writes a single channel frame as a binary PGM image with a maximum gray value of 255.
func EncodePGM(w io.Writer, f Frame) error {
	if f.Kind.Channels() != 1 {
		return fmt.Errorf("%w: cannot encode a %s frame as PGM", ErrMalformedFrame, f.Kind)
	}
	if err := f.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", f.Width, f.Height); err != nil {
		return err
	}
	if _, err := bw.Write(f.Pix); err != nil {
		return err
	}
	return bw.Flush()
}
