package cannycam

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/cannycam/utils"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Supported replay files.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp"}

// DirSource replays the images of a directory as if they were captured by a camera.
// The files are read in lexical order. Images not matching the capture size are resized.
type DirSource struct {
	// Loop restarts the replay from the first file instead of ending the stream.
	Loop bool

	dir    string
	files  []string
	idx    int
	width  int
	height int
	closed bool
}

// NewDirSource lists the supported images of dir. A zero width or height keeps the native image size.
func NewDirSource(dir string, width, height int) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if isValidExtension(strings.ToLower(filepath.Ext(e.Name())), validExtensions) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no supported images found in %s", ErrDeviceUnavailable, dir)
	}

	return &DirSource{
		dir:    dir,
		files:  files,
		width:  width,
		height: height,
	}, nil
}

// Len returns the number of files replayed in one pass.
func (s *DirSource) Len() int { return len(s.files) }

// Next decodes the next image of the directory.
func (s *DirSource) Next() (Frame, error) {
	if s.closed {
		return Frame{}, ErrEndOfStream
	}
	if s.idx >= len(s.files) {
		if !s.Loop {
			return Frame{}, ErrEndOfStream
		}
		s.idx = 0
	}
	path := s.files[s.idx]
	s.idx++

	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if !strings.Contains(ctype.(string), "image") {
		return Frame{}, fmt.Errorf("%w: %s is not an image file", ErrMalformedFrame, path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: could not decode %s: %v", ErrMalformedFrame, path, err)
	}

	if s.width > 0 && s.height > 0 {
		if b := img.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
			img = imaging.Resize(img, s.width, s.height, imaging.Linear)
		}
	}
	return FrameFromImage(img), nil
}

// Close stops the replay.
func (s *DirSource) Close() error {
	s.closed = true
	return nil
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
