package camera

import (
	"github.com/esimov/cannycam"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Window titles.
const (
	PreviewTitle = "Live feed"
	ResultTitle  = "Live feed (Hit esc to stop)"
)

// escKey is the key code reported by WaitKey for the escape key.
const escKey = 27

// Windows shows the captured frames and the edge maps in two highgui windows.
type Windows struct {
	Logger logrus.FieldLogger

	preview *gocv.Window
	result  *gocv.Window
}

// NewWindows opens the preview and the result windows.
func NewWindows() *Windows {
	return &Windows{
		Logger:  logrus.StandardLogger(),
		preview: gocv.NewWindow(PreviewTitle),
		result:  gocv.NewWindow(ResultTitle),
	}
}

// Display adapts NewWindows to the factory signature used by cannycam.Ops.
// The returned canceller polls the keyboard through the result window.
func Display() (cannycam.Display, cannycam.Canceller, error) {
	w := NewWindows()
	return w, &KeyCanceller{Window: w.result, Delay: 10}, nil
}

// ShowPreview renders the raw frame.
func (w *Windows) ShowPreview(f cannycam.Frame) { w.show(w.preview, f) }

// ShowResult renders the edge map.
func (w *Windows) ShowResult(f cannycam.Frame) { w.show(w.result, f) }

func (w *Windows) show(win *gocv.Window, f cannycam.Frame) {
	mat, err := toMat(f)
	if err != nil {
		w.Logger.WithError(err).Warn("could not render the frame")
		return
	}
	defer mat.Close()

	win.IMShow(mat)
}

// Close destroys both windows.
func (w *Windows) Close() error {
	if err := w.preview.Close(); err != nil {
		return err
	}
	return w.result.Close()
}

// KeyCanceller reports a cancellation once the escape key was pressed.
// Each poll also lets highgui process its pending window events.
type KeyCanceller struct {
	Window *gocv.Window
	// Delay is the maximum time in milliseconds a poll waits for a key.
	Delay int
}

// Cancelled polls the keyboard for at most Delay milliseconds.
func (k *KeyCanceller) Cancelled() bool {
	return k.Window.WaitKey(k.Delay) == escKey
}
