package cannycam

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/esimov/cannycam/utils"
	"github.com/sirupsen/logrus"
)

// Ops holds the command line options of a run together with the platform specific
// factories. The camera, the display windows and the face annotator depend on native
// libraries, so they are injected by the command.
type Ops struct {
	// Args are the positional arguments: sigma, tlow, thigh and the optional writedirim.
	Args []string
	// ProgName is printed in the usage banner.
	ProgName string

	Device   int
	Src      string
	Loop     bool
	Out      string
	Headless bool
	Strict   bool
	Face     bool
	Cascade  string

	Stdout io.Writer
	Stderr io.Writer
	Logger logrus.FieldLogger

	OpenCamera   func(device, width, height int) (FrameSource, error)
	NewDisplay   func() (Display, Canceller, error)
	Detector     EdgeDetector
	NewAnnotator func(cascade string) (Annotator, error)
	// NewPersister stores the edge maps into the output directory.
	// The pure Go PGMWriter is used when it is not set.
	NewPersister func(dir string) Persister
}

// anyCanceller fires as soon as one of its cancellers fires.
type anyCanceller []Canceller

func (c anyCanceller) Cancelled() bool {
	for _, cc := range c {
		if cc.Cancelled() {
			return true
		}
	}
	return false
}

// Execute runs the capture loop and returns the process exit code.
func (op *Ops) Execute() int {
	op.defaults()
	deco := utils.NewDecorator(op.Stderr)

	params, err := ParseArgs(op.Args)
	if err != nil {
		fmt.Fprintf(op.Stderr, Usage, op.ProgName)
		fmt.Fprintln(op.Stderr, deco.Text(err.Error(), utils.ErrorMessage))
		return 1
	}
	if err := params.Validate(); err != nil {
		if op.Strict {
			fmt.Fprintln(op.Stderr, deco.Text(err.Error(), utils.ErrorMessage))
			return 1
		}
		op.Logger.WithError(err).Warn("unusual detection parameters")
	}
	if op.Face && len(op.Cascade) == 0 {
		fmt.Fprintln(op.Stderr, deco.Text("Please specify a face classifier in case you are using the -face flag!", utils.ErrorMessage))
		return 1
	}
	if op.Detector == nil {
		fmt.Fprintln(op.Stderr, deco.Text("no edge detector configured", utils.ErrorMessage))
		return 1
	}

	if op.Out != "" {
		if err := os.MkdirAll(op.Out, 0755); err != nil {
			fmt.Fprintf(op.Stderr, "%s %s\n",
				deco.Text("Unable to create the output directory:", utils.ErrorMessage),
				deco.Text(err.Error(), utils.DefaultMessage),
			)
			return 1
		}
	}

	var annotator Annotator
	if op.Face {
		if op.NewAnnotator == nil {
			fmt.Fprintln(op.Stderr, deco.Text("face detection is not available in this build", utils.ErrorMessage))
			return 1
		}
		annotator, err = op.NewAnnotator(op.Cascade)
		if err != nil {
			fmt.Fprintf(op.Stderr, "%s %s\n",
				deco.Text("Unable to load the face classifier:", utils.ErrorMessage),
				deco.Text(err.Error(), utils.DefaultMessage),
			)
			return 1
		}
	}

	src, err := op.openSource()
	if err != nil {
		fmt.Fprintf(op.Stderr, "%s %s\n",
			deco.Text("Could not open the capture device:", utils.ErrorMessage),
			deco.Text(err.Error(), utils.DefaultMessage),
		)
		return 1
	}

	signals := NewSignalCanceller(0)
	defer signals.Stop()

	var (
		display   Display   = NopDisplay{}
		canceller Canceller = signals
	)
	if !op.Headless && op.NewDisplay != nil {
		d, c, err := op.NewDisplay()
		if err != nil {
			op.Logger.WithError(err).Warn("no display available, running headless")
		} else {
			display = d
			if c != nil {
				canceller = anyCanceller{c, signals}
			}
		}
	}

	pipeline := NewPipeline(params, src, op.Detector, op.NewPersister(op.Out))
	pipeline.Display = display
	pipeline.Canceller = canceller
	// the markers are only visible on the result window
	if _, headless := display.(NopDisplay); !headless {
		pipeline.Annotator = annotator
	} else if annotator != nil {
		op.Logger.Warn("face markers are only drawn on the result window, ignoring -face without a display")
	}
	pipeline.Reporter = NewReporter(op.Stdout)
	pipeline.Logger = op.Logger

	summary, err := pipeline.Run()
	if err != nil {
		var werr *WriteError
		if errors.As(err, &werr) {
			fmt.Fprintf(op.Stderr, "%s %s\n",
				deco.Text("Error writing the edge image:", utils.ErrorMessage),
				deco.Text(werr.Path, utils.DefaultMessage),
			)
		} else {
			fmt.Fprintln(op.Stderr, deco.Text(err.Error(), utils.ErrorMessage))
		}
		return 1
	}

	fmt.Fprintf(op.Stderr, "\n%d frames processed (%s) in %s\n",
		summary.Frames,
		summary.Reason,
		deco.Text(utils.FormatTime(summary.Total), utils.SuccessMessage),
	)
	return 0
}

func (op *Ops) defaults() {
	if op.Stdout == nil {
		op.Stdout = os.Stdout
	}
	if op.Stderr == nil {
		op.Stderr = os.Stderr
	}
	if op.Logger == nil {
		op.Logger = logrus.StandardLogger()
	}
	if op.NewPersister == nil {
		op.NewPersister = func(dir string) Persister {
			return NewPGMWriter(dir)
		}
	}
	if op.ProgName == "" {
		op.ProgName = filepath.Base(os.Args[0])
	}
}

// openSource opens the replay directory, or the camera when no directory is given.
func (op *Ops) openSource() (FrameSource, error) {
	if op.Src != "" {
		src, err := NewDirSource(op.Src, CaptureWidth, CaptureHeight)
		if err != nil {
			return nil, err
		}
		src.Loop = op.Loop
		return src, nil
	}
	if op.OpenCamera == nil {
		return nil, fmt.Errorf("%w: camera support is not available in this build", ErrDeviceUnavailable)
	}

	if utils.IsTerminal(op.Stderr) {
		deco := utils.NewDecorator(op.Stderr)
		msg := fmt.Sprintf("%s %s",
			deco.Text("◉ CANNYCAM", utils.StatusMessage),
			deco.Text(fmt.Sprintf("⇢ opening the capture device %d...", op.Device), utils.DefaultMessage),
		)
		spinner := utils.NewSpinner(msg, 80*time.Millisecond, op.Stderr, true)
		spinner.Start()
		defer spinner.Stop()
	}

	src, err := op.OpenCamera(op.Device, CaptureWidth, CaptureHeight)
	if err != nil {
		return nil, err
	}
	op.Logger.WithFields(logrus.Fields{
		"device": op.Device,
		"width":  CaptureWidth,
		"height": CaptureHeight,
	}).Debug("capture device opened")

	return src, nil
}
