package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/esimov/cannycam"
	"github.com/esimov/cannycam/camera"
	"github.com/esimov/cannycam/canny"
	"github.com/esimov/cannycam/faces"
	"github.com/sirupsen/logrus"
)

const HelpBanner = `
┌─┐┌─┐┌┐┌┌┐┌┬ ┬┌─┐┌─┐┌┬┐
│  ├─┤│││││││└┬┘│  ├─┤│││
└─┘┴ ┴┘└┘┘└┘ ┴ └─┘┴ ┴┴ ┴

Real-time Canny edge detection on a camera feed.
    Version: %s
`

// Version indicates the current build version.
var Version string

var (
	// Flags
	device   = flag.Int("device", 0, "Capture device index")
	source   = flag.String("src", "", "Replay the images of this directory instead of the camera")
	loop     = flag.Bool("loop", false, "Restart the replay from the first image")
	output   = flag.String("out", ".", "Output directory of the edge maps")
	headless = flag.Bool("headless", false, "Do not open any window, stop on SIGINT/SIGTERM")
	strict   = flag.Bool("strict", false, "Reject sigma <= 0 and thresholds outside 0 <= tlow <= thigh <= 1")
	face     = flag.Bool("face", false, "Mark the detected faces on the result window")
	cascade  = flag.String("cc", "", "Face cascade classifier (file path or URL)")
	debug    = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		fmt.Fprintf(os.Stderr, cannycam.Usage, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := initLogger(*debug)
	if !cannycam.CPUClockSupported() {
		logger.Warn("process CPU time is not available on this platform, CPU timings are reported as zero")
	}

	detector := canny.NewDetector()
	detector.Logger = logger

	op := &cannycam.Ops{
		Args:     flag.Args(),
		ProgName: os.Args[0],
		Device:   *device,
		Src:      *source,
		Loop:     *loop,
		Out:      *output,
		Headless: *headless,
		Strict:   *strict,
		Face:     *face,
		Cascade:  *cascade,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   logger,

		OpenCamera: camera.Source,
		NewDisplay: func() (cannycam.Display, cannycam.Canceller, error) {
			d, c, err := camera.Display()
			if w, ok := d.(*camera.Windows); ok {
				w.Logger = logger
			}
			return d, c, err
		},
		Detector:     detector,
		NewAnnotator: faces.Annotator,
		NewPersister: func(dir string) cannycam.Persister {
			w := camera.NewWriter(dir)
			w.Logger = logger
			return w
		},
	}
	os.Exit(op.Execute())
}

// initLogger writes the logs on the standard error, keeping the standard output for the frame reports.
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}
