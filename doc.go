/*
Package cannycam is a real-time edge detection loop. It pulls frames from a camera
(or any other frame source), converts them to grayscale, runs a Canny edge detector
over them, writes every edge map to a numbered PGM file and reports throughput and
stage latencies measured on two clocks: the process CPU clock and the wall clock.

The package provides a command line interface. To check the supported flags type:

	$ cannycam --help

In case you wish to drive the loop from your own program, here is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/esimov/cannycam"
		"github.com/esimov/cannycam/canny"
	)

	func main() {
		src, err := cannycam.NewDirSource("frames", cannycam.CaptureWidth, cannycam.CaptureHeight)
		if err != nil {
			fmt.Printf("Error opening the frame source: %s", err.Error())
			return
		}
		p := cannycam.NewPipeline(cannycam.DetectionParameters{Sigma: 1, TLow: 0.3, THigh: 0.8},
			src, canny.NewDetector(), cannycam.NewPGMWriter("out"))

		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running the pipeline: %s", err.Error())
			os.Exit(1)
		}
	}
*/
package cannycam
