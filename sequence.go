package cannycam

import "fmt"

// Edge map file naming.
const (
	EdgeFilePrefix = "frame"
	EdgeFileExt    = ".pgm"
)

// FrameSequence hands out the names of the persisted edge maps.
// The sequence starts at 0, only grows and is never reset. The number is
// zero-padded to three digits; past 999 the field widens, so names stay unique.
type FrameSequence struct {
	next int
}

// Next returns the file name for the next edge map and advances the sequence.
func (s *FrameSequence) Next() string {
	name := fmt.Sprintf("%s%03d%s", EdgeFilePrefix, s.next, EdgeFileExt)
	s.next++
	return name
}

// Issued returns how many names were handed out so far.
func (s *FrameSequence) Issued() int { return s.next }
