package engine

import "github.com/streamql-lang/streamql/term"

// Frame is a partial assignment from variable name to term. A
// nil Frame represents failure, mirroring the Python reference's use of
// None; every matcher/unifier function below takes this convention.
type Frame map[string]term.Term

// NewFrame returns a fresh, empty frame.
func NewFrame() Frame { return Frame{} }

// Copy returns a shallow copy of f. Frames must be copied before being
// handed to a sibling disjunct or a sibling assertion/rule attempt so that a
// failed attempt leaves no residue on its sibling.
func (f Frame) Copy() Frame {
	cp := make(Frame, len(f))
	for k, v := range f {
		cp[k] = v
	}
	return cp
}

// CopyFrames deep-copies a slice of frames, one fresh map per frame.
func CopyFrames(frames []Frame) []Frame {
	out := make([]Frame, len(frames))
	for i, f := range frames {
		out[i] = f.Copy()
	}
	return out
}
