package engine

import "github.com/streamql-lang/streamql/term"

// Match implements the one-directional pattern matcher: it
// tests whether data is consistent with pattern under frame, extending
// frame with any new bindings pattern's variables require. Only pattern's
// variables may be bound; data's variables (if any — assertions are
// typically ground) are never touched. A nil frame denotes prior failure
// and propagates unchanged.
func Match(pattern, data term.Term, frame Frame) Frame {
	if frame == nil {
		return nil
	}
	if term.Equal(pattern, data) {
		return frame
	}
	if term.IsVar(pattern) {
		return extendMatch(pattern.(term.Atom).Value, data, frame)
	}
	if term.IsNonEmptySequence(pattern) {
		pseq := pattern.(term.Sequence)
		if term.IsDot(pseq[0]) {
			dseq, ok := data.(term.Sequence)
			if !ok {
				return nil
			}
			return Match(pseq[1], dseq, frame)
		}
		dseq, ok := data.(term.Sequence)
		if ok && len(dseq) > 0 {
			return Match(pseq[1:], dseq[1:], Match(pseq[0], dseq[0], frame))
		}
	}
	return nil
}

func extendMatch(v string, data term.Term, frame Frame) Frame {
	if binding, ok := frame[v]; ok {
		return Match(binding, data, frame)
	}
	frame[v] = data
	return frame
}
