package engine

import "github.com/streamql-lang/streamql/term"

// Unify implements the two-directional term unifier,
// used to unify a query against a renamed rule conclusion. Either side may
// introduce bindings. A nil frame denotes prior failure and propagates
// unchanged; termination on cyclic bindings is ensured by the occurs check
// in extendUnify.
func Unify(t1, t2 term.Term, frame Frame) Frame {
	if frame == nil {
		return nil
	}
	if term.Equal(t1, t2) {
		return frame
	}
	if term.IsVar(t1) {
		return extendUnify(t1.(term.Atom).Value, t2, frame)
	}
	if term.IsVar(t2) {
		return extendUnify(t2.(term.Atom).Value, t1, frame)
	}
	if seq1, ok := t1.(term.Sequence); ok && len(seq1) > 0 && term.IsDot(seq1[0]) {
		seq2, ok2 := t2.(term.Sequence)
		if !ok2 {
			return nil
		}
		return Unify(seq1[1], seq2, frame)
	}
	if seq2, ok := t2.(term.Sequence); ok && len(seq2) > 0 && term.IsDot(seq2[0]) {
		seq1, ok1 := t1.(term.Sequence)
		if !ok1 {
			return nil
		}
		return Unify(seq1, seq2[1], frame)
	}
	seq1, ok1 := t1.(term.Sequence)
	seq2, ok2 := t2.(term.Sequence)
	if ok1 && ok2 && len(seq1) > 0 && len(seq2) > 0 {
		return Unify(seq1[1:], seq2[1:], Unify(seq1[0], seq2[0], frame))
	}
	return nil
}

// extendUnify implements the five-step variable extension: already bound,
// aliased-to-bound-variable, aliased-to-free-variable, occurs check, bind.
func extendUnify(v string, data term.Term, frame Frame) Frame {
	if binding, ok := frame[v]; ok {
		return Unify(binding, data, frame)
	}
	if term.IsVar(data) {
		dv := data.(term.Atom).Value
		if binding, ok := frame[dv]; ok {
			return Unify(term.NewVar(v), binding, frame)
		}
		frame[v] = data
		return frame
	}
	if DependsOn(data, v, frame) {
		return nil
	}
	frame[v] = data
	return frame
}

// DependsOn is the occurs check: it reports whether
// v appears anywhere inside t, following any variable bindings already
// recorded in frame.
func DependsOn(t term.Term, v string, frame Frame) bool {
	switch tv := t.(type) {
	case term.Atom:
		if tv.Domain != term.Var {
			return false
		}
		if tv.Value == v {
			return true
		}
		if binding, ok := frame[tv.Value]; ok {
			return DependsOn(binding, v, frame)
		}
		return false
	case term.Sequence:
		for _, e := range tv {
			if DependsOn(e, v, frame) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
