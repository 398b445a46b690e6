// Package render implements the instantiator and printer:
// substituting a frame's bindings into a term and rendering the result as a
// fully parenthesized string.
package render

import (
	"strings"

	"github.com/streamql-lang/streamql/engine"
	"github.com/streamql-lang/streamql/term"
)

// Instantiate substitutes frame's bindings into t and renders the result,
// substituting first and rendering second.
func Instantiate(t term.Term, frame engine.Frame) string {
	return Render(substitute(t, frame))
}

// substitute recursively replaces each variable in t with its binding
// under frame (recursively, so chains of aliasing resolve all the way to
// their ground value), stripping the hygiene suffix from any variable that
// remains free. A sequence headed by the dot marker is replaced by the term
// bound to its post-dot element, and a dot inside a sequence splices the
// list bound to the post-dot element into that sequence's tail, reversing
// the tail-capture the matcher performs. A post-dot variable that stays
// free (or is bound to an atom) is kept in dotted form.
func substitute(t term.Term, frame engine.Frame) term.Term {
	switch v := t.(type) {
	case term.Atom:
		if v.Domain != term.Var {
			return v
		}
		if binding, ok := frame[v.Value]; ok {
			return substitute(binding, frame)
		}
		return term.NewVar(engine.StripHygieneSuffix(v.Value))
	case term.Sequence:
		if len(v) > 0 && term.IsDot(v[0]) {
			return substitute(v[1], frame)
		}
		out := make(term.Sequence, 0, len(v))
		for i, e := range v {
			if term.IsDot(e) && i+1 < len(v) {
				tail := substitute(v[i+1], frame)
				if ts, ok := tail.(term.Sequence); ok {
					return append(out, ts...)
				}
				return append(out, term.DotAtom, tail)
			}
			out = append(out, substitute(e, frame))
		}
		return out
	default:
		return t
	}
}

// Render renders a ground (already-substituted) term as a fully
// parenthesized string: `(tok0 tok1 ... tokN)` where each tokI is an
// atom's raw value or a nested parenthesized form.
func Render(t term.Term) string {
	switch v := t.(type) {
	case term.Atom:
		return v.Value
	case term.Sequence:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = Render(e)
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return ""
	}
}
