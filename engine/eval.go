package engine

import (
	"github.com/opentracing/opentracing-go"

	"github.com/streamql-lang/streamql/kb"
	"github.com/streamql-lang/streamql/term"
)

// Tracer is the opentracing.Tracer Eval starts its per-dispatch spans
// against. When nil (the default), the global tracer is looked up at each
// dispatch, so every span is a no-op until a front end installs a real one
// with opentracing.SetGlobalTracer.
var Tracer opentracing.Tracer

// startDispatchSpan starts a span named streamql.eval.<connective>, tagged
// with the connective and (when query has one) its first-symbol index key —
// the same key FetchAssertions/FetchRules would use to look it up.
func startDispatchSpan(connective string, query term.Term) opentracing.Span {
	tracer := Tracer
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}
	span := tracer.StartSpan("streamql.eval." + connective)
	span.SetTag("connective", connective)
	if key, indexed := kb.IndexKey(query); indexed {
		span.SetTag("index_key", key)
	}
	return span
}

// Eval evaluates query against each frame in frames, returning the
// concatenation of every resulting frame. It dispatches on query's leading
// atom's domain: and/or/not compose sub-evaluations, @apply invokes a
// built-in primitive, and anything else is a simple query resolved against
// kb's assertions and rules. Every dispatch starts and finishes its own span.
func Eval(query term.Term, frames []Frame, k *kb.KB) []Frame {
	seq, ok := query.(term.Sequence)
	if !ok || len(seq) == 0 {
		return evalSimpleQuery(query, frames, k)
	}
	head, ok := seq[0].(term.Atom)
	if !ok {
		return evalSimpleQuery(query, frames, k)
	}
	switch head.Domain {
	case term.And:
		span := startDispatchSpan("and", query)
		defer span.Finish()
		return evalAnd(seq[1:], frames, k)
	case term.Or:
		span := startDispatchSpan("or", query)
		defer span.Finish()
		return evalOr(seq[1:], frames, k)
	case term.Not:
		span := startDispatchSpan("not", query)
		defer span.Finish()
		return evalNot(seq[1], frames, k)
	case term.Apply:
		span := startDispatchSpan("apply", query)
		defer span.Finish()
		return evalApply(seq, frames)
	default:
		return evalSimpleQuery(query, frames, k)
	}
}

// evalAnd threads frames through each conjunct in turn: the output of one
// conjunct becomes the input to the next, so later conjuncts see every
// binding established by earlier ones. An empty frame set short-circuits
// the remaining conjuncts.
func evalAnd(conjuncts term.Sequence, frames []Frame, k *kb.KB) []Frame {
	for _, c := range conjuncts {
		if len(frames) == 0 {
			return frames
		}
		frames = Eval(c, frames, k)
	}
	return frames
}

// evalOr evaluates every disjunct against its own copy of the input frames
// and concatenates the results in source order, so one disjunct's bindings
// never leak into another's attempt.
func evalOr(disjuncts term.Sequence, frames []Frame, k *kb.KB) []Frame {
	var out []Frame
	for _, d := range disjuncts {
		out = append(out, Eval(d, CopyFrames(frames), k)...)
	}
	return out
}

// evalNot implements negation as failure: for each input frame independently,
// the negated query is evaluated against that one frame in isolation; the
// original, unmodified frame survives exactly when the negated query yields
// no solutions.
func evalNot(inner term.Term, frames []Frame, k *kb.KB) []Frame {
	var out []Frame
	for _, f := range frames {
		if len(Eval(inner, []Frame{f.Copy()}, k)) == 0 {
			out = append(out, f)
		}
	}
	return out
}

// evalApply resolves an @apply connective's arguments under each frame and
// keeps only the frames for which the named primitive reports true.
func evalApply(seq term.Sequence, frames []Frame) []Frame {
	name := seq[1].(term.Atom).Value
	args := make([]term.Atom, len(seq)-2)
	for i, a := range seq[2:] {
		args[i] = a.(term.Atom)
	}
	var out []Frame
	for _, f := range frames {
		if ApplyPredicate(name, args, f) {
			out = append(out, f)
		}
	}
	return out
}

// evalSimpleQuery resolves pattern against every input frame independently,
// returning the union of every assertion match and every rule application
// that succeeds. Each attempt works against its own copy of the input frame,
// so a failed or partial attempt never pollutes a sibling attempt.
func evalSimpleQuery(pattern term.Term, frames []Frame, k *kb.KB) []Frame {
	span := startDispatchSpan("simple", pattern)
	defer span.Finish()
	var out []Frame
	for _, f := range frames {
		for _, a := range k.FetchAssertions(pattern) {
			if m := Match(pattern, a, f.Copy()); m != nil {
				out = append(out, m)
			}
		}
		for _, r := range k.FetchRules(pattern) {
			out = append(out, applyRule(pattern, r, f, k)...)
		}
	}
	return out
}

// applyRule renames r's variables fresh, unifies pattern against the
// renamed conclusion, and — if the rule has a body — evaluates that body
// against the resulting frame. A rule with no body is unconditionally true
// once its conclusion unifies.
func applyRule(pattern term.Term, r term.Sequence, frame Frame, k *kb.KB) []Frame {
	renamed := RenameVariables(r)
	conclusion := kb.Conclusion(renamed)
	unified := Unify(pattern, conclusion, frame.Copy())
	if unified == nil {
		return nil
	}
	body, hasBody := kb.Body(renamed)
	if !hasBody {
		return []Frame{unified}
	}
	return Eval(body, []Frame{unified}, k)
}
