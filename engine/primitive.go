package engine

import (
	"github.com/spf13/cast"

	"github.com/streamql-lang/streamql/term"
)

// Primitive is a built-in comparator predicate over fully-resolved,
// ground argument values.
type Primitive func(args []string) bool

// primitives is the fixed set of binary comparators the language allows:
// no user-defined primitives at runtime.
var primitives = map[string]Primitive{
	"<": func(args []string) bool { return less(args[0], args[1]) },
	">": func(args []string) bool { return less(args[1], args[0]) },
}

// less compares a and b numerically when both coerce to integers
// (numeric strings are coerced to integers), and falls back
// to a lexicographic string comparison otherwise so a mixed-type
// comparison degrades gracefully instead of panicking.
func less(a, b string) bool {
	ai, aerr := cast.ToIntE(a)
	bi, berr := cast.ToIntE(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// resolveArg resolves an apply argument to its ground string value by
// walking the frame's alias chain: a word/number atom
// resolves to its own surface value; a variable resolves through however
// many aliasing hops the frame records, failing if it is ever unbound or
// ever bound to a non-atomic (sequence) term.
func resolveArg(a term.Atom, frame Frame) (string, bool) {
	if a.Domain != term.Var {
		return a.Value, true
	}
	binding, ok := frame[a.Value]
	if !ok {
		return "", false
	}
	if atom, ok := binding.(term.Atom); ok {
		if atom.Domain == term.Var {
			return resolveArg(atom, frame)
		}
		return atom.Value, true
	}
	return "", false
}

// ApplyPredicate resolves args under frame and invokes the named primitive
// predicate. It reports false — a per-frame failure,
// never an error — when the predicate is unknown or any argument fails to
// resolve to a ground atom.
func ApplyPredicate(name string, args []term.Atom, frame Frame) bool {
	prim, ok := primitives[name]
	if !ok {
		return false
	}
	resolved := make([]string, len(args))
	for i, a := range args {
		v, ok := resolveArg(a, frame)
		if !ok {
			return false
		}
		resolved[i] = v
	}
	return prim(resolved)
}
