package engine

import (
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/streamql-lang/streamql/term"
)

// hygieneDelimiter separates a variable's user-visible name from its
// per-application identifier. It uses characters ($ aside, which already
// can't appear mid-name) outside the lexer's variable character class
// (letters and digits only after the leading $), so instantiation can
// safely strip everything from the first occurrence onward.
const hygieneDelimiter = "__"

// RenameVariables returns a copy of rule with every variable occurrence
// rewritten to a fresh, per-application name. The same generated
// identifier is reused for every occurrence within this one call so
// intra-rule variable identity is preserved; a fresh identifier is
// generated on each call so recursive rule applications never collide.
func RenameVariables(rule term.Sequence) term.Sequence {
	id := uuid.NewV4().String()
	return renameTerm(rule, id).(term.Sequence)
}

func renameTerm(t term.Term, id string) term.Term {
	switch v := t.(type) {
	case term.Atom:
		if v.Domain == term.Var {
			return MakeIDVariable(v.Value, id)
		}
		return v
	case term.Sequence:
		out := make(term.Sequence, len(v))
		for i, e := range v {
			out[i] = renameTerm(e, id)
		}
		return out
	default:
		return t
	}
}

// MakeIDVariable builds the hygienic variable atom for surface name name
// under per-application identifier id.
func MakeIDVariable(name, id string) term.Atom {
	return term.NewVar(name + hygieneDelimiter + id)
}

// StripHygieneSuffix recovers a variable's user-visible name by dropping
// everything from the first hygiene delimiter onward. A name with no
// delimiter (never renamed) is returned unchanged.
func StripHygieneSuffix(name string) string {
	if idx := strings.Index(name, hygieneDelimiter); idx >= 0 {
		return name[:idx]
	}
	return name
}
