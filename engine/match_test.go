package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamql-lang/streamql/term"
)

func seq(elems ...term.Term) term.Sequence { return term.Sequence(elems) }

func TestMatchGroundEquality(t *testing.T) {
	require := require.New(t)
	f := Match(term.NewWord("hello"), term.NewWord("hello"), NewFrame())
	require.NotNil(f)
	require.Empty(f)

	require.Nil(Match(term.NewWord("hello"), term.NewWord("world"), NewFrame()))
}

func TestMatchBindsPatternVariable(t *testing.T) {
	require := require.New(t)
	f := Match(term.NewVar("x"), term.NewWord("world"), NewFrame())
	require.Equal(Frame{"x": term.NewWord("world")}, f)
}

func TestMatchRepeatedVariableMustAgree(t *testing.T) {
	require := require.New(t)
	// (boss $x $x) vs (boss Jack Jack) -> succeeds
	pattern := seq(term.NewWord("boss"), term.NewVar("x"), term.NewVar("x"))
	data := seq(term.NewWord("boss"), term.NewWord("jack"), term.NewWord("jack"))
	f := Match(pattern, data, NewFrame())
	require.Equal(Frame{"x": term.NewWord("jack")}, f)

	// (boss $x $x) vs (boss Mike Jack) -> fails
	data2 := seq(term.NewWord("boss"), term.NewWord("mike"), term.NewWord("jack"))
	require.Nil(Match(pattern, data2, NewFrame()))
}

func TestMatchDotTailCapture(t *testing.T) {
	require := require.New(t)
	// (developer . $type) vs (developer frontend backend)
	pattern := seq(term.NewWord("developer"), term.DotAtom, term.NewVar("type"))
	data := seq(term.NewWord("developer"), term.NewWord("frontend"), term.NewWord("backend"))
	f := Match(pattern, data, NewFrame())
	require.Equal(Frame{"type": seq(term.NewWord("frontend"), term.NewWord("backend"))}, f)
}

func TestMatchNeverBindsDataVariables(t *testing.T) {
	require := require.New(t)
	// pattern is ground, data contains a variable: no structural equality,
	// and pattern isn't itself a variable, so this fails rather than
	// binding anything in data.
	pattern := term.NewWord("hello")
	data := term.NewVar("x")
	require.Nil(Match(pattern, data, NewFrame()))
}

func TestMatchPropagatesFailure(t *testing.T) {
	require := require.New(t)
	require.Nil(Match(term.NewWord("a"), term.NewWord("a"), nil))
}
