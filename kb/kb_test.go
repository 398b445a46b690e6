package kb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamql-lang/streamql/term"
)

func seq(elems ...term.Term) term.Sequence { return term.Sequence(elems) }

func TestInsertAssertionIndexesByHead(t *testing.T) {
	require := require.New(t)

	k := New(nil)
	a1 := seq(term.NewWord("hello"), term.NewWord("world"))
	a2 := seq(term.NewWord("hello"), term.NewWord("there"))
	a3 := seq(term.NewWord("boss"), term.NewWord("mike"))
	k.InsertAssertion(a1)
	k.InsertAssertion(a2)
	k.InsertAssertion(a3)

	require.Equal([]term.Sequence{a1, a2, a3}, k.AllAssertions())

	helloPattern := seq(term.NewWord("hello"), term.NewVar("x"))
	require.Equal([]term.Sequence{a1, a2}, k.FetchAssertions(helloPattern))

	varPattern := seq(term.NewVar("x"), term.NewVar("y"))
	require.Equal([]term.Sequence{a1, a2, a3}, k.FetchAssertions(varPattern))
}

func TestInsertRuleWildcardBucket(t *testing.T) {
	require := require.New(t)

	k := New(nil)
	// (@rule (append () $y $y))
	r1 := seq(term.NewAtom(term.RuleKeyword, "@rule"),
		seq(term.NewWord("append"), term.Sequence{}, term.NewVar("y"), term.NewVar("y")))
	// (@rule ($anything foo)) with a variable-headed conclusion
	r2 := seq(term.NewAtom(term.RuleKeyword, "@rule"),
		seq(term.NewVar("anything"), term.NewWord("foo")))
	k.InsertRule(r1)
	k.InsertRule(r2)

	require.Equal([]term.Sequence{r1, r2}, k.AllRules())

	appendPattern := seq(term.NewWord("append"), term.NewVar("x"), term.NewVar("y"), term.NewVar("z"))
	// keyed bucket ("append") first, then the wildcard bucket, per spec.
	require.Equal([]term.Sequence{r1, r2}, k.FetchRules(appendPattern))

	otherPattern := seq(term.NewWord("boss"), term.NewVar("x"))
	require.Equal([]term.Sequence{r2}, k.FetchRules(otherPattern))
}

func TestConclusionAndBody(t *testing.T) {
	require := require.New(t)

	withBody := seq(term.NewAtom(term.RuleKeyword, "@rule"),
		seq(term.NewWord("f"), term.NewVar("x")),
		seq(term.NewWord("g"), term.NewVar("x")))
	body, ok := Body(withBody)
	require.True(ok)
	require.Equal(seq(term.NewWord("g"), term.NewVar("x")), body)
	require.Equal(seq(term.NewWord("f"), term.NewVar("x")), Conclusion(withBody))

	withoutBody := seq(term.NewAtom(term.RuleKeyword, "@rule"), seq(term.NewWord("f"), term.NewVar("x")))
	_, ok = Body(withoutBody)
	require.False(ok)
}

func TestNonIndexableEntityLandsInAllOnly(t *testing.T) {
	require := require.New(t)

	k := New(nil)
	nested := seq(seq(term.NewWord("a")), term.NewWord("b"))
	k.InsertAssertion(nested)

	require.Equal([]term.Sequence{nested}, k.AllAssertions())
	require.Equal([]term.Sequence{nested}, k.FetchAssertions(seq(term.NewVar("x"))))
}
