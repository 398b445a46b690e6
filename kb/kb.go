// Package kb implements the append-only knowledge base:
// two indexed collections (assertions and rules) with a first-symbol index
// and, for rules, an additional wildcard bucket for variable-headed
// conclusions.
package kb

import (
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/streamql-lang/streamql/term"
)

// ErrEmptyEntity is constructed (and logged, never returned) when an
// entity's leading element can't be classified for indexing: it still
// lands in the "all" list, so insertion never actually fails on it. The
// kind exists so a future validation layer can distinguish this case from
// a genuine constant- or variable-headed entity.
var ErrEmptyEntity = errors.NewKind("cannot classify entity for indexing")

// wildcardKey is the sentinel bucket holding every rule whose conclusion
// begins with a variable. It is never a valid word/number surface value
// (those come from the lexer's word/number character classes only), so it
// cannot collide with a real first-symbol key.
const wildcardKey = "$"

// store is one append-only, indexed collection of term.Sequence entities.
type store struct {
	all     []term.Sequence
	buckets map[string][]term.Sequence
}

func newStore() store {
	return store{buckets: make(map[string][]term.Sequence)}
}

func (s *store) append(key string, indexable bool, wildcard bool, e term.Sequence) {
	s.all = append(s.all, e)
	switch {
	case indexable:
		s.buckets[key] = append(s.buckets[key], e)
	case wildcard:
		s.buckets[wildcardKey] = append(s.buckets[wildcardKey], e)
	}
}

// KB is the interpreter's single knowledge base: an append-only store of
// assertions and rules, grown for the lifetime of the interpreter. It is
// safe to read concurrently with writes only insofar as Go's memory model
// requires external synchronization: insertion and query evaluation never
// interleave within one
// goroutine, and this type does no locking of its own.
type KB struct {
	assertions store
	rules      store
	log        logrus.FieldLogger
}

// New returns an empty knowledge base.
func New(log logrus.FieldLogger) *KB {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &KB{
		assertions: newStore(),
		rules:      newStore(),
		log:        log.WithField("component", "kb"),
	}
}

// headKey classifies an entity's (or conclusion's) leading element for
// indexing purposes: a constant symbol keys the entity
// under its value; a variable makes it wildcard-eligible; anything else
// (including an empty sequence, or a leading nested sequence) leaves it
// in the "all" list only.
func headKey(pattern term.Sequence) (key string, indexable, isVar bool) {
	if len(pattern) == 0 {
		return "", false, false
	}
	head := pattern[0]
	if term.IsConstantSymbol(head) {
		return head.(term.Atom).Value, true, false
	}
	if term.IsVar(head) {
		return "", false, true
	}
	return "", false, false
}

// InsertAssertion appends an assertion to the knowledge base, indexing it
// by its own leading element.
func (k *KB) InsertAssertion(a term.Sequence) {
	key, indexable, isVar := headKey(a)
	if !indexable && !isVar {
		k.log.WithError(ErrEmptyEntity.New()).Debug("assertion has no indexable head")
	}
	k.assertions.append(key, indexable, false, a)
	k.log.WithField("key", key).Debug("inserted assertion")
}

// InsertRule appends a rule to the knowledge base, indexing it by its
// conclusion's leading element. A variable-headed conclusion additionally
// lands in the wildcard bucket, since it must be considered
// for every indexed query regardless of the query's own leading symbol.
func (k *KB) InsertRule(r term.Sequence) {
	conclusion := Conclusion(r)
	key, indexable, isVar := headKey(conclusion)
	if !indexable && !isVar {
		k.log.WithError(ErrEmptyEntity.New()).Debug("rule conclusion has no indexable head")
	}
	k.rules.append(key, indexable, isVar, r)
	k.log.WithField("key", key).Debug("inserted rule")
}

// Conclusion returns a rule's conclusion sequence.
func Conclusion(rule term.Sequence) term.Sequence {
	if len(rule) < 2 {
		return term.Sequence{}
	}
	seq, _ := rule[1].(term.Sequence)
	return seq
}

// Body returns a rule's body query, and whether the rule has one.
// Absence of a body means the conclusion is unconditionally true.
func Body(rule term.Sequence) (term.Term, bool) {
	if len(rule) < 3 {
		return nil, false
	}
	return rule[2], true
}

// useIndex reports whether pattern's leading element is a constant symbol,
// the sole criterion for using the index on
// retrieval; a leading variable, dot marker, nested sequence, or an empty
// pattern all fall through to the unindexed "all" scan.
func useIndex(pattern term.Term) bool {
	seq, ok := pattern.(term.Sequence)
	if !ok || len(seq) == 0 {
		return false
	}
	return term.IsConstantSymbol(seq[0])
}

func indexKeyOf(pattern term.Term) string {
	return pattern.(term.Sequence)[0].(term.Atom).Value
}

// IndexKey returns pattern's first-symbol index key and whether pattern has
// one, for callers (e.g. the evaluator's tracing) that want to tag a query
// by the same key FetchAssertions/FetchRules would use.
func IndexKey(pattern term.Term) (string, bool) {
	if !useIndex(pattern) {
		return "", false
	}
	return indexKeyOf(pattern), true
}

// FetchAssertions returns the assertions that could possibly match pattern:
// the bucket for pattern's leading constant symbol if it has one, else the
// full insertion-ordered list.
func (k *KB) FetchAssertions(pattern term.Term) []term.Sequence {
	if useIndex(pattern) {
		return k.assertions.buckets[indexKeyOf(pattern)]
	}
	return k.assertions.all
}

// FetchRules returns the rules that could possibly apply to pattern: the
// bucket for pattern's leading constant symbol concatenated with the
// wildcard bucket (in that order) if pattern has a constant head, else the
// full insertion-ordered list.
func (k *KB) FetchRules(pattern term.Term) []term.Sequence {
	if useIndex(pattern) {
		key := indexKeyOf(pattern)
		out := make([]term.Sequence, 0, len(k.rules.buckets[key])+len(k.rules.buckets[wildcardKey]))
		out = append(out, k.rules.buckets[key]...)
		out = append(out, k.rules.buckets[wildcardKey]...)
		return out
	}
	return k.rules.all
}

// AllAssertions returns every assertion ever inserted, in insertion order.
func (k *KB) AllAssertions() []term.Sequence { return k.assertions.all }

// AllRules returns every rule ever inserted, in insertion order.
func (k *KB) AllRules() []term.Sequence { return k.rules.all }
