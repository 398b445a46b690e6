// Package interp ties together parsing, the knowledge base, query
// evaluation and rendering into the single entry point a front end (REPL
// or otherwise) drives: one command in, zero or more rendered results out.
package interp

import (
	"github.com/mitchellh/hashstructure"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamql-lang/streamql/engine"
	"github.com/streamql-lang/streamql/kb"
	"github.com/streamql-lang/streamql/parse"
	"github.com/streamql-lang/streamql/render"
	"github.com/streamql-lang/streamql/term"
)

// Sink receives one rendered result per call, in the order the evaluator
// produced it.
type Sink func(string)

// Interpreter owns a single knowledge base and drives one command at a
// time against it: inserts grow the base, queries are evaluated and every
// resulting frame is instantiated and handed to the sink.
type Interpreter struct {
	kb    *kb.KB
	sink  Sink
	log   logrus.FieldLogger
	trace opentracing.Tracer
}

// New returns an Interpreter with an empty knowledge base. log may be nil,
// in which case a standard logrus logger is used.
func New(sink Sink, log logrus.FieldLogger) *Interpreter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "interp")
	return &Interpreter{
		kb:    kb.New(log),
		sink:  sink,
		log:   log,
		trace: opentracing.GlobalTracer(),
	}
}

// Run parses command and either grows the knowledge base (an insert) or
// evaluates a query and sinks one rendered string per solution frame, in
// evaluation order.
func (i *Interpreter) Run(command string) error {
	queryID, err := hashstructure.Hash(command, nil)
	if err != nil {
		queryID = 0
	}
	log := i.log.WithField("query_id", queryID)

	span := i.trace.StartSpan("interp.Run")
	defer span.Finish()
	span.SetTag("query_id", queryID)

	ast, err := parse.Parse(command, log)
	if err != nil {
		return errors.Wrap(err, "parse command")
	}

	if isInsert(ast) {
		i.insert(ast.(term.Sequence), log)
		return nil
	}

	frames := engine.Eval(ast, []engine.Frame{engine.NewFrame()}, i.kb)
	log.WithField("solutions", len(frames)).Debug("query evaluated")
	for _, f := range frames {
		i.sink(render.Instantiate(ast, f))
	}
	return nil
}

func isInsert(ast term.Term) bool {
	seq, ok := ast.(term.Sequence)
	if !ok || len(seq) == 0 {
		return false
	}
	head, ok := seq[0].(term.Atom)
	return ok && head.Domain == term.New
}

// insert classifies and stores the single entity an `@new` command carries.
func (i *Interpreter) insert(ast term.Sequence, log logrus.FieldLogger) {
	entity, ok := ast[1].(term.Sequence)
	if !ok {
		log.Warn("insert entity is not a sequence, ignoring")
		return
	}
	if isRule(entity) {
		i.kb.InsertRule(entity)
		return
	}
	i.kb.InsertAssertion(entity)
}

func isRule(entity term.Sequence) bool {
	if len(entity) == 0 {
		return false
	}
	head, ok := entity[0].(term.Atom)
	return ok && head.Domain == term.RuleKeyword
}
