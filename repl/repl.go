// Package repl implements the interactive front end: a read-eval-print
// loop over an interp.Interpreter, configured from a TOML file.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/streamql-lang/streamql/interp"
)

const (
	helpCommand = "help"
	runCommand  = "run"
)

// REPL reads commands from in, prints results and errors to out, and runs
// each against a single interp.Interpreter backed by one knowledge base for
// the REPL's whole lifetime.
type REPL struct {
	cfg    Config
	interp *interp.Interpreter
	in     *bufio.Scanner
	out    io.Writer
	log    logrus.FieldLogger
}

// New returns a REPL reading from in and writing to out, configured by cfg.
func New(cfg Config, in io.Reader, out io.Writer, log logrus.FieldLogger) *REPL {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "repl")
	r := &REPL{cfg: cfg, in: bufio.NewScanner(in), out: out, log: log}
	r.interp = interp.New(func(s string) { fmt.Fprintln(out, s) }, log)
	return r
}

// Loop reads one line at a time until in is exhausted, dispatching each to
// handleLine and printing (never propagating) whatever error results —
// mirroring the original "catch, print, keep going" front end.
func (r *REPL) Loop() {
	for {
		fmt.Fprintf(r.out, "Input (type '%s' to show help): ", helpCommand)
		if !r.in.Scan() {
			return
		}
		if err := r.handleLine(r.in.Text()); err != nil {
			fmt.Fprintln(r.out, err)
		}
		fmt.Fprintln(r.out)
	}
}

// handleLine dispatches one line of input: the literal "help" and "run"
// commands, or else a path to a source file to execute.
func (r *REPL) handleLine(line string) error {
	switch line {
	case helpCommand:
		r.showHelp()
		return nil
	case runCommand:
		return r.RunFile(r.cfg.StreamQL.MainSrc)
	default:
		return r.RunFile(line)
	}
}

func (r *REPL) showHelp() {
	fmt.Fprintf(r.out, "'%s' -- execute code from source file by default (set in config)\n", runCommand)
	fmt.Fprintf(r.out, "'%s' -- show help\n", helpCommand)
	fmt.Fprintln(r.out, "any other string is interpreted as the path to the source file")
}

// RunFile reads path and runs its entire contents as a single command.
func (r *REPL) RunFile(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read source file %s", path)
	}
	return r.interp.Run(string(contents))
}
