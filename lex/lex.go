package lex

import (
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrUnexpectedChar is logged when a byte matches none of the token
// alternatives; the lexer skips it and resumes scanning. Next never returns
// it; every occurrence is accumulated and reported by Errors.
var ErrUnexpectedChar = errors.NewKind("unexpected character at (%d, %d)")

const (
	groupKeyword  = "keyword"
	groupVariable = "variable"
	groupWord     = "word"
	groupNumber   = "number"
	groupNewline  = "newline"
	groupSpace    = "space"
)

const (
	keywordPattern  = `\(|\)|@new|@rule|@apply|@and|@or|@not|<|>|\.`
	variablePattern = `\$[a-zA-Z]+[0-9]*`
	wordPattern     = `[a-zA-Z]+[0-9]*`
	numberPattern   = `[0-9]+`
	newlinePattern  = `\r?\n`
	spacePattern    = `[ \f\r\t\v]+`
)

var pattern = regexp.MustCompile(
	"^(?:" +
		"(?P<" + groupKeyword + ">" + keywordPattern + ")|" +
		"(?P<" + groupVariable + ">" + variablePattern + ")|" +
		"(?P<" + groupWord + ">" + wordPattern + ")|" +
		"(?P<" + groupNumber + ">" + numberPattern + ")|" +
		"(?P<" + groupNewline + ">" + newlinePattern + ")|" +
		"(?P<" + groupSpace + ">" + spacePattern + ")" +
		")",
)

// Lexer scans StreamQL source text into a stream of Tokens, recovering from
// unexpected characters by skipping one byte and continuing rather than
// aborting the scan.
type Lexer struct {
	program  string
	position int
	// lineStart is the byte offset of the first column of the current line.
	lineStart int
	line      int
	log       logrus.FieldLogger
	errs      *multierror.Error
}

// New returns a Lexer over program. log may be nil, in which case a
// standard logrus logger is used.
func New(program string, log logrus.FieldLogger) *Lexer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Lexer{
		program: program,
		line:    1,
		log:     log.WithField("component", "lex"),
	}
}

func (l *Lexer) column() int {
	return l.position - l.lineStart + 1
}

// Next returns the next token in the stream. At end of input it returns an
// EOF token repeatedly.
func (l *Lexer) Next() Token {
	for {
		if l.position >= len(l.program) {
			return Token{Domain: EOF, Coords: Coords{l.line, l.column()}, Value: ""}
		}

		match := pattern.FindStringSubmatchIndex(l.program[l.position:])
		if match == nil {
			err := ErrUnexpectedChar.New(l.line, l.column())
			l.log.WithError(err).Warn("skipping character")
			l.errs = multierror.Append(l.errs, err)
			l.position++
			continue
		}

		names := pattern.SubexpNames()
		groupStart := func(name string) (int, int, bool) {
			for i, n := range names {
				if n != name {
					continue
				}
				s, e := match[2*i], match[2*i+1]
				if s < 0 {
					return 0, 0, false
				}
				return s, e, true
			}
			return 0, 0, false
		}

		if _, e, ok := groupStart(groupNewline); ok {
			l.position += e
			l.lineStart = l.position
			l.line++
			continue
		}
		if s, e, ok := groupStart(groupVariable); ok {
			return l.emit(VarDomain, s, e)
		}
		if s, e, ok := groupStart(groupWord); ok {
			return l.emit(WordDomain, s, e)
		}
		if s, e, ok := groupStart(groupNumber); ok {
			return l.emit(NumDomain, s, e)
		}
		if s, e, ok := groupStart(groupKeyword); ok {
			return l.emit(l.program[l.position+s:l.position+e], s, e)
		}
		if _, e, ok := groupStart(groupSpace); ok {
			l.position += e
			continue
		}

		// Unreachable: the alternation always matches one of the groups
		// above when match != nil.
		l.position++
	}
}

// Errors returns every unexpected-character diagnostic accumulated so far,
// combined into a single error, or nil if scanning hit none.
func (l *Lexer) Errors() error {
	return l.errs.ErrorOrNil()
}

func (l *Lexer) emit(domain string, start, end int) Token {
	col := l.column()
	value := l.program[l.position+start : l.position+end]
	l.position += end
	return Token{Domain: domain, Coords: Coords{l.line, col}, Value: value}
}
