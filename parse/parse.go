// Package parse implements a hand-written recursive-descent parser over a
// lex.Lexer token stream, producing the term model (package term) consumed
// by the knowledge base and query evaluator.
package parse

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/streamql-lang/streamql/lex"
	"github.com/streamql-lang/streamql/term"
)

// ErrUnexpectedToken is raised when the current token's domain is not one
// of the domains the grammar production expects at that point. It carries
// (line, column) and the expected/actual token text.
var ErrUnexpectedToken = errors.NewKind("(%d, %d): expected %s, got %q")

// Parser is a hand-written recursive-descent parser over a lex.Lexer.
type Parser struct {
	lexer   *lex.Lexer
	current lex.Token
	log     logrus.FieldLogger
}

// New returns a Parser positioned at the first token of program.
func New(program string, log logrus.FieldLogger) *Parser {
	if log == nil {
		log = logrus.StandardLogger()
	}
	l := lex.New(program, log)
	p := &Parser{lexer: l, log: log.WithField("component", "parse")}
	p.current = l.Next()
	return p
}

// Parse parses a single top-level command from program and returns its term.
// If parsing fails, the returned error combines the parse failure with every
// lex-time diagnostic the scan accumulated along the way, so a caller sees
// every unexpected character alongside the eventual syntax error instead of
// only the first one logged during scanning.
func Parse(program string, log logrus.FieldLogger) (term.Term, error) {
	p := New(program, log)
	ast, err := p.ParseCommand()
	if err == nil {
		return ast, nil
	}
	if lexErrs := p.LexErrors(); lexErrs != nil {
		return nil, multierror.Append(lexErrs, err).ErrorOrNil()
	}
	return nil, err
}

// LexErrors returns every unexpected-character diagnostic the underlying
// lexer has accumulated so far.
func (p *Parser) LexErrors() error {
	return p.lexer.Errors()
}

func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

func (p *Parser) expect(expected ...string) error {
	for _, d := range expected {
		if p.current.Domain == d {
			return nil
		}
	}
	return ErrUnexpectedToken.New(
		p.current.Coords.Line, p.current.Coords.Column,
		strings.Join(expected, ", "), p.current.Value,
	)
}

func (p *Parser) atom() term.Atom {
	return term.NewAtom(p.current.Domain, p.current.Value)
}

// ParseCommand parses `Command ::= '(' (Insert | Query) ')'`.
func (p *Parser) ParseCommand() (term.Term, error) {
	if err := p.expect(lex.LeftParen); err != nil {
		return nil, err
	}
	p.advance()

	var ast term.Term
	var err error
	if p.current.Domain == lex.NewKeyword {
		ast, err = p.parseInsert()
	} else {
		ast, err = p.parseQuery()
	}
	if err != nil {
		return nil, err
	}

	if err := p.expect(lex.RightParen); err != nil {
		return nil, err
	}
	p.advance()
	if err := p.expect(lex.EOF); err != nil {
		return nil, err
	}
	return ast, nil
}

// Insert ::= '@new' Entity
func (p *Parser) parseInsert() (term.Term, error) {
	if err := p.expect(lex.NewKeyword); err != nil {
		return nil, err
	}
	head := p.atom()
	p.advance()
	entity, err := p.parseEntity()
	if err != nil {
		return nil, err
	}
	return term.Sequence{head, entity}, nil
}

// Entity ::= '(' (Rule | Assertion) ')'
func (p *Parser) parseEntity() (term.Term, error) {
	if err := p.expect(lex.LeftParen); err != nil {
		return nil, err
	}
	p.advance()

	var ast term.Term
	var err error
	if p.current.Domain == lex.RuleKW {
		ast, err = p.parseRule()
	} else {
		ast, err = p.parseAssertion()
	}
	if err != nil {
		return nil, err
	}

	if err := p.expect(lex.RightParen); err != nil {
		return nil, err
	}
	p.advance()
	return ast, nil
}

var assertionLeaders = []string{lex.LeftParen, lex.WordDomain, lex.NumDomain}

// Assertion ::= ('(' Assertion ')' | Word | Number)*
func (p *Parser) parseAssertion() (term.Term, error) {
	ast := term.Sequence{}
	for isOneOf(p.current.Domain, assertionLeaders) {
		if p.current.Domain == lex.LeftParen {
			p.advance()
			nested, err := p.parseAssertion()
			if err != nil {
				return nil, err
			}
			if err := p.expect(lex.RightParen); err != nil {
				return nil, err
			}
			ast = append(ast, nested)
		} else {
			ast = append(ast, p.atom())
		}
		p.advance()
	}
	return ast, nil
}

// Rule ::= '@rule' '(' SimpleQuery ')' ('(' Query ')')?
func (p *Parser) parseRule() (term.Term, error) {
	if err := p.expect(lex.RuleKW); err != nil {
		return nil, err
	}
	head := p.atom()
	p.advance()

	if err := p.expect(lex.LeftParen); err != nil {
		return nil, err
	}
	p.advance()
	conclusion, err := p.parseSimpleQuery()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lex.RightParen); err != nil {
		return nil, err
	}
	p.advance()

	ast := term.Sequence{head, conclusion}
	if p.current.Domain == lex.LeftParen {
		p.advance()
		body, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lex.RightParen); err != nil {
			return nil, err
		}
		p.advance()
		ast = append(ast, body)
	}
	return ast, nil
}

// Query ::= SimpleQuery | And | Or | Not
func (p *Parser) parseQuery() (term.Term, error) {
	switch p.current.Domain {
	case lex.AndKW:
		return p.parseAndOr(lex.AndKW, term.And)
	case lex.OrKW:
		return p.parseAndOr(lex.OrKW, term.Or)
	case lex.NotKW:
		return p.parseNot()
	default:
		return p.parseSimpleQuery()
	}
}

// And ::= '@and' InnerQuery+ ; Or ::= '@or' InnerQuery+
func (p *Parser) parseAndOr(keywordDomain, termDomain string) (term.Term, error) {
	if err := p.expect(keywordDomain); err != nil {
		return nil, err
	}
	head := term.NewAtom(termDomain, p.current.Value)
	p.advance()
	inner, err := p.parseInnerQueries()
	if err != nil {
		return nil, err
	}
	return append(term.Sequence{head}, inner...), nil
}

// Not ::= '@not' InnerQuery
func (p *Parser) parseNot() (term.Term, error) {
	if err := p.expect(lex.NotKW); err != nil {
		return nil, err
	}
	head := term.NewAtom(term.Not, p.current.Value)
	p.advance()
	inner, err := p.parseInnerQuery()
	if err != nil {
		return nil, err
	}
	return term.Sequence{head, inner}, nil
}

// InnerQuery ::= '(' (Query | Apply) ')' ; InnerQueries ::= InnerQuery+
func (p *Parser) parseInnerQueries() (term.Sequence, error) {
	if err := p.expect(lex.LeftParen); err != nil {
		return nil, err
	}
	var out term.Sequence
	for p.current.Domain == lex.LeftParen {
		inner, err := p.parseInnerQuery()
		if err != nil {
			return nil, err
		}
		out = append(out, inner)
	}
	return out, nil
}

func (p *Parser) parseInnerQuery() (term.Term, error) {
	if err := p.expect(lex.LeftParen); err != nil {
		return nil, err
	}
	p.advance()

	var ast term.Term
	var err error
	if p.current.Domain == lex.ApplyKW {
		ast, err = p.parseApply()
	} else {
		ast, err = p.parseQuery()
	}
	if err != nil {
		return nil, err
	}

	if err := p.expect(lex.RightParen); err != nil {
		return nil, err
	}
	p.advance()
	return ast, nil
}

var applyArgLeaders = []string{lex.VarDomain, lex.WordDomain, lex.NumDomain}

// Apply ::= '@apply' ('<' | '>' | Word) (Var | Word | Number)+
func (p *Parser) parseApply() (term.Term, error) {
	if err := p.expect(lex.ApplyKW); err != nil {
		return nil, err
	}
	head := p.atom()
	p.advance()

	if err := p.expect(lex.Less, lex.Greater, lex.WordDomain); err != nil {
		return nil, err
	}
	ast := term.Sequence{head, p.atom()}
	p.advance()

	if err := p.expect(applyArgLeaders...); err != nil {
		return nil, err
	}
	for isOneOf(p.current.Domain, applyArgLeaders) {
		ast = append(ast, p.atom())
		p.advance()
	}
	return ast, nil
}

var simpleQueryLeaders = []string{lex.LeftParen, lex.VarDomain, lex.WordDomain, lex.NumDomain}

// SimpleQuery ::= ('(' SimpleQuery ')' | Var | Word | Number)* ('.' Var)?
func (p *Parser) parseSimpleQuery() (term.Term, error) {
	ast := term.Sequence{}
	for isOneOf(p.current.Domain, simpleQueryLeaders) {
		if p.current.Domain == lex.LeftParen {
			p.advance()
			nested, err := p.parseSimpleQuery()
			if err != nil {
				return nil, err
			}
			if err := p.expect(lex.RightParen); err != nil {
				return nil, err
			}
			ast = append(ast, nested)
		} else {
			ast = append(ast, p.atom())
		}
		p.advance()
	}
	if p.current.Domain == lex.Dot {
		ast = append(ast, term.DotAtom)
		p.advance()
		if err := p.expect(lex.VarDomain); err != nil {
			return nil, err
		}
		ast = append(ast, p.atom())
		p.advance()
	}
	return ast, nil
}

func isOneOf(domain string, set []string) bool {
	for _, s := range set {
		if domain == s {
			return true
		}
	}
	return false
}
