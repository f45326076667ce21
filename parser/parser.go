// Package parser implements a recursive-descent, operator-precedence
// parser for the SQL-99 query subset described by the ast package: SELECT
// statements, optionally chained with UNION, down to a fourteen-level
// expression grammar with memoized postfix IS/IN/BETWEEN chains.
//
// The parser is purely functional with respect to its input: a *Parser
// holds a pre-tokenized slice and a cursor, and every combinator either
// advances the cursor and returns a value or leaves the cursor untouched
// and returns a *ParsingError. There is no shared mutable state across
// Parse calls.
package parser

import (
	"fmt"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/deepfield-data/sql99parser/ast"
	"github.com/deepfield-data/sql99parser/internal/trace"
	"github.com/deepfield-data/sql99parser/lexer"
	"github.com/deepfield-data/sql99parser/token"
)

// Option configures a Parse call.
type Option func(*options)

type options struct {
	tracer trace.Tracer
}

// WithTracer attaches a Tracer that receives a span for the top-level
// parse. The default is a no-op tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// Parser holds the token stream and cursor for one parse. Create one via
// Parse; it is not exported for reuse across inputs.
type Parser struct {
	tokens   []token.Token
	pos      int
	exprMemo map[exprKey]exprResult
	selMemo  map[selKey]selResult
}

func newParser(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		exprMemo: make(map[exprKey]exprResult),
		selMemo:  make(map[selKey]selResult),
	}
}

// Parse lexes and parses sql as a single SELECT statement, optionally
// UNIONed and optionally terminated by a semicolon. Any failure — lexical
// or syntactic — comes back as a *ParsingError.
func Parse(sql string, opts ...Option) (result ast.Select, err error) {
	cfg := options{tracer: trace.NoOp()}
	for _, o := range opts {
		o(&cfg)
	}
	span := cfg.tracer.Start("parser.Parse")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			wrapped := pkgerrors.Wrap(fmt.Errorf("%v", r), "internal parser error")
			result, err = nil, newError(fmt.Sprintf("%+v", wrapped), 0)
		}
	}()

	tokens, lexErr := lexer.Tokenize(sql)
	if lexErr != nil {
		le := lexErr.(*lexer.Error)
		return nil, newError(le.Msg, le.Pos)
	}

	p := newParser(tokens)
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, remapEndMessage(err)
	}
	p.tryDelim(";")
	if p.curKind() != token.EOF {
		return nil, remapEndMessage(p.eof())
	}
	return sel, nil
}

// eof produces the fixed "end of input expected" failure used when
// trailing, unconsumed tokens remain after a complete statement. Parse
// remaps its wording before it reaches the caller; see remapEndMessage.
func (p *Parser) eof() error {
	return newError("end of input expected", p.curPos())
}

func remapEndMessage(err error) error {
	pe := asParsingError(err)
	if pe.Message == "end of input expected" {
		pe.Message = "end of statement expected"
	}
	return pe
}

// ---- cursor primitives ----

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) curKind() token.Kind {
	return p.tokens[p.pos].Kind
}

func (p *Parser) curPos() int {
	return p.tokens[p.pos].Pos
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// isValidKeywordOrDelimiter reports whether text names a registered
// keyword or delimiter. literalOrDelimiter-style combinators panic when
// asked to match anything else: that is a programmer error, never a
// parse failure.
func isValidKeywordOrDelimiter(text string) bool {
	if token.Keywords[text] {
		return true
	}
	for _, d := range token.Delimiters {
		if d == text {
			return true
		}
	}
	return false
}

func (p *Parser) curMatches(text string) bool {
	t := p.cur()
	if token.Keywords[text] {
		return t.Kind == token.Keyword && t.Chars == text
	}
	return t.Kind == token.Delimiter && t.Chars == text
}

func (p *Parser) peekMatches(text string) bool {
	t := p.peek()
	if token.Keywords[text] {
		return t.Kind == token.Keyword && t.Chars == text
	}
	return t.Kind == token.Delimiter && t.Chars == text
}

// tryKeyword consumes text if the current token is that keyword.
func (p *Parser) tryKeyword(text string) bool {
	if !token.Keywords[text] {
		panic("parser: " + strconv.Quote(text) + " is not a registered keyword")
	}
	if p.curMatches(text) {
		p.advance()
		return true
	}
	return false
}

// tryDelim consumes text if the current token is that delimiter.
func (p *Parser) tryDelim(text string) bool {
	if token.Keywords[text] {
		panic("parser: " + strconv.Quote(text) + " is a keyword, not a delimiter")
	}
	if !isValidKeywordOrDelimiter(text) {
		panic("parser: " + strconv.Quote(text) + " is not a registered delimiter")
	}
	if p.curMatches(text) {
		p.advance()
		return true
	}
	return false
}

// expect consumes text (keyword or delimiter) or fails with the standard
// "<text> expected" token-level message.
func (p *Parser) expect(text string) error {
	if !isValidKeywordOrDelimiter(text) {
		panic("parser: " + strconv.Quote(text) + " is not a registered keyword or delimiter")
	}
	if p.curMatches(text) {
		p.advance()
		return nil
	}
	return newError(text+" expected", p.curPos())
}

func (p *Parser) expectKeyword(text string) error { return p.expect(text) }

func (p *Parser) curKeywordIs(text string) bool {
	return p.curKind() == token.Keyword && p.cur().Chars == text
}

func (p *Parser) errExpected(what string) error {
	return newError(what+" expected", p.curPos())
}
