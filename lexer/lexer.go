// Package lexer tokenizes SQL-99 source text into a token.Token stream.
// It is a longest-match, single-pass scanner: whitespace, block comments
// (/* ... */, non-nesting) and line comments (-- ... to newline or EOF) are
// skipped silently, and every other byte range produces exactly one token.
package lexer

import (
	"strings"

	"github.com/deepfield-data/sql99parser/token"
)

// Error is a lexical failure: an illegal character or an unterminated
// string/quoted-identifier literal.
type Error struct {
	Msg string
	Pos int
}

func (e *Error) Error() string { return e.Msg }

// Lexer scans one source string. It is not safe for concurrent use; create
// one Lexer per call to parser.Parse.
type Lexer struct {
	src string
	pos int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next token, or a *Error if the source cannot be
// tokenized further. Once EOF has been returned, subsequent calls keep
// returning EOF.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipTrivia(); err != nil {
		return token.Token{}, err
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Pos: start}, nil
	}

	c := l.src[l.pos]
	switch {
	case isLetter(c):
		return l.lexIdentOrKeyword(start), nil
	case isDigit(c):
		return l.lexNumber(start), nil
	case c == '\'':
		return l.lexQuoted(start, '\'', token.StringLit)
	case c == '"':
		return l.lexQuoted(start, '"', token.Identifier)
	default:
		if tok, ok := l.lexDelimiter(start); ok {
			return tok, nil
		}
		return token.Token{}, &Error{Msg: "illegal character", Pos: start}
	}
}

// skipTrivia consumes whitespace, block comments, and line comments.
func (l *Lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '/' && l.rest(1) == "*":
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		case c == '-' && l.rest(1) == "-":
			l.pos += 2
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) skipBlockComment() error {
	start := l.pos
	l.pos += 2
	for {
		if l.pos >= len(l.src) {
			return &Error{Msg: "illegal character", Pos: start}
		}
		if l.src[l.pos] == '*' && l.rest(1) == "/" {
			l.pos += 2
			return nil
		}
		l.pos++
	}
}

func (l *Lexer) rest(offset int) string {
	i := l.pos + offset
	if i >= len(l.src) {
		return ""
	}
	return l.src[i : i+1]
}

func (l *Lexer) lexIdentOrKeyword(start int) token.Token {
	l.pos++
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	raw := l.src[start:l.pos]
	lower := strings.ToLower(raw)
	if token.Keywords[lower] {
		return token.Token{Kind: token.Keyword, Chars: lower, Pos: start}
	}
	return token.Token{Kind: token.Identifier, Chars: raw, Pos: start}
}

// lexNumber tries a decimal literal (digits '.' digits) before falling back
// to an integer literal.
func (l *Lexer) lexNumber(start int) token.Token {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++ // consume '.'
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		return token.Token{Kind: token.DecimalLit, Chars: l.src[start:l.pos], Pos: start}
	}
	return token.Token{Kind: token.IntegerLit, Chars: l.src[start:l.pos], Pos: start}
}

// lexQuoted scans a single- or double-quoted literal. There is no
// quote-doubling escape and no embedded newline: the first quote or
// newline/EOF ends the scan.
func (l *Lexer) lexQuoted(start int, delim byte, kind token.Kind) (token.Token, error) {
	l.pos++ // opening delimiter
	contentStart := l.pos
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return token.Token{}, &Error{Msg: "unclosed string literal", Pos: start}
		}
		if l.src[l.pos] == delim {
			content := l.src[contentStart:l.pos]
			l.pos++ // closing delimiter
			return token.Token{Kind: kind, Chars: content, Pos: start}, nil
		}
		l.pos++
	}
}

func (l *Lexer) lexDelimiter(start int) (token.Token, bool) {
	for _, d := range token.Delimiters {
		if strings.HasPrefix(l.src[l.pos:], d) {
			l.pos += len(d)
			return token.Token{Kind: token.Delimiter, Chars: d, Pos: start}, true
		}
	}
	return token.Token{}, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentCont(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

// Tokenize scans src to completion, returning every token up to and
// including the terminal EOF token.
func Tokenize(src string) ([]token.Token, error) {
	l := New(src)
	var out []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}
