package lexer_test

import (
	"testing"

	"github.com/deepfield-data/sql99parser/lexer"
	"github.com/deepfield-data/sql99parser/token"
)

func mustTokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize error: %v\nsrc: %s", err, src)
	}
	return toks
}

func TestKeywordsFoldCase(t *testing.T) {
	toks := mustTokenize(t, "SeLeCt")
	if toks[0].Kind != token.Keyword || toks[0].Chars != "select" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestIdentifierPreservesCase(t *testing.T) {
	toks := mustTokenize(t, "MyColumn")
	if toks[0].Kind != token.Identifier || toks[0].Chars != "MyColumn" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestIntegerVsDecimal(t *testing.T) {
	toks := mustTokenize(t, "42 3.14 5.")
	if toks[0].Kind != token.IntegerLit || toks[0].Chars != "42" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Kind != token.DecimalLit || toks[1].Chars != "3.14" {
		t.Fatalf("got %+v", toks[1])
	}
	// "5." has no digit after the dot, so the dot is not part of the number.
	if toks[2].Kind != token.IntegerLit || toks[2].Chars != "5" {
		t.Fatalf("got %+v", toks[2])
	}
	if toks[3].Kind != token.Delimiter || toks[3].Chars != "." {
		t.Fatalf("got %+v", toks[3])
	}
}

func TestStringLiteralNoEscaping(t *testing.T) {
	toks := mustTokenize(t, `'it''s'`)
	if toks[0].Kind != token.StringLit || toks[0].Chars != "it" {
		t.Fatalf("got %+v", toks[0])
	}
	// The doubled quote closes then immediately reopens a second literal.
	if toks[1].Kind != token.StringLit || toks[1].Chars != "s" {
		t.Fatalf("got %+v", toks[1])
	}
}

func TestUnclosedStringFails(t *testing.T) {
	_, err := lexer.Tokenize("'abc")
	if err == nil {
		t.Fatal("expected error")
	}
	le, ok := err.(*lexer.Error)
	if !ok {
		t.Fatalf("expected *lexer.Error, got %T", err)
	}
	if le.Pos != 0 {
		t.Fatalf("got pos %d", le.Pos)
	}
}

func TestBlockComment(t *testing.T) {
	toks := mustTokenize(t, "a /* comment */ b")
	if toks[0].Chars != "a" || toks[1].Chars != "b" {
		t.Fatalf("got %+v", toks[:2])
	}
}

func TestLineComment(t *testing.T) {
	toks := mustTokenize(t, "a -- trailing\nb")
	if toks[0].Chars != "a" || toks[1].Chars != "b" {
		t.Fatalf("got %+v", toks[:2])
	}
}

func TestLongestMatchDelimiters(t *testing.T) {
	toks := mustTokenize(t, "<> >= <= || -> =>")
	want := []string{"<>", ">=", "<=", "||", "->", "=>"}
	for i, w := range want {
		if toks[i].Chars != w {
			t.Fatalf("token %d: got %q want %q", i, toks[i].Chars, w)
		}
	}
}

func TestRangeAndSetPlaceholderDelimiters(t *testing.T) {
	toks := mustTokenize(t, "?[ ?{ }")
	if toks[0].Chars != "?" || toks[1].Chars != "[" {
		t.Fatalf("got %+v", toks[:2])
	}
	if toks[2].Chars != "?" || toks[3].Chars != "{" || toks[4].Chars != "}" {
		t.Fatalf("got %+v", toks[2:5])
	}
}

func TestIllegalCharacter(t *testing.T) {
	_, err := lexer.Tokenize("a $ b")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEOFIsTerminal(t *testing.T) {
	toks := mustTokenize(t, "")
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("got %+v", toks)
	}
}
