// Package token defines the lexical token model for the SQL-99 query
// grammar: six lexeme kinds plus a synthetic EOF marker, each carrying the literal source text it was
// scanned from, plus the reserved-keyword and delimiter tables the lexer
// and the token-level parser combinators match against.
package token

// Kind classifies a Token: six lexeme variants plus the synthetic EOF
// marker that ends every token stream.
type Kind uint8

const (
	Keyword Kind = iota
	Identifier
	IntegerLit
	DecimalLit
	StringLit
	Delimiter
	EOF
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case IntegerLit:
		return "integer"
	case DecimalLit:
		return "decimal"
	case StringLit:
		return "string"
	case Delimiter:
		return "delimiter"
	case EOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token is a single lexeme. Chars is the resolved text: lowercased for
// Keyword, unescaped content (no surrounding quotes) for StringLit and
// quoted Identifier, original casing otherwise. Pos is the byte offset in
// the source at which the token begins.
type Token struct {
	Kind  Kind
	Chars string
	Pos   int
}

// Keywords is Table A: the 50 reserved words, lowercased.
var Keywords = map[string]bool{
	"all": true, "and": true, "as": true, "asc": true, "between": true,
	"boolean": true, "by": true, "case": true, "cast": true, "count": true,
	"cube": true, "date": true, "datetime": true, "decimal": true, "desc": true,
	"distinct": true, "else": true, "end": true, "exists": true, "false": true,
	"from": true, "group": true, "grouping": true, "in": true, "inner": true,
	"integer": true, "is": true, "join": true, "left": true, "like": true,
	"not": true, "null": true, "numeric": true, "on": true, "or": true,
	"order": true, "outer": true, "real": true, "right": true, "rollup": true,
	"select": true, "sets": true, "then": true, "timestamp": true, "true": true,
	"union": true, "unknown": true, "varchar": true, "when": true, "where": true,
}

// Delimiters is Table B, ordered longest-first so a greedy scan finds the
// longest match without backtracking.
var Delimiters = []string{
	"??(", "??)",
	"<>", ">=", "<=", "||", "->", "=>",
	"(", ")", "\"", "'", "%", "&", "*", "/", "+", "-", ",", ".", ":", ";",
	"<", ">", "?", "[", "]", "_", "|", "=", "{", "}", "^",
}
