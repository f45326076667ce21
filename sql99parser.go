// Package sql99parser re-exports the public surface of the parser and ast
// packages so that a caller who only needs Parse and the AST types can do
// so with a single import.
package sql99parser

import (
	"github.com/deepfield-data/sql99parser/ast"
	"github.com/deepfield-data/sql99parser/internal/trace"
	"github.com/deepfield-data/sql99parser/parser"
)

// Parse lexes and parses sql as a single (optionally UNIONed, optionally
// semicolon-terminated) SELECT statement. Any failure comes back as a
// *ParsingError.
func Parse(sql string, opts ...Option) (ast.Select, error) {
	return parser.Parse(sql, opts...)
}

// Option configures a Parse call.
type Option = parser.Option

// WithTracer attaches a Tracer that receives a span for the top-level
// parse call.
func WithTracer(t trace.Tracer) Option { return parser.WithTracer(t) }

// ParsingError is the sole error type Parse returns.
type ParsingError = parser.ParsingError

// Select is the root AST type a successful Parse returns.
type Select = ast.Select
