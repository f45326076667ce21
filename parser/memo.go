package parser

import "github.com/deepfield-data/sql99parser/ast"

// exprLevel identifies one row of the fourteen-level expression table.
// Levels run tightest-to-loosest; Expr (level lvlOr) is the public
// entry point into the climber.
type exprLevel uint8

const (
	lvlSimple exprLevel = iota
	lvlUnary
	lvlMultiply
	lvlAdd
	// lvlPostfix covers the IS / BETWEEN / IN chain: one shared level
	// since these five forms all operate over an additive-level operand
	// and chain freely with each other (see parsePostfix).
	lvlPostfix
	lvlComparator
	lvlExists
	lvlNot
	lvlAnd
	lvlOr
)

type exprKey struct {
	pos   int
	level exprLevel
}

type exprResult struct {
	expr   ast.Expression
	endPos int
	err    *ParsingError // nil on success
}

// selRule identifies the two select-grammar memo points. Unlike the
// expression table these don't need a full row each: parseSelectStmt
// folds UNION iteratively (see clauses.go), so only the entry rule and the
// bare SimpleSelect rule are ever consulted twice at the same position
// (once directly, once as a subselect operand of "(" ... ")").
type selRule uint8

const (
	ruleSimpleSelect selRule = iota
	ruleStatement
)

type selKey struct {
	pos  int
	rule selRule
}

type selResult struct {
	sel    ast.Select
	endPos int
	err    *ParsingError
}

// memoExpr runs fn at the current position under level, caching the
// outcome keyed by (position, level) so that backtracking alternatives
// that retry the same rule at the same position reuse prior work instead
// of re-deriving it — the packrat discipline that keeps the postfix
// IS/IN/BETWEEN chains and nested parenthesization linear in input size.
//
// A failed fn leaves the cursor exactly where it started: that's what
// makes the cache valid to replay blindly on a hit.
func (p *Parser) memoExpr(level exprLevel, fn func() (ast.Expression, error)) (ast.Expression, error) {
	key := exprKey{pos: p.pos, level: level}
	if r, ok := p.exprMemo[key]; ok {
		if r.err != nil {
			return nil, r.err
		}
		p.pos = r.endPos
		return r.expr, nil
	}
	start := p.pos
	expr, err := fn()
	if err != nil {
		p.pos = start
		pe := asParsingError(err)
		p.exprMemo[key] = exprResult{err: pe}
		return nil, pe
	}
	p.exprMemo[key] = exprResult{expr: expr, endPos: p.pos}
	return expr, nil
}

func (p *Parser) memoSelect(rule selRule, fn func() (ast.Select, error)) (ast.Select, error) {
	key := selKey{pos: p.pos, rule: rule}
	if r, ok := p.selMemo[key]; ok {
		if r.err != nil {
			return nil, r.err
		}
		p.pos = r.endPos
		return r.sel, nil
	}
	start := p.pos
	sel, err := fn()
	if err != nil {
		p.pos = start
		pe := asParsingError(err)
		p.selMemo[key] = selResult{err: pe}
		return nil, pe
	}
	p.selMemo[key] = selResult{sel: sel, endPos: p.pos}
	return sel, nil
}
