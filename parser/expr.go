package parser

import (
	"strconv"
	"strings"

	"github.com/deepfield-data/sql99parser/ast"
	"github.com/deepfield-data/sql99parser/token"
)

// Expr is the public entry point into the fourteen-level expression
// grammar: the loosest rule, OR.
func (p *Parser) Expr() (ast.Expression, error) {
	return p.parseOr()
}

// ---- level 14: or ----

func (p *Parser) parseOr() (ast.Expression, error) {
	return p.memoExpr(lvlOr, func() (ast.Expression, error) {
		left, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		for p.tryKeyword("or") {
			pos := left.Pos()
			right, err := p.parseAnd()
			if err != nil {
				return nil, err
			}
			left = &ast.OrExpression{Left: left, Right: right, TokPos: pos}
		}
		return left, nil
	})
}

// ---- level 13: and ----

func (p *Parser) parseAnd() (ast.Expression, error) {
	return p.memoExpr(lvlAnd, func() (ast.Expression, error) {
		left, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		for p.tryKeyword("and") {
			pos := left.Pos()
			right, err := p.parseNot()
			if err != nil {
				return nil, err
			}
			left = &ast.AndExpression{Left: left, Right: right, TokPos: pos}
		}
		return left, nil
	})
}

// ---- level 12: not (prefix, right-recursive) ----

func (p *Parser) parseNot() (ast.Expression, error) {
	return p.memoExpr(lvlNot, func() (ast.Expression, error) {
		if p.curKeywordIs("not") {
			pos := p.curPos()
			p.advance()
			inner, err := p.parseNot()
			if err != nil {
				return nil, err
			}
			return &ast.NotExpression{Expr: inner, TokPos: int32(pos)}, nil
		}
		return p.parseExists()
	})
}

// ---- level 11: exists (prefix) ----

func (p *Parser) parseExists() (ast.Expression, error) {
	return p.memoExpr(lvlExists, func() (ast.Expression, error) {
		if p.curKeywordIs("exists") {
			pos := p.curPos()
			p.advance()
			if err := p.expect("("); err != nil {
				return nil, err
			}
			sel, err := p.parseSelectStmt()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return &ast.ExistsExpression{Select: sel, TokPos: int32(pos)}, nil
		}
		return p.parseComparator()
	})
}

// ---- level 10: comparator ----

var comparisonOps = map[string]ast.ComparisonOp{
	"=": ast.OpEQ, "<>": ast.OpNEQ, "<": ast.OpLT, ">": ast.OpGT,
	">=": ast.OpGTE, "<=": ast.OpLTE,
}

func (p *Parser) parseComparator() (ast.Expression, error) {
	return p.memoExpr(lvlComparator, func() (ast.Expression, error) {
		left, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		for {
			var op ast.ComparisonOp
			matched := false
			for text, o := range comparisonOps {
				if p.curMatches(text) {
					op, matched = o, true
					p.advance()
					break
				}
			}
			if !matched && p.curKeywordIs("like") {
				op, matched = ast.OpLike, true
				p.advance()
			}
			if !matched {
				break
			}
			pos := left.Pos()
			right, err := p.parsePostfix()
			if err != nil {
				return nil, err
			}
			left = &ast.ComparisonExpression{Left: left, Op: op, Right: right, TokPos: pos}
		}
		return left, nil
	})
}

// ---- level 5: postfix IS / BETWEEN / IN chain ----
//
// These five forms (IS, BETWEEN, BETWEEN ?[...), IN (...), IN ?{...})
// are all postfix operators over a single additive-level operand, and
// spec.md requires that they chain freely with each other: "a BETWEEN b
// AND c IS NULL" is ((a BETWEEN b AND c) IS NULL), and a BETWEEN chain
// may equally be followed by IN. A single shared loop handles all five,
// re-checking every postfix operator after each new node is built, so
// that node is itself eligible for the next suffix. BETWEEN's bounds are
// parsed at the additive level rather than the full Expr, so the
// BETWEEN ... AND ... separator is never confused with the AND boolean
// operator that sits at a looser level.

func (p *Parser) parsePostfix() (ast.Expression, error) {
	return p.memoExpr(lvlPostfix, func() (ast.Expression, error) {
		left, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		for {
			next, matched, err := p.tryPostfixSuffix(left)
			if err != nil {
				return nil, err
			}
			if !matched {
				return left, nil
			}
			left = next
		}
	})
}

// tryPostfixSuffix attempts to extend left with one IS, BETWEEN or IN
// suffix, reporting matched=false (cursor untouched) when none apply.
func (p *Parser) tryPostfixSuffix(left ast.Expression) (ast.Expression, bool, error) {
	if p.curKeywordIs("is") {
		pos := left.Pos()
		p.advance()
		negated := p.tryKeyword("not")
		lit, err := p.parseIsLiteral()
		if err != nil {
			return nil, false, err
		}
		return &ast.IsExpression{Expr: left, Negated: negated, Literal: lit, TokPos: pos}, true, nil
	}

	save := p.pos
	negated := p.tryKeyword("not")
	switch {
	case p.curKeywordIs("between"):
		expr, err := p.parseBetweenSuffix(left, negated)
		if err != nil {
			return nil, false, err
		}
		return expr, true, nil
	case p.curKeywordIs("in"):
		expr, err := p.parseInSuffix(left, negated)
		if err != nil {
			return nil, false, err
		}
		return expr, true, nil
	}
	p.pos = save
	return left, false, nil
}

// parseBetweenSuffix parses the remainder of a BETWEEN or BETWEEN ?[...)
// suffix; the leading (possibly NOT-prefixed) "between" keyword is
// already confirmed current but not yet consumed.
func (p *Parser) parseBetweenSuffix(left ast.Expression, negated bool) (ast.Expression, error) {
	pos := left.Pos()
	p.advance() // 'between'
	if p.curMatches("?") && p.peekMatches("[") {
		p.advance() // '?'
		p.advance() // '['
		ph, err := p.parseRangePlaceholderBody()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &ast.IsBetweenExpression0{Value: left, Negated: negated, Placeholder: ph, TokPos: pos}, nil
	}
	low, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("and"); err != nil {
		return nil, err
	}
	high, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	return &ast.IsBetweenExpression{Value: left, Negated: negated, Low: low, High: high, TokPos: pos}, nil
}

func (p *Parser) parseRangePlaceholderBody() (ast.RangePlaceholder, error) {
	var name *string
	if p.curKind() == token.Identifier {
		s := p.cur().Chars
		p.advance()
		name = &s
	}
	var typ *ast.TypeLiteral
	if p.tryDelim(":") {
		t, err := p.parseTypeLiteral()
		if err != nil {
			return ast.RangePlaceholder{}, err
		}
		typ = &t
	}
	return ast.RangePlaceholder{Name: name, TypeHint: typ}, nil
}

// parseInSuffix parses the remainder of an IN (...) or IN ?{...} suffix;
// the leading (possibly NOT-prefixed) "in" keyword is already confirmed
// current but not yet consumed.
func (p *Parser) parseInSuffix(left ast.Expression, negated bool) (ast.Expression, error) {
	pos := left.Pos()
	p.advance() // 'in'
	if p.curMatches("?") && p.peekMatches("{") {
		p.advance() // '?'
		p.advance() // '{'
		ph, err := p.parseSetPlaceholderBody()
		if err != nil {
			return nil, err
		}
		if err := p.expect("}"); err != nil {
			return nil, err
		}
		return &ast.IsInExpression0{Value: left, Negated: negated, Placeholder: ph, TokPos: pos}, nil
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	first, err := p.Expr()
	if err != nil {
		return nil, err
	}
	values := []ast.Expression{first}
	for p.tryDelim(",") {
		e, err := p.Expr()
		if err != nil {
			return nil, err
		}
		values = append(values, e)
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &ast.IsInExpression{Value: left, Negated: negated, Values: values, TokPos: pos}, nil
}

func (p *Parser) parseSetPlaceholderBody() (ast.SetPlaceholder, error) {
	var name *string
	if p.curKind() == token.Identifier {
		s := p.cur().Chars
		p.advance()
		name = &s
	}
	var typ *ast.TypeLiteral
	if p.tryDelim(":") {
		t, err := p.parseTypeLiteral()
		if err != nil {
			return ast.SetPlaceholder{}, err
		}
		typ = &t
	}
	return ast.SetPlaceholder{Name: name, TypeHint: typ}, nil
}

func (p *Parser) parseIsLiteral() (ast.Literal, error) {
	if p.curKind() != token.Keyword {
		return nil, p.errExpected("true, false, unknown or null")
	}
	switch p.cur().Chars {
	case "true":
		p.advance()
		return ast.TrueLiteral{}, nil
	case "false":
		p.advance()
		return ast.FalseLiteral{}, nil
	case "unknown":
		p.advance()
		return ast.UnknownLiteral{}, nil
	case "null":
		p.advance()
		return ast.NullLiteral{}, nil
	default:
		return nil, p.errExpected("true, false, unknown or null")
	}
}

// ---- level 4: add ----

func (p *Parser) parseAdd() (ast.Expression, error) {
	return p.memoExpr(lvlAdd, func() (ast.Expression, error) {
		left, err := p.parseMultiply()
		if err != nil {
			return nil, err
		}
		for {
			var op ast.MathOp
			switch {
			case p.tryDelim("+"):
				op = ast.OpAdd
			case p.tryDelim("-"):
				op = ast.OpSub
			default:
				return left, nil
			}
			pos := left.Pos()
			right, err := p.parseMultiply()
			if err != nil {
				return nil, err
			}
			left = &ast.MathExpression{Left: left, Op: op, Right: right, TokPos: pos}
		}
	})
}

// ---- level 3: multiply ----

func (p *Parser) parseMultiply() (ast.Expression, error) {
	return p.memoExpr(lvlMultiply, func() (ast.Expression, error) {
		left, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		for {
			var op ast.MathOp
			switch {
			case p.tryDelim("*"):
				op = ast.OpMul
			case p.tryDelim("/"):
				op = ast.OpDiv
			default:
				return left, nil
			}
			pos := left.Pos()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.MathExpression{Left: left, Op: op, Right: right, TokPos: pos}
		}
	})
}

// ---- level 2: unary (prefix +/-) ----

func (p *Parser) parseUnary() (ast.Expression, error) {
	return p.memoExpr(lvlUnary, func() (ast.Expression, error) {
		pos := p.curPos()
		switch {
		case p.tryDelim("+"):
			inner, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryMathExpression{Op: ast.OpAdd, Expr: inner, TokPos: int32(pos)}, nil
		case p.tryDelim("-"):
			inner, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryMathExpression{Op: ast.OpSub, Expr: inner, TokPos: int32(pos)}, nil
		default:
			return p.parseSimpleExpr()
		}
	})
}

// ---- level 1: simpleExpr ----

func (p *Parser) parseSimpleExpr() (ast.Expression, error) {
	return p.memoExpr(lvlSimple, func() (ast.Expression, error) {
		pos := p.curPos()
		switch p.curKind() {
		case token.IntegerLit:
			v, err := strconv.ParseInt(p.cur().Chars, 10, 64)
			if err != nil {
				return nil, newError("Invalid expression", pos)
			}
			p.advance()
			return &ast.LiteralExpression{Value: ast.IntegerLiteral(v), TokPos: int32(pos)}, nil
		case token.DecimalLit:
			v, err := strconv.ParseFloat(p.cur().Chars, 64)
			if err != nil {
				return nil, newError("Invalid expression", pos)
			}
			p.advance()
			return &ast.LiteralExpression{Value: ast.DecimalLiteral(v), TokPos: int32(pos)}, nil
		case token.StringLit:
			v := p.cur().Chars
			p.advance()
			return &ast.LiteralExpression{Value: ast.StringLiteral(v), TokPos: int32(pos)}, nil
		case token.Identifier:
			return p.parseIdentOrFunction(p.cur().Chars, pos)
		case token.Keyword:
			return p.parseKeywordLedExpr(pos)
		case token.Delimiter:
			return p.parseDelimiterLedExpr(pos)
		default:
			return nil, newError("Invalid expression", pos)
		}
	})
}

func (p *Parser) parseKeywordLedExpr(pos int) (ast.Expression, error) {
	switch p.cur().Chars {
	case "true":
		p.advance()
		return &ast.LiteralExpression{Value: ast.TrueLiteral{}, TokPos: int32(pos)}, nil
	case "false":
		p.advance()
		return &ast.LiteralExpression{Value: ast.FalseLiteral{}, TokPos: int32(pos)}, nil
	case "unknown":
		p.advance()
		return &ast.LiteralExpression{Value: ast.UnknownLiteral{}, TokPos: int32(pos)}, nil
	case "null":
		p.advance()
		return &ast.LiteralExpression{Value: ast.NullLiteral{}, TokPos: int32(pos)}, nil
	case "cast":
		return p.parseCast()
	case "case":
		return p.parseCaseWhen()
	}
	// Any other reserved word immediately followed by '(' is a function
	// call name (e.g. count(x)); see DESIGN.md. Arguments are ordinary
	// expressions, so a bare "*" argument is not accepted.
	if p.peekMatches("(") {
		name := p.cur().Chars
		p.advance()
		p.advance() // '('
		return p.parseFunctionCallRest(name, pos)
	}
	return nil, newError("Invalid expression", pos)
}

func (p *Parser) parseDelimiterLedExpr(pos int) (ast.Expression, error) {
	switch {
	case p.tryDelim("("):
		if p.curKeywordIs("select") {
			sel, err := p.parseSelectStmt()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return &ast.SubSelectExpression{Select: sel, TokPos: int32(pos)}, nil
		}
		inner, err := p.Expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &ast.ParenthesedExpression{Expr: inner, TokPos: int32(pos)}, nil
	case p.tryDelim("?"):
		var name *string
		if p.curKind() == token.Identifier {
			s := p.cur().Chars
			p.advance()
			name = &s
		}
		var typ *ast.TypeLiteral
		if p.tryDelim(":") {
			t, err := p.parseTypeLiteral()
			if err != nil {
				return nil, err
			}
			typ = &t
		}
		return &ast.ExpressionPlaceholder{Name: name, TypeHint: typ, TokPos: int32(pos)}, nil
	default:
		return nil, newError("Invalid expression", pos)
	}
}

// parseIdentOrFunction handles both column references (possibly qualified
// with a table and, further, a schema) and function calls, disambiguated
// by whether '(' immediately follows the leading identifier.
func (p *Parser) parseIdentOrFunction(first string, pos int) (ast.Expression, error) {
	p.advance()
	if p.tryDelim("(") {
		return p.parseFunctionCallRest(first, pos)
	}
	if p.tryDelim(".") {
		if p.curKind() != token.Identifier {
			return nil, p.errExpected("identifier")
		}
		second := p.cur().Chars
		p.advance()
		if p.tryDelim(".") {
			if p.curKind() != token.Identifier {
				return nil, p.errExpected("identifier")
			}
			third := p.cur().Chars
			p.advance()
			return &ast.ColumnExpression{
				Column: ast.ColumnIdent{Name: third, Table: &ast.TableIdent{Name: second, Schema: &first}},
				TokPos: int32(pos),
			}, nil
		}
		return &ast.ColumnExpression{
			Column: ast.ColumnIdent{Name: second, Table: &ast.TableIdent{Name: first}},
			TokPos: int32(pos),
		}, nil
	}
	return &ast.ColumnExpression{Column: ast.ColumnIdent{Name: first}, TokPos: int32(pos)}, nil
}

func (p *Parser) parseFunctionCallRest(name string, pos int) (ast.Expression, error) {
	name = strings.ToLower(name)
	var q *ast.SetQuantifier
	if p.tryKeyword("distinct") {
		v := ast.Distinct
		q = &v
	} else if p.tryKeyword("all") {
		v := ast.All
		q = &v
	}
	var args []ast.Expression
	if !p.curMatches(")") {
		first, err := p.Expr()
		if err != nil {
			return nil, err
		}
		args = append(args, first)
		for p.tryDelim(",") {
			e, err := p.Expr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &ast.FunctionCallExpression{Name: name, DistinctQ: q, Args: args, TokPos: int32(pos)}, nil
}

func (p *Parser) parseCast() (ast.Expression, error) {
	pos := p.curPos()
	p.advance() // 'cast'
	if err := p.expect("("); err != nil {
		return nil, err
	}
	expr, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeLiteral()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &ast.CastExpression{Expr: expr, Type: typ, TokPos: int32(pos)}, nil
}

var typeLiterals = map[string]ast.TypeLiteral{
	"timestamp": ast.TypeTimestamp, "datetime": ast.TypeTimestamp,
	"date": ast.TypeDate, "boolean": ast.TypeBoolean, "varchar": ast.TypeVarchar,
	"integer": ast.TypeInteger, "numeric": ast.TypeNumeric, "decimal": ast.TypeDecimal,
	"real": ast.TypeReal,
}

func (p *Parser) parseTypeLiteral() (ast.TypeLiteral, error) {
	if p.curKind() == token.Keyword {
		if t, ok := typeLiterals[p.cur().Chars]; ok {
			p.advance()
			return t, nil
		}
	}
	return 0, newError("type expected", p.curPos())
}

func (p *Parser) parseCaseWhen() (ast.Expression, error) {
	pos := p.curPos()
	p.advance() // 'case'
	var scrutinee ast.Expression
	if !p.curKeywordIs("when") {
		e, err := p.Expr()
		if err != nil {
			return nil, err
		}
		scrutinee = e
	}
	if err := p.expectKeyword("when"); err != nil {
		return nil, err
	}
	var cases []ast.WhenClause
	for {
		whenExpr, err := p.Expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("then"); err != nil {
			return nil, err
		}
		thenExpr, err := p.Expr()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.WhenClause{When: whenExpr, Then: thenExpr})
		if !p.tryKeyword("when") {
			break
		}
	}
	var elseExpr ast.Expression
	if p.tryKeyword("else") {
		e, err := p.Expr()
		if err != nil {
			return nil, err
		}
		elseExpr = e
	}
	if err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return &ast.CaseWhenExpression{Scrutinee: scrutinee, Cases: cases, Else: elseExpr, TokPos: int32(pos)}, nil
}
