package parser

import (
	"github.com/deepfield-data/sql99parser/ast"
	"github.com/deepfield-data/sql99parser/token"
)

// parseSelectStmt is the shared entry point for both the top-level
// statement and every subquery position ("(select)" operands, EXISTS,
// FROM-clause subselects): a SimpleSelect, or a left-associated UNION
// chain of them.
func (p *Parser) parseSelectStmt() (ast.Select, error) {
	return p.memoSelect(ruleStatement, func() (ast.Select, error) {
		left, err := p.parseSimpleSelectMemo()
		if err != nil {
			return nil, err
		}
		var sel ast.Select = left
		for p.tryKeyword("union") {
			pos := sel.Pos()
			var q *ast.SetQuantifier
			if p.tryKeyword("all") {
				v := ast.All
				q = &v
			} else if p.tryKeyword("distinct") {
				v := ast.Distinct
				q = &v
			}
			right, err := p.parseSimpleSelectMemo()
			if err != nil {
				return nil, err
			}
			sel = &ast.UnionSelect{Left: sel, Quantifier: q, Right: right, TokPos: pos}
		}
		return sel, nil
	})
}

func (p *Parser) parseSimpleSelectMemo() (*ast.SimpleSelect, error) {
	sel, err := p.memoSelect(ruleSimpleSelect, func() (ast.Select, error) { return p.parseSimpleSelect() })
	if err != nil {
		return nil, err
	}
	return sel.(*ast.SimpleSelect), nil
}

func (p *Parser) parseSimpleSelect() (ast.Select, error) {
	pos := p.curPos()
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}
	var distinctQ *ast.SetQuantifier
	if p.tryKeyword("distinct") {
		v := ast.Distinct
		distinctQ = &v
	} else if p.tryKeyword("all") {
		v := ast.All
		distinctQ = &v
	}
	projections, err := p.parseProjections()
	if err != nil {
		return nil, err
	}
	relations, err := p.parseFrom()
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	groupBy, err := p.parseGroupBy()
	if err != nil {
		return nil, err
	}
	orderBy, err := p.parseOrderBy()
	if err != nil {
		return nil, err
	}
	return &ast.SimpleSelect{
		DistinctQ:   distinctQ,
		Projections: projections,
		Relations:   relations,
		Where:       where,
		GroupBy:     groupBy,
		OrderBy:     orderBy,
		TokPos:      int32(pos),
	}, nil
}

// ---- projections ----

func (p *Parser) parseProjections() ([]ast.Projection, error) {
	first, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	out := []ast.Projection{first}
	for p.tryDelim(",") {
		next, err := p.parseProjection()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func (p *Parser) parseProjection() (ast.Projection, error) {
	pos := p.curPos()
	if p.tryDelim("*") {
		return &ast.AllColumns{TokPos: int32(pos)}, nil
	}
	if p.curKind() == token.Identifier {
		if proj, ok, err := p.tryAllTableColumns(pos); err != nil {
			return nil, err
		} else if ok {
			return proj, nil
		}
	}
	expr, err := p.Expr()
	if err != nil {
		return nil, mergeErr(newError("*, table or expression expected", pos), err)
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionProjection{Expr: expr, Alias: alias, TokPos: int32(pos)}, nil
}

// tryAllTableColumns attempts "ident . *" or "ident . ident . *", restoring
// the cursor and reporting ok=false if the lookahead doesn't pan out so the
// caller can fall back to ordinary expression parsing.
func (p *Parser) tryAllTableColumns(pos int) (ast.Projection, bool, error) {
	save := p.pos
	first := p.cur().Chars
	p.advance()
	if !p.tryDelim(".") {
		p.pos = save
		return nil, false, nil
	}
	if p.tryDelim("*") {
		return &ast.AllTableColumns{Table: ast.TableIdent{Name: first}, TokPos: int32(pos)}, true, nil
	}
	if p.curKind() == token.Identifier {
		second := p.cur().Chars
		savedAfterSecond := p.pos
		p.advance()
		if p.tryDelim(".") && p.tryDelim("*") {
			return &ast.AllTableColumns{Table: ast.TableIdent{Name: second, Schema: &first}, TokPos: int32(pos)}, true, nil
		}
		p.pos = savedAfterSecond
	}
	p.pos = save
	return nil, false, nil
}

func (p *Parser) parseOptionalAlias() (*string, error) {
	if p.tryKeyword("as") {
		return p.parseAliasName()
	}
	if p.curKind() == token.Identifier || p.curKind() == token.StringLit {
		s := p.cur().Chars
		p.advance()
		return &s, nil
	}
	return nil, nil
}

func (p *Parser) parseAliasName() (*string, error) {
	if p.curKind() == token.Identifier || p.curKind() == token.StringLit {
		s := p.cur().Chars
		p.advance()
		return &s, nil
	}
	return nil, p.errExpected("identifier or string literal")
}

// ---- FROM / relations / joins ----

func (p *Parser) parseFrom() ([]ast.Relation, error) {
	if !p.tryKeyword("from") {
		return nil, nil
	}
	first, err := p.parseRelationChain()
	if err != nil {
		return nil, err
	}
	out := []ast.Relation{first}
	for p.tryDelim(",") {
		next, err := p.parseRelationChain()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func (p *Parser) parseRelationChain() (ast.Relation, error) {
	left, err := p.parseBaseRelation()
	if err != nil {
		return nil, err
	}
	for {
		kind, ok, err := p.tryJoinKind()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		pos := left.Pos()
		right, err := p.parseBaseRelation()
		if err != nil {
			return nil, err
		}
		var on ast.Expression
		if p.tryKeyword("on") {
			on, err = p.Expr()
			if err != nil {
				return nil, err
			}
		}
		left = &ast.JoinRelation{Left: left, Kind: kind, Right: right, On: on, TokPos: pos}
	}
	return left, nil
}

func (p *Parser) tryJoinKind() (ast.JoinKind, bool, error) {
	switch {
	case p.tryKeyword("inner"):
		if err := p.expectKeyword("join"); err != nil {
			return 0, false, err
		}
		return ast.InnerJoin, true, nil
	case p.tryKeyword("join"):
		return ast.InnerJoin, true, nil
	case p.tryKeyword("left"):
		p.tryKeyword("outer")
		if err := p.expectKeyword("join"); err != nil {
			return 0, false, err
		}
		return ast.LeftJoin, true, nil
	case p.tryKeyword("right"):
		p.tryKeyword("outer")
		if err := p.expectKeyword("join"); err != nil {
			return 0, false, err
		}
		return ast.RightJoin, true, nil
	default:
		return 0, false, nil
	}
}

func (p *Parser) parseBaseRelation() (ast.Relation, error) {
	pos := p.curPos()
	if p.tryDelim("(") {
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		p.tryKeyword("as")
		if p.curKind() != token.Identifier {
			return nil, p.errExpected("identifier")
		}
		alias := p.cur().Chars
		p.advance()
		return &ast.SubSelectRelation{Select: sel, Alias: alias, TokPos: int32(pos)}, nil
	}
	if p.curKind() != token.Identifier {
		return nil, newError("table, join or subselect expected", pos)
	}
	first := p.cur().Chars
	p.advance()
	var ti ast.TableIdent
	if p.tryDelim(".") {
		if p.curKind() != token.Identifier {
			return nil, p.errExpected("identifier")
		}
		second := p.cur().Chars
		p.advance()
		ti = ast.TableIdent{Name: second, Schema: &first}
	} else {
		ti = ast.TableIdent{Name: first}
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &ast.SingleTableRelation{Table: ti, Alias: alias, TokPos: int32(pos)}, nil
}

// ---- WHERE ----

func (p *Parser) parseWhere() (ast.Expression, error) {
	if !p.tryKeyword("where") {
		return nil, nil
	}
	return p.Expr()
}

// ---- GROUP BY ----

func (p *Parser) parseGroupBy() ([]ast.Group, error) {
	if !p.tryKeyword("group") {
		return nil, nil
	}
	if err := p.expectKeyword("by"); err != nil {
		return nil, err
	}
	first, err := p.parseGroupItemTop()
	if err != nil {
		return nil, err
	}
	out := []ast.Group{first}
	for p.tryDelim(",") {
		next, err := p.parseGroupItemTop()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func (p *Parser) parseGroupItemTop() (ast.Group, error) {
	switch {
	case p.tryKeyword("grouping"):
		if err := p.expectKeyword("sets"); err != nil {
			return nil, err
		}
		if err := p.expect("("); err != nil {
			return nil, err
		}
		sets, err := p.parseGroupingSetList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return ast.GroupByGroupingSets{Sets: sets}, nil
	case p.tryKeyword("rollup"):
		if err := p.expect("("); err != nil {
			return nil, err
		}
		items, err := p.parseGroupItemList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return ast.GroupByRollup{Items: items}, nil
	case p.tryKeyword("cube"):
		if err := p.expect("("); err != nil {
			return nil, err
		}
		items, err := p.parseGroupItemList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return ast.GroupByCube{Items: items}, nil
	default:
		expr, err := p.Expr()
		if err != nil {
			return nil, err
		}
		return ast.GroupByExpression{Expr: expr}, nil
	}
}

func (p *Parser) parseGroupingSetList() ([]ast.GroupingSet, error) {
	first, err := p.parseGroupingSet()
	if err != nil {
		return nil, err
	}
	out := []ast.GroupingSet{first}
	for p.tryDelim(",") {
		next, err := p.parseGroupingSet()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func (p *Parser) parseGroupingSet() (ast.GroupingSet, error) {
	if err := p.expect("("); err != nil {
		return ast.GroupingSet{}, err
	}
	if p.tryDelim(")") {
		return ast.GroupingSet{}, nil
	}
	first, err := p.Expr()
	if err != nil {
		return ast.GroupingSet{}, err
	}
	exprs := []ast.Expression{first}
	for p.tryDelim(",") {
		e, err := p.Expr()
		if err != nil {
			return ast.GroupingSet{}, err
		}
		exprs = append(exprs, e)
	}
	if err := p.expect(")"); err != nil {
		return ast.GroupingSet{}, err
	}
	return ast.GroupingSet{Exprs: exprs}, nil
}

// parseGroupItemList parses the ROLLUP/CUBE argument list, each item
// being either a bare expression or a parenthesized grouping set. "(a)"
// is ambiguous between a single-element grouping set and a parenthesized
// expression; the expression reading is tried first (matching how "(" is
// disambiguated elsewhere, specific-alternative-first), so only a
// genuinely comma-bearing tuple like "(a, b)" falls through to the
// grouping-set reading.
func (p *Parser) parseGroupItemList() ([]ast.GroupItem, error) {
	first, err := p.parseGroupItem()
	if err != nil {
		return nil, err
	}
	out := []ast.GroupItem{first}
	for p.tryDelim(",") {
		next, err := p.parseGroupItem()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func (p *Parser) parseGroupItem() (ast.GroupItem, error) {
	save := p.pos
	if expr, err := p.Expr(); err == nil {
		return ast.GroupItem{Expr: expr}, nil
	}
	p.pos = save
	set, err := p.parseGroupingSet()
	if err != nil {
		return ast.GroupItem{}, err
	}
	return ast.GroupItem{Set: &set}, nil
}

// ---- ORDER BY ----

func (p *Parser) parseOrderBy() ([]ast.SortExpression, error) {
	if !p.tryKeyword("order") {
		return nil, nil
	}
	if err := p.expectKeyword("by"); err != nil {
		return nil, err
	}
	first, err := p.parseSortItem()
	if err != nil {
		return nil, err
	}
	out := []ast.SortExpression{first}
	for p.tryDelim(",") {
		next, err := p.parseSortItem()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

func (p *Parser) parseSortItem() (ast.SortExpression, error) {
	expr, err := p.Expr()
	if err != nil {
		return ast.SortExpression{}, err
	}
	var order *ast.SortOrder
	if p.tryKeyword("asc") {
		o := ast.SortASC
		order = &o
	} else if p.tryKeyword("desc") {
		o := ast.SortDESC
		order = &o
	}
	return ast.SortExpression{Expr: expr, Order: order}, nil
}
