package parser_test

import (
	"testing"

	"github.com/deepfield-data/sql99parser/ast"
	"github.com/deepfield-data/sql99parser/parser"
)

func mustParse(t *testing.T, sql string) ast.Select {
	t.Helper()
	sel, err := parser.Parse(sql)
	if err != nil {
		t.Fatalf("parse error: %v\nSQL: %s", err, sql)
	}
	return sel
}

func mustFail(t *testing.T, sql string) *parser.ParsingError {
	t.Helper()
	_, err := parser.Parse(sql)
	if err == nil {
		t.Fatalf("expected error for SQL: %s", sql)
	}
	pe, ok := err.(*parser.ParsingError)
	if !ok {
		t.Fatalf("expected *ParsingError, got %T", err)
	}
	return pe
}

func TestSelectSimple(t *testing.T) {
	sel := mustParse(t, "SELECT a, b FROM t")
	simple, ok := sel.(*ast.SimpleSelect)
	if !ok {
		t.Fatalf("expected *SimpleSelect, got %T", sel)
	}
	if len(simple.Projections) != 2 {
		t.Fatalf("expected 2 projections, got %d", len(simple.Projections))
	}
	if len(simple.Relations) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(simple.Relations))
	}
}

func TestSelectStar(t *testing.T) {
	sel := mustParse(t, "SELECT * FROM t").(*ast.SimpleSelect)
	if _, ok := sel.Projections[0].(*ast.AllColumns); !ok {
		t.Fatalf("expected *AllColumns, got %T", sel.Projections[0])
	}
}

func TestSelectQualifiedStar(t *testing.T) {
	sel := mustParse(t, "SELECT t.* FROM t").(*ast.SimpleSelect)
	col, ok := sel.Projections[0].(*ast.AllTableColumns)
	if !ok {
		t.Fatalf("expected *AllTableColumns, got %T", sel.Projections[0])
	}
	if col.Table.Name != "t" {
		t.Fatalf("got table %q", col.Table.Name)
	}
}

func TestSelectWithoutFromIsOptional(t *testing.T) {
	sel := mustParse(t, "SELECT 1").(*ast.SimpleSelect)
	if sel.Relations != nil {
		t.Fatalf("expected no relations, got %v", sel.Relations)
	}
}

func TestJoinChainIsLeftAssociative(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t1 JOIN t2 ON true JOIN t3 ON true").(*ast.SimpleSelect)
	join, ok := sel.Relations[0].(*ast.JoinRelation)
	if !ok {
		t.Fatalf("expected *JoinRelation, got %T", sel.Relations[0])
	}
	if _, ok := join.Left.(*ast.JoinRelation); !ok {
		t.Fatalf("expected left-associated join chain, got left=%T", join.Left)
	}
}

func TestLeftOuterJoinIsOptionalOuter(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t1 LEFT JOIN t2 ON true").(*ast.SimpleSelect)
	join := sel.Relations[0].(*ast.JoinRelation)
	if join.Kind != ast.LeftJoin {
		t.Fatalf("got kind %v", join.Kind)
	}
	sel2 := mustParse(t, "SELECT a FROM t1 LEFT OUTER JOIN t2 ON true").(*ast.SimpleSelect)
	join2 := sel2.Relations[0].(*ast.JoinRelation)
	if join2.Kind != ast.LeftJoin {
		t.Fatalf("got kind %v", join2.Kind)
	}
}

func TestSubSelectRelationRequiresAlias(t *testing.T) {
	mustParse(t, "SELECT a FROM (SELECT 1 a) sub")
	pe := mustFail(t, "SELECT a FROM (SELECT 1 a)")
	if pe.Message != "identifier expected" {
		t.Fatalf("got message %q", pe.Message)
	}
}

func TestUnionChainIsLeftAssociative(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t1 UNION SELECT a FROM t2 UNION ALL SELECT a FROM t3")
	u, ok := sel.(*ast.UnionSelect)
	if !ok {
		t.Fatalf("expected *UnionSelect, got %T", sel)
	}
	if u.Quantifier == nil || *u.Quantifier != ast.All {
		t.Fatalf("expected outer quantifier ALL, got %v", u.Quantifier)
	}
	if _, ok := u.Left.(*ast.UnionSelect); !ok {
		t.Fatalf("expected left-associated union chain, got left=%T", u.Left)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	sel := mustParse(t, "SELECT 1 + 2 * 3 FROM t").(*ast.SimpleSelect)
	expr := sel.Projections[0].(*ast.ExpressionProjection).Expr
	add, ok := expr.(*ast.MathExpression)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("expected top-level add, got %T", expr)
	}
	if _, ok := add.Right.(*ast.MathExpression); !ok {
		t.Fatalf("expected right operand to be the tighter multiply, got %T", add.Right)
	}
}

func TestUnaryBindsTighterThanMultiply(t *testing.T) {
	sel := mustParse(t, "SELECT -1 * 2 FROM t").(*ast.SimpleSelect)
	expr := sel.Projections[0].(*ast.ExpressionProjection).Expr
	mul, ok := expr.(*ast.MathExpression)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("expected top-level multiply, got %T", expr)
	}
	if _, ok := mul.Left.(*ast.UnaryMathExpression); !ok {
		t.Fatalf("expected left operand to be the unary minus, got %T", mul.Left)
	}
}

func TestBetweenBoundsExcludeAnd(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a BETWEEN 1 AND 2").(*ast.SimpleSelect)
	b, ok := sel.Where.(*ast.IsBetweenExpression)
	if !ok {
		t.Fatalf("expected *IsBetweenExpression, got %T", sel.Where)
	}
	if _, ok := b.Low.(*ast.LiteralExpression); !ok {
		t.Fatalf("expected literal low bound, got %T", b.Low)
	}
}

func TestNotBetween(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a NOT BETWEEN 1 AND 2").(*ast.SimpleSelect)
	b := sel.Where.(*ast.IsBetweenExpression)
	if !b.Negated {
		t.Fatal("expected negated")
	}
}

func TestBetweenThenIsChain(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a BETWEEN 1 AND 10 IS NOT NULL").(*ast.SimpleSelect)
	is, ok := sel.Where.(*ast.IsExpression)
	if !ok {
		t.Fatalf("expected *IsExpression, got %T", sel.Where)
	}
	if !is.Negated {
		t.Fatal("expected negated IS")
	}
	if _, ok := is.Expr.(*ast.IsBetweenExpression); !ok {
		t.Fatalf("expected *IsBetweenExpression as IS operand, got %T", is.Expr)
	}
}

func TestBetweenThenInChain(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a BETWEEN 1 AND 10 IN (5, 6)").(*ast.SimpleSelect)
	in, ok := sel.Where.(*ast.IsInExpression)
	if !ok {
		t.Fatalf("expected *IsInExpression, got %T", sel.Where)
	}
	if _, ok := in.Value.(*ast.IsBetweenExpression); !ok {
		t.Fatalf("expected *IsBetweenExpression as IN operand, got %T", in.Value)
	}
}

func TestRangePlaceholder(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a BETWEEN ?[lo:integer)").(*ast.SimpleSelect)
	b0, ok := sel.Where.(*ast.IsBetweenExpression0)
	if !ok {
		t.Fatalf("expected *IsBetweenExpression0, got %T", sel.Where)
	}
	if b0.Placeholder.Name == nil || *b0.Placeholder.Name != "lo" {
		t.Fatalf("got placeholder name %v", b0.Placeholder.Name)
	}
	if b0.Placeholder.TypeHint == nil || *b0.Placeholder.TypeHint != ast.TypeInteger {
		t.Fatalf("got placeholder type %v", b0.Placeholder.TypeHint)
	}
}

func TestSetPlaceholder(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a IN ?{ids}").(*ast.SimpleSelect)
	in0, ok := sel.Where.(*ast.IsInExpression0)
	if !ok {
		t.Fatalf("expected *IsInExpression0, got %T", sel.Where)
	}
	if in0.Placeholder.Name == nil || *in0.Placeholder.Name != "ids" {
		t.Fatalf("got placeholder name %v", in0.Placeholder.Name)
	}
}

func TestPlainPlaceholderInInList(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a IN (?, ?)").(*ast.SimpleSelect)
	in, ok := sel.Where.(*ast.IsInExpression)
	if !ok {
		t.Fatalf("expected *IsInExpression, got %T", sel.Where)
	}
	if len(in.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(in.Values))
	}
	if _, ok := in.Values[0].(*ast.ExpressionPlaceholder); !ok {
		t.Fatalf("expected *ExpressionPlaceholder, got %T", in.Values[0])
	}
}

func TestIsNotNull(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE a IS NOT NULL").(*ast.SimpleSelect)
	is, ok := sel.Where.(*ast.IsExpression)
	if !ok {
		t.Fatalf("expected *IsExpression, got %T", sel.Where)
	}
	if !is.Negated {
		t.Fatal("expected negated")
	}
	if _, ok := is.Literal.(ast.NullLiteral); !ok {
		t.Fatalf("expected NullLiteral, got %T", is.Literal)
	}
}

func TestNotBindsLooserThanComparatorTighterThanAnd(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE NOT a = 1 AND b = 2").(*ast.SimpleSelect)
	and, ok := sel.Where.(*ast.AndExpression)
	if !ok {
		t.Fatalf("expected top-level *AndExpression, got %T", sel.Where)
	}
	if _, ok := and.Left.(*ast.NotExpression); !ok {
		t.Fatalf("expected left operand to be NOT, got %T", and.Left)
	}
}

func TestExistsSubquery(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t WHERE EXISTS (SELECT 1 FROM u)").(*ast.SimpleSelect)
	if _, ok := sel.Where.(*ast.ExistsExpression); !ok {
		t.Fatalf("expected *ExistsExpression, got %T", sel.Where)
	}
}

func TestParenVsSubselectDisambiguation(t *testing.T) {
	sel := mustParse(t, "SELECT (1 + 2) FROM t").(*ast.SimpleSelect)
	expr := sel.Projections[0].(*ast.ExpressionProjection).Expr
	if _, ok := expr.(*ast.ParenthesedExpression); !ok {
		t.Fatalf("expected *ParenthesedExpression, got %T", expr)
	}

	sel2 := mustParse(t, "SELECT (SELECT 1) FROM t").(*ast.SimpleSelect)
	expr2 := sel2.Projections[0].(*ast.ExpressionProjection).Expr
	if _, ok := expr2.(*ast.SubSelectExpression); !ok {
		t.Fatalf("expected *SubSelectExpression, got %T", expr2)
	}
}

func TestFunctionCallOnReservedWord(t *testing.T) {
	sel := mustParse(t, "SELECT COUNT(DISTINCT x) FROM t").(*ast.SimpleSelect)
	expr := sel.Projections[0].(*ast.ExpressionProjection).Expr
	fn, ok := expr.(*ast.FunctionCallExpression)
	if !ok {
		t.Fatalf("expected *FunctionCallExpression, got %T", expr)
	}
	if fn.Name != "count" {
		t.Fatalf("got name %q", fn.Name)
	}
	if fn.DistinctQ == nil || *fn.DistinctQ != ast.Distinct {
		t.Fatalf("expected DISTINCT quantifier, got %v", fn.DistinctQ)
	}
	if len(fn.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(fn.Args))
	}
}

func TestFunctionCallEmptyArgs(t *testing.T) {
	sel := mustParse(t, "SELECT now() FROM t").(*ast.SimpleSelect)
	expr := sel.Projections[0].(*ast.ExpressionProjection).Expr
	fn, ok := expr.(*ast.FunctionCallExpression)
	if !ok {
		t.Fatalf("expected *FunctionCallExpression, got %T", expr)
	}
	if len(fn.Args) != 0 {
		t.Fatalf("expected 0 args, got %d", len(fn.Args))
	}
}

func TestCastExpression(t *testing.T) {
	sel := mustParse(t, "SELECT CAST(a AS integer) FROM t").(*ast.SimpleSelect)
	expr := sel.Projections[0].(*ast.ExpressionProjection).Expr
	cast, ok := expr.(*ast.CastExpression)
	if !ok {
		t.Fatalf("expected *CastExpression, got %T", expr)
	}
	if cast.Type != ast.TypeInteger {
		t.Fatalf("got type %v", cast.Type)
	}
}

func TestCaseWhenSearchedForm(t *testing.T) {
	sel := mustParse(t, "SELECT CASE WHEN a > 0 THEN 'pos' ELSE 'neg' END FROM t").(*ast.SimpleSelect)
	expr := sel.Projections[0].(*ast.ExpressionProjection).Expr
	cw, ok := expr.(*ast.CaseWhenExpression)
	if !ok {
		t.Fatalf("expected *CaseWhenExpression, got %T", expr)
	}
	if cw.Scrutinee != nil {
		t.Fatalf("expected searched form (nil scrutinee), got %v", cw.Scrutinee)
	}
	if len(cw.Cases) != 1 || cw.Else == nil {
		t.Fatalf("got cases=%d else=%v", len(cw.Cases), cw.Else)
	}
}

func TestGroupingSetsRollupCube(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t GROUP BY GROUPING SETS ((a), (b, c), ())").(*ast.SimpleSelect)
	gs, ok := sel.GroupBy[0].(ast.GroupByGroupingSets)
	if !ok {
		t.Fatalf("expected GroupByGroupingSets, got %T", sel.GroupBy[0])
	}
	if len(gs.Sets) != 3 {
		t.Fatalf("expected 3 sets, got %d", len(gs.Sets))
	}
	if len(gs.Sets[2].Exprs) != 0 {
		t.Fatalf("expected empty grouping set, got %d exprs", len(gs.Sets[2].Exprs))
	}

	sel2 := mustParse(t, "SELECT a FROM t GROUP BY ROLLUP(a, (b, c))").(*ast.SimpleSelect)
	rollup := sel2.GroupBy[0].(ast.GroupByRollup)
	if len(rollup.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(rollup.Items))
	}
	if rollup.Items[0].Expr == nil || rollup.Items[0].Set != nil {
		t.Fatalf("expected item 0 to be a bare expression")
	}
	if rollup.Items[1].Set == nil || rollup.Items[1].Expr != nil {
		t.Fatalf("expected item 1 to be a grouping set")
	}
}

func TestOrderByDefaultsUnspecified(t *testing.T) {
	sel := mustParse(t, "SELECT a FROM t ORDER BY a, b DESC").(*ast.SimpleSelect)
	if sel.OrderBy[0].Order != nil {
		t.Fatalf("expected unspecified order, got %v", sel.OrderBy[0].Order)
	}
	if sel.OrderBy[1].Order == nil || *sel.OrderBy[1].Order != ast.SortDESC {
		t.Fatalf("got %v", sel.OrderBy[1].Order)
	}
}

func TestMissingProjectionError(t *testing.T) {
	pe := mustFail(t, "SELECT FROM t")
	if pe.Message != "*, table or expression expected" {
		t.Fatalf("got message %q", pe.Message)
	}
	if pe.Offset != 7 {
		t.Fatalf("got offset %d", pe.Offset)
	}
}

func TestMissingFromTargetError(t *testing.T) {
	pe := mustFail(t, "SELECT a FROM")
	if pe.Message != "table, join or subselect expected" {
		t.Fatalf("got message %q", pe.Message)
	}
}

func TestTrailingContentErrorIsRemapped(t *testing.T) {
	pe := mustFail(t, "SELECT a FROM t WHERE b ORDER BY a GROUP BY a")
	if pe.Message != "end of statement expected" {
		t.Fatalf("got message %q", pe.Message)
	}
}

func TestOptionalTrailingSemicolon(t *testing.T) {
	mustParse(t, "SELECT a FROM t;")
}
