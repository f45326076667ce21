// Package ast defines the tagged-variant AST produced by the parser: a
// Select statement (possibly a UNION chain), its projections, relations,
// and the fourteen-level expression grammar's result type.
package ast

// Node is implemented by every AST node. Pos is the character offset in the
// original source at which the node's first token begins.
type Node interface {
	Pos() int32
}

// Select is the sole Statement shape: either a SimpleSelect or a
// left-associated chain of UnionSelect.
type Select interface {
	Node
	selectNode()
}

// SetQuantifier is the DISTINCT/ALL modifier on SELECT, UNION, or an
// aggregate function's argument list.
type SetQuantifier uint8

const (
	Distinct SetQuantifier = iota
	All
)

// SimpleSelect is a single (non-UNION) SELECT.
type SimpleSelect struct {
	DistinctQ   *SetQuantifier
	Projections []Projection // non-empty
	Relations   []Relation
	Where       Expression // nil if absent
	GroupBy     []Group
	OrderBy     []SortExpression
	TokPos      int32
}

func (n *SimpleSelect) Pos() int32 { return n.TokPos }
func (*SimpleSelect) selectNode()  {}

// UnionSelect chains two selects with an optional DISTINCT/ALL quantifier.
// Left-associative: "a UNION b UNION c" is UnionSelect{UnionSelect{a,b}, c}.
type UnionSelect struct {
	Left       Select
	Quantifier *SetQuantifier
	Right      Select
	TokPos     int32
}

func (n *UnionSelect) Pos() int32 { return n.TokPos }
func (*UnionSelect) selectNode()  {}

// ---- Projections ----

// Projection is one item of a SELECT list.
type Projection interface {
	Node
	projectionNode()
}

// AllColumns is the bare "*".
type AllColumns struct{ TokPos int32 }

func (n *AllColumns) Pos() int32    { return n.TokPos }
func (*AllColumns) projectionNode() {}

// AllTableColumns is "t.*" or "s.t.*".
type AllTableColumns struct {
	Table  TableIdent
	TokPos int32
}

func (n *AllTableColumns) Pos() int32    { return n.TokPos }
func (*AllTableColumns) projectionNode() {}

// ExpressionProjection is an expression with an optional alias.
type ExpressionProjection struct {
	Expr   Expression
	Alias  *string
	TokPos int32
}

func (n *ExpressionProjection) Pos() int32    { return n.TokPos }
func (*ExpressionProjection) projectionNode() {}

// ---- Idents ----

// TableIdent is an optionally schema-qualified table name.
type TableIdent struct {
	Name   string
	Schema *string
}

// ColumnIdent is an optionally table-qualified column name.
type ColumnIdent struct {
	Name  string
	Table *TableIdent
}

// ---- Relations ----

// JoinKind distinguishes the three join flavors this dialect supports.
type JoinKind uint8

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
)

// Relation is one item of a FROM clause, or an operand of a JoinRelation.
type Relation interface {
	Node
	relationNode()
}

// SingleTableRelation is a bare table reference with an optional alias.
type SingleTableRelation struct {
	Table  TableIdent
	Alias  *string
	TokPos int32
}

func (n *SingleTableRelation) Pos() int32  { return n.TokPos }
func (*SingleTableRelation) relationNode() {}

// SubSelectRelation is "( select ) alias" — the alias is mandatory.
type SubSelectRelation struct {
	Select Select
	Alias  string
	TokPos int32
}

func (n *SubSelectRelation) Pos() int32  { return n.TokPos }
func (*SubSelectRelation) relationNode() {}

// JoinRelation is a left-associative join chain.
type JoinRelation struct {
	Left   Relation
	Kind   JoinKind
	Right  Relation
	On     Expression // nil if absent
	TokPos int32
}

func (n *JoinRelation) Pos() int32  { return n.TokPos }
func (*JoinRelation) relationNode() {}

// ---- Grouping ----

// Group is one item of a GROUP BY clause.
type Group interface {
	groupNode()
}

// GroupingSet is a parenthesized (possibly empty) list of expressions used
// by GROUPING SETS, ROLLUP, and CUBE.
type GroupingSet struct {
	Exprs []Expression
}

// GroupItem models the Either<Expression, GroupingSet> used inside
// ROLLUP/CUBE: exactly one of Expr or Set is populated.
type GroupItem struct {
	Expr Expression
	Set  *GroupingSet
}

type GroupByExpression struct{ Expr Expression }

func (GroupByExpression) groupNode() {}

type GroupByGroupingSets struct{ Sets []GroupingSet }

func (GroupByGroupingSets) groupNode() {}

type GroupByRollup struct{ Items []GroupItem }

func (GroupByRollup) groupNode() {}

type GroupByCube struct{ Items []GroupItem }

func (GroupByCube) groupNode() {}

// ---- Ordering ----

type SortOrder uint8

const (
	SortASC SortOrder = iota
	SortDESC
)

// SortExpression is one key of an ORDER BY clause.
type SortExpression struct {
	Expr  Expression
	Order *SortOrder // nil means unspecified (defaults to ascending)
}
