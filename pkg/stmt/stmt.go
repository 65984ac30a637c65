// Package stmt holds the bound statement forms the binder produces and
// the logical planner consumes (spec §4.4 Statement model).
package stmt

import (
	"relcore/pkg/catalog"
	"relcore/pkg/expr"
	"relcore/pkg/types"
)

// Stmt is the marker interface every bound statement form implements.
type Stmt interface {
	stmtMarker()
}

// SelectStmt is a bound SELECT: tables in FROM order, their aliases
// (empty string when a table has none), the projection list, an
// optional filter and an optional GROUP BY list.
type SelectStmt struct {
	Tables        []catalog.Table
	TableNames    []string
	TableAliases  []string
	QueryExprs    []expr.Expr
	QueryNames    []string
	FilterExpr    expr.Expr // nil if no WHERE
	GroupByExprs  []expr.Expr
}

func (*SelectStmt) stmtMarker() {}

// InsertStmt is a bound INSERT: the target table and one
// cast-and-validated value per field (see ValueFor).
type InsertStmt struct {
	Table  catalog.Table
	Values []ValueFor
}

// ValueFor carries an already-cast value for one non-system field, in
// field declaration order.
type ValueFor struct {
	Field *catalog.FieldMeta
	Value types.Value
}

func (*InsertStmt) stmtMarker() {}

// UpdateAssignment pairs one target field with the expression that
// computes its new value.
type UpdateAssignment struct {
	Field *catalog.FieldMeta
	Value expr.Expr
}

// UpdateStmt is a bound UPDATE: target table, one or more assignments,
// and an optional filter.
type UpdateStmt struct {
	Table       catalog.Table
	TableName   string
	Assignments []UpdateAssignment
	FilterExpr  expr.Expr
}

func (*UpdateStmt) stmtMarker() {}

// DeleteStmt is a bound DELETE: target table and optional filter.
type DeleteStmt struct {
	Table      catalog.Table
	TableName  string
	FilterExpr expr.Expr
}

func (*DeleteStmt) stmtMarker() {}

// ExplainStmt wraps any other bound statement, requesting a plan
// description instead of execution.
type ExplainStmt struct {
	Child Stmt
}

func (*ExplainStmt) stmtMarker() {}

// CalcStmt is a bare list of expressions evaluated with no FROM clause.
type CalcStmt struct {
	Exprs []expr.Expr
	Names []string
}

func (*CalcStmt) stmtMarker() {}
