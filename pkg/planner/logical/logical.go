// Package logical builds the logical operator tree a statement implies
// (spec §4.5): a left-deep TableGet/Join chain, Predicate, GroupBy and
// Project stacked above it. It performs no physical decisions (scan
// mode aside, which is just a tag carried for the physical planner to
// read) and no cost-based choices — there is nothing to choose between.
package logical

import (
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/expr"
	"relcore/pkg/stmt"
)

// Kind tags which logical-plan alternative a node is.
type Kind int

const (
	KindTableGet Kind = iota
	KindJoin
	KindPredicate
	KindGroupBy
	KindProject
	KindInsert
	KindDelete
	KindUpdate
	KindExplain
	KindCalc
)

// Plan is the shared interface every logical-plan node implements.
// EstimatedRows is a single best-effort static count (spec.md's
// cost-based-optimization non-goal stays intact; this is descriptive
// only, used by EXPLAIN).
type Plan interface {
	Kind() Kind
	Children() []Plan
	EstimatedRows() int
}

// TableGet is a logical leaf scanning one table under a lock mode.
type TableGet struct {
	Table     catalog.Table
	TableName string
	Alias     string
	Mode      catalog.ScanMode
	RowEst    int
}

func (p *TableGet) Kind() Kind         { return KindTableGet }
func (p *TableGet) Children() []Plan   { return nil }
func (p *TableGet) EstimatedRows() int { return p.RowEst }

// Join is a left-deep binary join; no predicate is embedded here, per
// spec — join predicates surface as a Predicate above the join chain.
type Join struct {
	Left, Right Plan
}

func (p *Join) Kind() Kind       { return KindJoin }
func (p *Join) Children() []Plan { return []Plan{p.Left, p.Right} }
func (p *Join) EstimatedRows() int {
	return p.Left.EstimatedRows() * p.Right.EstimatedRows()
}

// Predicate filters its child by a bound boolean expression.
type Predicate struct {
	Child Plan
	Expr  expr.Expr
}

func (p *Predicate) Kind() Kind         { return KindPredicate }
func (p *Predicate) Children() []Plan   { return []Plan{p.Child} }
func (p *Predicate) EstimatedRows() int { return p.Child.EstimatedRows() }

// GroupBySpec pairs an aggregate function with its (already bound)
// argument expression, for the physical planner's accumulator lineup.
type GroupBySpec struct {
	Function aggregation.Func
	Child    expr.Expr
}

// GroupBy partitions its child's rows by GroupExprs and streams one
// accumulator per AggSpecs entry per group.
type GroupBy struct {
	Child      Plan
	GroupExprs []expr.Expr
	AggSpecs   []GroupBySpec
}

func (p *GroupBy) Kind() Kind         { return KindGroupBy }
func (p *GroupBy) Children() []Plan   { return []Plan{p.Child} }
func (p *GroupBy) EstimatedRows() int { return p.Child.EstimatedRows() }

// Project evaluates Exprs against its child (or, with a nil Child,
// against an empty tuple exactly once).
type Project struct {
	Child Plan
	Exprs []expr.Expr
	Names []string
	Alias string
}

func (p *Project) Kind() Kind { return KindProject }
func (p *Project) Children() []Plan {
	if p.Child == nil {
		return nil
	}
	return []Plan{p.Child}
}
func (p *Project) EstimatedRows() int {
	if p.Child == nil {
		return 1
	}
	return p.Child.EstimatedRows()
}

// Insert builds a record from a fixed typed value list.
type Insert struct {
	Table  catalog.Table
	Values []ExprOrValue
}

// ExprOrValue is one INSERT value: already cast to the target field's
// type during statement binding, so the physical planner only has to
// evaluate it once against an empty tuple.
type ExprOrValue struct {
	Field *catalog.FieldMeta
	Expr  expr.Expr
}

func (p *Insert) Kind() Kind         { return KindInsert }
func (p *Insert) Children() []Plan   { return nil }
func (p *Insert) EstimatedRows() int { return 1 }

// Delete is TableGet(READ_WRITE) under an optional Predicate under a
// Delete operator.
type Delete struct {
	Child Plan
	Table catalog.Table
}

func (p *Delete) Kind() Kind         { return KindDelete }
func (p *Delete) Children() []Plan   { return []Plan{p.Child} }
func (p *Delete) EstimatedRows() int { return p.Child.EstimatedRows() }

// UpdateAssignment pairs a target field with its (bound) new-value
// expression.
type UpdateAssignment struct {
	Field *catalog.FieldMeta
	Value expr.Expr
}

// Update is TableGet(READ_WRITE) under an optional Predicate under an
// Update operator.
type Update struct {
	Child       Plan
	Table       catalog.Table
	Assignments []UpdateAssignment
}

func (p *Update) Kind() Kind         { return KindUpdate }
func (p *Update) Children() []Plan   { return []Plan{p.Child} }
func (p *Update) EstimatedRows() int { return p.Child.EstimatedRows() }

// Explain wraps a child plan purely for static description; it never
// executes the child.
type Explain struct {
	Child Plan
}

func (p *Explain) Kind() Kind         { return KindExplain }
func (p *Explain) Children() []Plan   { return []Plan{p.Child} }
func (p *Explain) EstimatedRows() int { return 1 }

// Calc evaluates a flat expression list once against an empty tuple.
type Calc struct {
	Exprs []expr.Expr
	Names []string
}

func (p *Calc) Kind() Kind         { return KindCalc }
func (p *Calc) Children() []Plan   { return nil }
func (p *Calc) EstimatedRows() int { return 1 }

// Build turns a bound statement into its logical plan.
func Build(s stmt.Stmt) (Plan, error) {
	switch n := s.(type) {
	case *stmt.SelectStmt:
		return buildSelect(n)
	case *stmt.InsertStmt:
		return buildInsert(n)
	case *stmt.UpdateStmt:
		return buildUpdate(n)
	case *stmt.DeleteStmt:
		return buildDelete(n)
	case *stmt.ExplainStmt:
		child, err := Build(n.Child)
		if err != nil {
			return nil, err
		}
		return &Explain{Child: child}, nil
	case *stmt.CalcStmt:
		return &Calc{Exprs: n.Exprs, Names: n.Names}, nil
	default:
		return nil, dberr.New(dberr.Internal, dberr.CategoryInternal, "unknown statement kind")
	}
}

func buildSelect(s *stmt.SelectStmt) (Plan, error) {
	if len(s.Tables) == 0 {
		return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "SELECT requires at least one table")
	}

	var plan Plan = &TableGet{
		Table:     s.Tables[0],
		TableName: s.TableNames[0],
		Alias:     s.TableAliases[0],
		Mode:      catalog.ReadOnly,
		RowEst:    100,
	}
	for i := 1; i < len(s.Tables); i++ {
		right := &TableGet{
			Table:     s.Tables[i],
			TableName: s.TableNames[i],
			Alias:     s.TableAliases[i],
			Mode:      catalog.ReadOnly,
			RowEst:    100,
		}
		plan = &Join{Left: plan, Right: right}
	}

	if s.FilterExpr != nil {
		plan = &Predicate{Child: plan, Expr: s.FilterExpr}
	}

	if len(s.GroupByExprs) > 0 || hasAggregation(s.QueryExprs) {
		gb, err := buildGroupBy(plan, s)
		if err != nil {
			return nil, err
		}
		plan = gb
	}

	return &Project{Child: plan, Exprs: s.QueryExprs, Names: s.QueryNames}, nil
}

func hasAggregation(exprs []expr.Expr) bool {
	for _, e := range exprs {
		if containsAggregation(e) {
			return true
		}
	}
	return false
}

func containsAggregation(e expr.Expr) bool {
	if e == nil {
		return false
	}
	if e.Kind() == expr.KindAggregation {
		return true
	}
	switch n := e.(type) {
	case *expr.CastExpr:
		return containsAggregation(n.Child())
	case *expr.ArithmeticExpr:
		return containsAggregation(n.Left()) || containsAggregation(n.Right())
	case *expr.ComparisonExpr:
		return containsAggregation(n.Left()) || containsAggregation(n.Right())
	case *expr.ConjunctionExpr:
		for _, c := range n.Children() {
			if containsAggregation(c) {
				return true
			}
		}
		return false
	case *expr.IsExpr:
		return containsAggregation(n.Left()) || containsAggregation(n.Right())
	case *expr.LikeExpr:
		return containsAggregation(n.Child()) || containsAggregation(n.Pattern())
	case *expr.SysFunctionExpr:
		for _, a := range n.Args() {
			if containsAggregation(a) {
				return true
			}
		}
		return false
	}
	return false
}

// buildGroupBy walks the select list, assigning each aggregate a pos
// (group_by.len() + aggregate_index) and binding each non-aggregate
// select expression to its matching group-by expression by structural
// equality, also setting pos. Any select expression that is neither ⇒
// argument error (spec §4.5).
func buildGroupBy(child Plan, s *stmt.SelectStmt) (*GroupBy, error) {
	gb := &GroupBy{Child: child, GroupExprs: s.GroupByExprs}

	for _, e := range s.QueryExprs {
		agg, ok := e.(*expr.AggregationExpr)
		if !ok {
			if pos, found := matchGroupExpr(s.GroupByExprs, e); found {
				e.Header().Pos = pos
				continue
			}
			return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser,
				"select expression is neither an aggregate nor a group-by expression")
		}
		pos := len(s.GroupByExprs) + len(gb.AggSpecs)
		agg.Header().Pos = pos
		gb.AggSpecs = append(gb.AggSpecs, GroupBySpec{Function: aggFuncToAccumulator(agg.Function()), Child: agg.Child()})
	}
	return gb, nil
}

func matchGroupExpr(groupExprs []expr.Expr, e expr.Expr) (int, bool) {
	for i, g := range groupExprs {
		if structurallyEqual(g, e) {
			return i, true
		}
	}
	return 0, false
}

// structurallyEqual compares two bound expressions by shape rather than
// by identity, so `SELECT a.x` matches a `GROUP BY a.x` built from a
// separately-bound copy of the same field reference.
func structurallyEqual(a, b expr.Expr) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	fa, aok := a.(*expr.FieldExpr)
	fb, bok := b.(*expr.FieldExpr)
	if aok && bok {
		return fa.TableName() == fb.TableName() && fa.Header().Name == fb.Header().Name
	}
	return a.Header().Name == b.Header().Name
}

func aggFuncToAccumulator(f expr.AggFunc) aggregation.Func {
	switch f {
	case expr.AggCount:
		return aggregation.Count
	case expr.AggSum:
		return aggregation.Sum
	case expr.AggAvg:
		return aggregation.Avg
	case expr.AggMax:
		return aggregation.Max
	case expr.AggMin:
		return aggregation.Min
	default:
		return aggregation.Count
	}
}

func buildInsert(s *stmt.InsertStmt) (Plan, error) {
	values := make([]ExprOrValue, len(s.Values))
	for i, v := range s.Values {
		values[i] = ExprOrValue{Field: v.Field, Expr: expr.NewValueExpr(v.Value)}
	}
	return &Insert{Table: s.Table, Values: values}, nil
}

func buildUpdate(s *stmt.UpdateStmt) (Plan, error) {
	var plan Plan = &TableGet{Table: s.Table, TableName: s.TableName, Mode: catalog.ReadWrite, RowEst: 100}
	if s.FilterExpr != nil {
		plan = &Predicate{Child: plan, Expr: s.FilterExpr}
	}
	assignments := make([]UpdateAssignment, len(s.Assignments))
	for i, a := range s.Assignments {
		assignments[i] = UpdateAssignment{Field: a.Field, Value: a.Value}
	}
	return &Update{Child: plan, Table: s.Table, Assignments: assignments}, nil
}

func buildDelete(s *stmt.DeleteStmt) (Plan, error) {
	var plan Plan = &TableGet{Table: s.Table, TableName: s.TableName, Mode: catalog.ReadWrite, RowEst: 100}
	if s.FilterExpr != nil {
		plan = &Predicate{Child: plan, Expr: s.FilterExpr}
	}
	return &Delete{Child: plan, Table: s.Table}, nil
}

// BuildSubquery recursively plans a correlated or uncorrelated subquery
// statement, for attachment to a SubqueryExpr (spec §4.5 "Subqueries
// inside comparisons").
func BuildSubquery(s *stmt.SelectStmt) (Plan, error) {
	return buildSelect(s)
}
