// Package physical translates a logical plan one-to-one into an
// execution operator tree (spec §4.6). The translation makes no
// decisions of its own beyond the ones spec.md calls out explicitly
// (scan-mode selection, subquery outer-tuple wiring); it exists purely
// to keep pkg/execution's operator types free of any planning concern.
package physical

import (
	"relcore/internal/explain"
	"relcore/pkg/dberr"
	"relcore/pkg/execution"
	"relcore/pkg/expr"
	"relcore/pkg/planner/logical"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// subqueryAdapter satisfies expr.SubqueryOperator by delegating to a
// plain execution.Operator, propagating SetOuterTuple through the
// OuterAware assertion before Open when the wrapped operator supports
// it (spec §4.6 "prepared for correlated execution").
type subqueryAdapter struct {
	op execution.Operator
}

func (a *subqueryAdapter) Open(txID int64, outer tuple.Tuple) error {
	if oa, ok := a.op.(execution.OuterAware); ok {
		oa.SetOuterTuple(outer)
	}
	return a.op.Open(txID)
}

func (a *subqueryAdapter) Next() (tuple.Tuple, error) { return a.op.Next() }
func (a *subqueryAdapter) Close() error               { return a.op.Close() }

// Build translates a logical plan into its physical operator. For any
// Subquery expression reachable from plan's own expressions that
// carries a logical.Plan in its LogicalPlan field, Build recursively
// builds the subquery's operator and wires it in via subqueryAdapter.
// logical.Build does not fill that field; the caller sets it (for
// example from logical.BuildSubquery). A Subquery without one is left
// without an operator.
func Build(plan logical.Plan) (execution.Operator, error) {
	switch p := plan.(type) {
	case *logical.TableGet:
		return buildTableGet(p)
	case *logical.Join:
		return buildJoin(p)
	case *logical.Predicate:
		return buildPredicate(p)
	case *logical.GroupBy:
		return buildGroupBy(p)
	case *logical.Project:
		return buildProject(p)
	case *logical.Insert:
		return buildInsert(p)
	case *logical.Delete:
		return buildDelete(p)
	case *logical.Update:
		return buildUpdate(p)
	case *logical.Explain:
		return buildExplain(p)
	case *logical.Calc:
		return buildCalc(p)
	default:
		return nil, dberr.New(dberr.Internal, dberr.CategoryInternal, "unknown logical plan node")
	}
}

func buildTableGet(p *logical.TableGet) (execution.Operator, error) {
	return execution.NewTableScan(p.Table, p.TableName, p.Alias, p.Mode, nil), nil
}

func buildJoin(p *logical.Join) (execution.Operator, error) {
	left, err := Build(p.Left)
	if err != nil {
		return nil, err
	}
	right, err := Build(p.Right)
	if err != nil {
		return nil, err
	}
	return execution.NewJoin(left, right), nil
}

func buildPredicate(p *logical.Predicate) (execution.Operator, error) {
	child, err := Build(p.Child)
	if err != nil {
		return nil, err
	}
	if err := wireSubqueriesIn(p.Expr); err != nil {
		return nil, err
	}
	return execution.NewFilter(child, p.Expr), nil
}

func buildGroupBy(p *logical.GroupBy) (execution.Operator, error) {
	child, err := Build(p.Child)
	if err != nil {
		return nil, err
	}
	specs := make([]execution.AggregateSpec, len(p.AggSpecs))
	for i, s := range p.AggSpecs {
		specs[i] = execution.AggregateSpec{Function: s.Function, Child: s.Child}
	}
	return execution.NewGroupBy(child, p.GroupExprs, specs), nil
}

func buildProject(p *logical.Project) (execution.Operator, error) {
	var child execution.Operator
	if p.Child != nil {
		var err error
		child, err = Build(p.Child)
		if err != nil {
			return nil, err
		}
	}
	for _, e := range p.Exprs {
		if err := wireSubqueriesIn(e); err != nil {
			return nil, err
		}
	}
	return execution.NewProject(child, p.Exprs, p.Names, p.Alias), nil
}

func buildInsert(p *logical.Insert) (execution.Operator, error) {
	values := make([]types.Value, len(p.Values))
	for i, v := range p.Values {
		val, err := v.Expr.EvalRow(tuple.EmptyTuple{})
		if err != nil {
			return nil, err
		}
		values[i] = val
	}
	return execution.NewInsert(p.Table, values), nil
}

func buildDelete(p *logical.Delete) (execution.Operator, error) {
	child, err := Build(p.Child)
	if err != nil {
		return nil, err
	}
	return execution.NewDelete(child, p.Table), nil
}

func buildUpdate(p *logical.Update) (execution.Operator, error) {
	child, err := Build(p.Child)
	if err != nil {
		return nil, err
	}
	assignments := make([]execution.UpdateAssignment, len(p.Assignments))
	for i, a := range p.Assignments {
		if err := wireSubqueriesIn(a.Value); err != nil {
			return nil, err
		}
		assignments[i] = execution.UpdateAssignment{Field: a.Field, Value: a.Value}
	}
	return execution.NewUpdate(child, p.Table, assignments), nil
}

func buildExplain(p *logical.Explain) (execution.Operator, error) {
	text := explain.Render(p.Child, 0)
	return execution.NewExplain(text), nil
}

func buildCalc(p *logical.Calc) (execution.Operator, error) {
	for _, e := range p.Exprs {
		if err := wireSubqueriesIn(e); err != nil {
			return nil, err
		}
	}
	return execution.NewCalc(p.Exprs, p.Names), nil
}

// wireSubqueriesIn walks e's tree for SubqueryExpr nodes and, for each
// one whose LogicalPlan field carries a logical.Plan (set by the caller;
// logical.Build does not set it), builds the inner physical operator
// and attaches it via subqueryAdapter.
func wireSubqueriesIn(e expr.Expr) error {
	if e == nil {
		return nil
	}
	if subq, ok := e.(*expr.SubqueryExpr); ok {
		if subq.Operator != nil {
			return nil
		}
		inner, ok := subq.LogicalPlan.(logical.Plan)
		if !ok || inner == nil {
			return nil
		}
		op, err := Build(inner)
		if err != nil {
			return err
		}
		subq.Operator = &subqueryAdapter{op: op}
		return nil
	}

	switch n := e.(type) {
	case *expr.CastExpr:
		return wireSubqueriesIn(n.Child())
	case *expr.ArithmeticExpr:
		if err := wireSubqueriesIn(n.Left()); err != nil {
			return err
		}
		return wireSubqueriesIn(n.Right())
	case *expr.ComparisonExpr:
		if err := wireSubqueriesIn(n.Left()); err != nil {
			return err
		}
		return wireSubqueriesIn(n.Right())
	case *expr.ConjunctionExpr:
		for _, c := range n.Children() {
			if err := wireSubqueriesIn(c); err != nil {
				return err
			}
		}
		return nil
	case *expr.IsExpr:
		if err := wireSubqueriesIn(n.Left()); err != nil {
			return err
		}
		return wireSubqueriesIn(n.Right())
	case *expr.LikeExpr:
		if err := wireSubqueriesIn(n.Child()); err != nil {
			return err
		}
		return wireSubqueriesIn(n.Pattern())
	case *expr.SysFunctionExpr:
		for _, a := range n.Args() {
			if err := wireSubqueriesIn(a); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
