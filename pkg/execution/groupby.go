package execution

import (
	"fmt"
	"strings"

	"relcore/pkg/dberr"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/expr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// AggregateSpec pairs one aggregate function with the child expression
// it accumulates (nil child for COUNT(*), already rewritten to the
// constant 1 by the binder per spec §4.3, so in practice always set).
type AggregateSpec struct {
	Function aggregation.Func
	Child    expr.Expr
}

// GroupBy consumes its child to EOF, partitions rows by the group key
// tuple's structural value equality, streams one accumulator per
// aggregate per group, and emits one row per distinct group in
// first-seen order: group key cells followed by aggregate finals (spec
// §4.7 GroupBy). With no group expressions but at least one aggregate,
// a single implicit group covers the whole input, emitting the
// zero-row defaults (Null for SUM/AVG/MAX/MIN, 0 for COUNT) when the
// child produced no rows at all.
type GroupBy struct {
	child      Operator
	groupExprs []expr.Expr
	aggSpecs   []AggregateSpec

	rows    []tuple.Tuple
	pos     int
	drained bool
}

// NewGroupBy builds a GroupBy above child.
func NewGroupBy(child Operator, groupExprs []expr.Expr, aggSpecs []AggregateSpec) *GroupBy {
	return &GroupBy{child: child, groupExprs: groupExprs, aggSpecs: aggSpecs}
}

func (g *GroupBy) Open(txID int64) error {
	g.rows = nil
	g.pos = 0
	g.drained = false
	return g.child.Open(txID)
}

type groupState struct {
	keyValues []types.Value
	accs      []aggregation.Accumulator
}

func (g *GroupBy) drain() error {
	groups := make(map[string]*groupState)
	var order []string
	sawAnyRow := false

	for {
		row, err := g.child.Next()
		if dberr.IsEOF(err) {
			break
		}
		if err != nil {
			return err
		}
		sawAnyRow = true

		keyValues := make([]types.Value, len(g.groupExprs))
		for i, ge := range g.groupExprs {
			v, err := ge.EvalRow(row)
			if err != nil {
				return err
			}
			keyValues[i] = v
		}
		key := groupKey(keyValues)

		st, ok := groups[key]
		if !ok {
			st = &groupState{keyValues: keyValues, accs: make([]aggregation.Accumulator, len(g.aggSpecs))}
			for i, spec := range g.aggSpecs {
				st.accs[i] = aggregation.NewAccumulator(spec.Function)
			}
			groups[key] = st
			order = append(order, key)
		}

		for i, spec := range g.aggSpecs {
			var v types.Value
			if spec.Child == nil {
				v = types.NewInt(1)
			} else {
				v, err = spec.Child.EvalRow(row)
				if err != nil {
					return err
				}
			}
			if err := st.accs[i].Accumulate(v); err != nil {
				return err
			}
		}
	}

	if !sawAnyRow && len(g.groupExprs) == 0 && len(g.aggSpecs) > 0 {
		st := &groupState{accs: make([]aggregation.Accumulator, len(g.aggSpecs))}
		for i, spec := range g.aggSpecs {
			st.accs[i] = aggregation.NewAccumulator(spec.Function)
		}
		groups[""] = st
		order = append(order, "")
	}

	g.rows = make([]tuple.Tuple, 0, len(order))
	for _, key := range order {
		st := groups[key]
		values := make([]types.Value, 0, len(st.keyValues)+len(st.accs))
		values = append(values, st.keyValues...)
		for _, acc := range st.accs {
			values = append(values, acc.Final())
		}
		g.rows = append(g.rows, tuple.NewValueListTuple(values))
	}
	return nil
}

// groupKey builds a comparable string key from a group's values. Chars
// values are length-prefixed so no field's content can create a
// collision across the join of fields.
func groupKey(values []types.Value) string {
	var b strings.Builder
	for _, v := range values {
		s := v.String()
		fmt.Fprintf(&b, "%d:%d:%s|", v.Kind(), len(s), s)
	}
	return b.String()
}

func (g *GroupBy) Next() (tuple.Tuple, error) {
	if !g.drained {
		if err := g.drain(); err != nil {
			return nil, err
		}
		g.drained = true
	}
	if g.pos >= len(g.rows) {
		return nil, dberr.ErrRecordEOF
	}
	row := g.rows[g.pos]
	g.pos++
	return row, nil
}

func (g *GroupBy) Close() error {
	return g.child.Close()
}
