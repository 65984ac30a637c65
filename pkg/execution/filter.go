package execution

import (
	"relcore/pkg/expr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Filter evaluates a predicate expression over the child's current
// tuple and drops rows it does not match; ordering is preserved.
type Filter struct {
	child     Operator
	predicate expr.Expr
	outer     tuple.Tuple
}

// NewFilter builds a Filter above child.
func NewFilter(child Operator, predicate expr.Expr) *Filter {
	return &Filter{child: child, predicate: predicate}
}

func (f *Filter) SetOuterTuple(outer tuple.Tuple) {
	f.outer = outer
	if oa, ok := f.child.(OuterAware); ok {
		oa.SetOuterTuple(outer)
	}
}

func (f *Filter) Open(txID int64) error { return f.child.Open(txID) }

func (f *Filter) Next() (tuple.Tuple, error) {
	for {
		row, err := f.child.Next()
		if err != nil {
			return nil, err
		}
		v, err := f.predicate.EvalRow(rowOrJoined(row, f.outer))
		if err != nil {
			return nil, err
		}
		if v.Kind() == types.KindBoolean && v.AsBool() {
			return row, nil
		}
	}
}

func (f *Filter) Close() error { return f.child.Close() }
