package execution

import (
	"relcore/pkg/dberr"
	"relcore/pkg/expr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Calc evaluates a flat list of expressions once against an EmptyTuple
// and emits exactly one row, for statements with no FROM clause (e.g.
// `SELECT LENGTH('abc')` routes through Project with a nil child
// instead; Calc is the bare `CALC expr, expr, ...` statement form).
type Calc struct {
	exprs    []expr.Expr
	names    []string
	emitted  bool
}

// NewCalc builds a Calc over exprs, each displayed under names[i].
func NewCalc(exprs []expr.Expr, names []string) *Calc {
	return &Calc{exprs: exprs, names: names}
}

func (c *Calc) Open(int64) error {
	c.emitted = false
	return nil
}

func (c *Calc) Next() (tuple.Tuple, error) {
	if c.emitted {
		return nil, dberr.ErrRecordEOF
	}
	c.emitted = true

	values := make([]types.Value, len(c.exprs))
	for i, e := range c.exprs {
		v, err := e.EvalRow(tuple.EmptyTuple{})
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return tuple.NewProjectTuple(values, c.names, ""), nil
}

func (c *Calc) Close() error { return nil }
