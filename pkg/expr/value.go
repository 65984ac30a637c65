package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// ValueExpr is a constant. EvalRow always succeeds.
type ValueExpr struct {
	header Header
	value  types.Value
}

// NewValueExpr builds a constant expression node.
func NewValueExpr(v types.Value) *ValueExpr {
	return &ValueExpr{header: NewHeader(v.String()), value: v}
}

func (e *ValueExpr) Kind() Kind          { return KindValue }
func (e *ValueExpr) Header() *Header     { return &e.header }
func (e *ValueExpr) ValueType() types.Kind { return e.value.Kind() }
func (e *ValueExpr) ValueLength() int    { return e.value.Length() }
func (e *ValueExpr) Value() types.Value  { return e.value }

func (e *ValueExpr) EvalRow(tuple.Tuple) (types.Value, error) {
	return e.value, nil
}

func (e *ValueExpr) EvalColumn(c *chunk.Chunk) (*chunk.Column, error) {
	switch e.value.Kind() {
	case types.KindInt:
		return chunk.NewConstantInt(e.value.AsInt(), c.Rows), nil
	case types.KindFloat:
		return chunk.NewConstantFloat(e.value.AsFloat(), c.Rows), nil
	default:
		return nil, errColumnUnimplemented(KindValue)
	}
}
