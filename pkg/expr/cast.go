package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// CastExpr wraps a child expression and coerces its value to TargetType.
type CastExpr struct {
	header     Header
	child      Expr
	targetType types.Kind
}

// NewCastExpr builds a cast over child to targetType.
func NewCastExpr(child Expr, targetType types.Kind) *CastExpr {
	return &CastExpr{header: NewHeader(child.Header().Name), child: child, targetType: targetType}
}

func (e *CastExpr) Kind() Kind            { return KindCast }
func (e *CastExpr) Header() *Header       { return &e.header }
func (e *CastExpr) ValueType() types.Kind { return e.targetType }
func (e *CastExpr) ValueLength() int      { return e.child.ValueLength() }
func (e *CastExpr) Child() Expr           { return e.child }

func (e *CastExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	v, err := e.child.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	out, err := types.CastTo(v, e.targetType)
	if err != nil {
		return types.Value{}, dberr.Wrap(err, dberr.SchemaFieldTypeMismatch, "cast", "expr")
	}
	return out, nil
}

// EvalColumn has no vectorized cast kernel; the spec restricts vectorized
// arithmetic/comparison to Int/Float columns and a cast crossing those
// two types still needs per-row rounding semantics, so it always falls
// back to the row path.
func (e *CastExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindCast)
}
