package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// ArithOp is the four binary arithmetic operators.
type ArithOp int

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
)

func (op ArithOp) String() string {
	switch op {
	case ArithAdd:
		return "+"
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithDiv:
		return "/"
	default:
		return "?"
	}
}

// ArithmeticExpr is a binary +,-,*,/ over two child expressions. Division
// always promotes to Float; division by zero yields Null rather than an
// error.
type ArithmeticExpr struct {
	header    Header
	op        ArithOp
	left      Expr
	right     Expr
	valueType types.Kind
}

// NewArithmeticExpr builds an arithmetic node. valueType is the node's
// statically-known result type, computed by the binder from its
// children's types (Int op Int -> Int, anything else -> Float, except
// that any Divide always resolves to Float).
func NewArithmeticExpr(op ArithOp, left, right Expr, valueType types.Kind) *ArithmeticExpr {
	h := NewHeader(left.Header().DisplayName() + " " + op.String() + " " + right.Header().DisplayName())
	return &ArithmeticExpr{header: h, op: op, left: left, right: right, valueType: valueType}
}

func (e *ArithmeticExpr) Kind() Kind            { return KindArithmetic }
func (e *ArithmeticExpr) Header() *Header       { return &e.header }
func (e *ArithmeticExpr) ValueType() types.Kind { return e.valueType }
func (e *ArithmeticExpr) ValueLength() int      { return 0 }
func (e *ArithmeticExpr) Op() ArithOp           { return e.op }
func (e *ArithmeticExpr) Left() Expr            { return e.left }
func (e *ArithmeticExpr) Right() Expr           { return e.right }

func (e *ArithmeticExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	lv, err := e.left.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	rv, err := e.right.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	if lv.IsNull() || rv.IsNull() {
		return types.Null(), nil
	}
	out, err := applyArith(e.op, lv, rv)
	if err != nil {
		return types.Value{}, dberr.Wrap(err, dberr.SchemaFieldTypeMismatch, "arithmetic", "expr")
	}
	return out, nil
}

func applyArith(op ArithOp, lv, rv types.Value) (types.Value, error) {
	switch op {
	case ArithAdd:
		return types.Add(lv, rv)
	case ArithSub:
		return types.Subtract(lv, rv)
	case ArithMul:
		return types.Multiply(lv, rv)
	case ArithDiv:
		return types.Divide(lv, rv)
	default:
		return types.Value{}, dberr.Newf(dberr.Internal, dberr.CategoryInternal, "unknown arithmetic op %v", op)
	}
}

// EvalColumn runs the vectorized Int/Float kernel matrix: each side may
// independently be a Normal or Constant column, giving four operand
// layouts, but since Constant already broadcasts through IntAt/FloatAt
// the loop body is identical across all four; only the output type
// (Int when both sides are Int, else Float) differs. Divide never
// reaches the loop: it always falls back to the row path.
func (e *ArithmeticExpr) EvalColumn(c *chunk.Chunk) (*chunk.Column, error) {
	lc, err := e.left.EvalColumn(c)
	if err != nil {
		return nil, err
	}
	rc, err := e.right.EvalColumn(c)
	if err != nil {
		return nil, err
	}
	if lc.AttrType != types.KindInt && lc.AttrType != types.KindFloat {
		return nil, errColumnUnimplemented(KindArithmetic)
	}
	if rc.AttrType != types.KindInt && rc.AttrType != types.KindFloat {
		return nil, errColumnUnimplemented(KindArithmetic)
	}
	// Columns carry no null bitmap, so a divide that might hit zero has no
	// way to report Null per row; fall back to the row path instead of
	// silently substituting a wrong number.
	if e.op == ArithDiv {
		return nil, errColumnUnimplemented(KindArithmetic)
	}

	bothInt := lc.AttrType == types.KindInt && rc.AttrType == types.KindInt && e.op != ArithDiv
	rows := c.Rows
	if bothInt {
		out := make([]int32, rows)
		for i := 0; i < rows; i++ {
			a, b := lc.IntAt(i), rc.IntAt(i)
			switch e.op {
			case ArithAdd:
				out[i] = a + b
			case ArithSub:
				out[i] = a - b
			case ArithMul:
				out[i] = a * b
			}
		}
		return chunk.NewIntColumn(out), nil
	}

	out := make([]float32, rows)
	for i := 0; i < rows; i++ {
		a, b := asFloatAt(lc, i), asFloatAt(rc, i)
		switch e.op {
		case ArithAdd:
			out[i] = a + b
		case ArithSub:
			out[i] = a - b
		case ArithMul:
			out[i] = a * b
		}
	}
	return chunk.NewFloatColumn(out), nil
}

func asFloatAt(col *chunk.Column, i int) float32 {
	if col.AttrType == types.KindInt {
		return float32(col.IntAt(i))
	}
	return col.FloatAt(i)
}
