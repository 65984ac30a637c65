package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// IsExpr implements `left IS <right>`: right is either the Null
// constant (IS NULL) or a Boolean constant (IS TRUE / IS FALSE). Any
// other right-hand value is rejected by EvalRow with an argument error
// (spec §4.2 "Is").
type IsExpr struct {
	header Header
	left   Expr
	right  Expr
}

// NewIsExpr builds an IS node. right must be a *ValueExpr holding
// either Null or a Boolean.
func NewIsExpr(left, right Expr) *IsExpr {
	return &IsExpr{header: NewHeader(left.Header().DisplayName() + " IS " + right.Header().DisplayName()), left: left, right: right}
}

func (e *IsExpr) Kind() Kind            { return KindIs }
func (e *IsExpr) Header() *Header       { return &e.header }
func (e *IsExpr) ValueType() types.Kind { return types.KindBoolean }
func (e *IsExpr) ValueLength() int      { return 0 }
func (e *IsExpr) Left() Expr            { return e.left }
func (e *IsExpr) Right() Expr           { return e.right }

func (e *IsExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	lv, err := e.left.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	rv, err := e.right.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}

	switch {
	case rv.IsNull():
		return types.NewBool(lv.IsNull()), nil
	case rv.Kind() == types.KindBoolean:
		return types.NewBool(!lv.IsNull() && lv.Kind() == types.KindBoolean && lv.AsBool() == rv.AsBool()), nil
	default:
		return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "IS requires NULL or a Boolean right-hand operand")
	}
}

func (e *IsExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindIs)
}
