package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// ConjunctionOp is AND or OR over a flat child list.
type ConjunctionOp int

const (
	ConjunctionAnd ConjunctionOp = iota
	ConjunctionOr
)

// ConjunctionExpr short-circuits left to right, per spec evaluation
// order, and never evaluates past the first side that decides the
// result (false for AND, true for OR).
type ConjunctionExpr struct {
	header   Header
	op       ConjunctionOp
	children []Expr
}

// NewConjunctionExpr builds an AND/OR node over children.
func NewConjunctionExpr(op ConjunctionOp, children []Expr) *ConjunctionExpr {
	name := "AND"
	if op == ConjunctionOr {
		name = "OR"
	}
	return &ConjunctionExpr{header: NewHeader(name), op: op, children: children}
}

func (e *ConjunctionExpr) Kind() Kind            { return KindConjunction }
func (e *ConjunctionExpr) Header() *Header       { return &e.header }
func (e *ConjunctionExpr) ValueType() types.Kind { return types.KindBoolean }
func (e *ConjunctionExpr) ValueLength() int      { return 0 }
func (e *ConjunctionExpr) Op() ConjunctionOp     { return e.op }
func (e *ConjunctionExpr) Children() []Expr      { return e.children }

func (e *ConjunctionExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	shortCircuit := false
	if e.op == ConjunctionOr {
		shortCircuit = true
	}
	for _, child := range e.children {
		v, err := child.EvalRow(t)
		if err != nil {
			return types.Value{}, err
		}
		decided := v.Kind() == types.KindBoolean && v.AsBool() == shortCircuit
		if decided {
			return types.NewBool(shortCircuit), nil
		}
	}
	return types.NewBool(!shortCircuit), nil
}

// EvalColumn has no vectorized kernel; Boolean predicate columns are
// represented as 0/1 Int by ComparisonExpr, and combining several such
// columns with early-exit semantics per row gains nothing over
// evaluating the row path once Filter has already narrowed to a batch,
// so conjunction is always evaluated row-at-a-time.
func (e *ConjunctionExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindConjunction)
}
