package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// CompareOp is the full comparison operator set: six scalar relations
// plus the four set-membership/existence operators that drive a
// ValueList or Subquery right operand (spec §4.2.1).
type CompareOp int

const (
	CompareEQ CompareOp = iota
	CompareNE
	CompareLT
	CompareLE
	CompareGT
	CompareGE
	CompareIn
	CompareNotIn
	CompareExists
	CompareNotExists
)

func (op CompareOp) String() string {
	switch op {
	case CompareEQ:
		return "="
	case CompareNE:
		return "<>"
	case CompareLT:
		return "<"
	case CompareLE:
		return "<="
	case CompareGT:
		return ">"
	case CompareGE:
		return ">="
	case CompareIn:
		return "IN"
	case CompareNotIn:
		return "NOT IN"
	case CompareExists:
		return "EXISTS"
	case CompareNotExists:
		return "NOT EXISTS"
	default:
		return "?"
	}
}

func (op CompareOp) apply(cmp int) bool {
	switch op {
	case CompareEQ:
		return cmp == 0
	case CompareNE:
		return cmp != 0
	case CompareLT:
		return cmp < 0
	case CompareLE:
		return cmp <= 0
	case CompareGT:
		return cmp > 0
	case CompareGE:
		return cmp >= 0
	default:
		return false
	}
}

func (op CompareOp) isScalar() bool {
	return op <= CompareGE
}

// ComparisonExpr evaluates to a Boolean. INCOMPARABLE operand pairs
// (Null on either side, mismatched non-numeric types) collapse to
// false rather than propagating an error or a three-valued result. For
// the set-membership operators, Left is nil for EXISTS/NOT EXISTS, and
// Right is either a *ValueListExpr or a *SubqueryExpr.
type ComparisonExpr struct {
	header Header
	op     CompareOp
	left   Expr
	right  Expr
}

// NewComparisonExpr builds a comparison node.
func NewComparisonExpr(op CompareOp, left, right Expr) *ComparisonExpr {
	leftName := "NULL"
	if left != nil {
		leftName = left.Header().DisplayName()
	}
	h := NewHeader(leftName + " " + op.String() + " " + right.Header().DisplayName())
	return &ComparisonExpr{header: h, op: op, left: left, right: right}
}

func (e *ComparisonExpr) Kind() Kind            { return KindComparison }
func (e *ComparisonExpr) Header() *Header       { return &e.header }
func (e *ComparisonExpr) ValueType() types.Kind { return types.KindBoolean }
func (e *ComparisonExpr) ValueLength() int      { return 0 }
func (e *ComparisonExpr) Op() CompareOp         { return e.op }
func (e *ComparisonExpr) Left() Expr            { return e.left }
func (e *ComparisonExpr) Right() Expr           { return e.right }

func (e *ComparisonExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	switch e.op {
	case CompareExists, CompareNotExists:
		return e.evalExists(t)
	case CompareIn, CompareNotIn:
		return e.evalIn(t)
	default:
		return e.evalScalar(t)
	}
}

func (e *ComparisonExpr) evalScalar(t tuple.Tuple) (types.Value, error) {
	if subq, ok := e.right.(*SubqueryExpr); ok {
		lv, err := e.left.EvalRow(t)
		if err != nil {
			return types.Value{}, err
		}
		rv, _, err := evalSubqueryScalar(subq, t)
		if err != nil {
			return types.Value{}, err
		}
		cmp, comparable := types.Compare(lv, rv)
		if !comparable {
			return types.NewBool(false), nil
		}
		return types.NewBool(e.op.apply(cmp)), nil
	}
	if subq, ok := e.left.(*SubqueryExpr); ok {
		lv, _, err := evalSubqueryScalar(subq, t)
		if err != nil {
			return types.Value{}, err
		}
		rv, err := e.right.EvalRow(t)
		if err != nil {
			return types.Value{}, err
		}
		cmp, comparable := types.Compare(lv, rv)
		if !comparable {
			return types.NewBool(false), nil
		}
		return types.NewBool(e.op.apply(cmp)), nil
	}

	lv, err := e.left.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	rv, err := e.right.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	cmp, comparable := types.Compare(lv, rv)
	if !comparable {
		return types.NewBool(false), nil
	}
	return types.NewBool(e.op.apply(cmp)), nil
}

// evalSubqueryScalar drives subq to exactly one row for use as one side
// of a scalar comparison; more than one row is an argument error (spec
// §4.2.1 rule 3/4).
func evalSubqueryScalar(subq *SubqueryExpr, outer tuple.Tuple) (types.Value, bool, error) {
	if err := subq.OpenIter(outer); err != nil {
		return types.Value{}, false, err
	}
	defer subq.CloseIter()

	v, ok, err := subq.NextValue()
	if err != nil {
		return types.Value{}, false, err
	}
	if !ok {
		return types.Null(), false, nil
	}
	if _, ok2, err := subq.NextValue(); err != nil {
		return types.Value{}, false, err
	} else if ok2 {
		return types.Value{}, false, dberr.New(dberr.InvalidArgument, dberr.CategoryUser,
			"scalar comparison against a subquery producing more than one row")
	}
	return v, true, nil
}

// evalExists drives the right operand (ValueList or Subquery) until any
// row is produced, closing it afterward regardless of outcome.
func (e *ComparisonExpr) evalExists(t tuple.Tuple) (types.Value, error) {
	any, err := e.anyRowOnRight(t)
	if err != nil {
		return types.Value{}, err
	}
	if e.op == CompareNotExists {
		any = !any
	}
	return types.NewBool(any), nil
}

func (e *ComparisonExpr) anyRowOnRight(t tuple.Tuple) (bool, error) {
	switch right := e.right.(type) {
	case *SubqueryExpr:
		if err := right.OpenIter(t); err != nil {
			return false, err
		}
		defer right.CloseIter()
		_, ok, err := right.NextValue()
		return ok, err
	case *ValueListExpr:
		return len(right.Rows()) > 0, nil
	default:
		return false, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "EXISTS/NOT EXISTS requires a subquery or value list")
	}
}

// evalIn drives the right operand and stops at the first match, which
// decides both IN (true) and NOT IN (false); without a match the whole
// right side is scanned (spec §4.2.1 rule 4/5). A Null on the left is
// incomparable with every entry and short-circuits to false before
// scanning.
func (e *ComparisonExpr) evalIn(t tuple.Tuple) (types.Value, error) {
	lv, err := e.left.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	if lv.IsNull() {
		return types.NewBool(false), nil
	}

	found := false
	sawNull := false
	switch right := e.right.(type) {
	case *SubqueryExpr:
		if err := right.OpenIter(t); err != nil {
			return types.Value{}, err
		}
		defer right.CloseIter()
		for {
			v, ok, err := right.NextValue()
			if err != nil {
				return types.Value{}, err
			}
			if !ok {
				break
			}
			if v.IsNull() {
				sawNull = true
				continue
			}
			cmp, comparable := types.Compare(lv, v)
			if comparable && cmp == 0 {
				found = true
				break
			}
		}
	case *ValueListExpr:
		right.Reset()
		for {
			v, ok := right.Next()
			if !ok {
				break
			}
			if v.IsNull() {
				sawNull = true
				continue
			}
			cmp, comparable := types.Compare(lv, v)
			if comparable && cmp == 0 {
				found = true
				break
			}
		}
	default:
		return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "IN/NOT IN requires a subquery or value list")
	}

	if e.op == CompareNotIn {
		if !found && sawNull {
			// NOT IN against a list containing Null is never true for a
			// non-matching value (spec Testable Properties): treat the
			// Null entry as if it had matched so the negation below
			// lands on false instead of true.
			found = true
		}
		found = !found
	}
	return types.NewBool(found), nil
}

// EvalColumn supports the Int/Float vectorized pair of scalar
// comparisons; anything else (mixed Chars-vs-numeric, IN/EXISTS and
// their kin) falls back to the row path.
func (e *ComparisonExpr) EvalColumn(c *chunk.Chunk) (*chunk.Column, error) {
	if !e.op.isScalar() {
		return nil, errColumnUnimplemented(KindComparison)
	}
	lc, err := e.left.EvalColumn(c)
	if err != nil {
		return nil, err
	}
	rc, err := e.right.EvalColumn(c)
	if err != nil {
		return nil, err
	}
	if lc.AttrType != types.KindInt && lc.AttrType != types.KindFloat {
		return nil, errColumnUnimplemented(KindComparison)
	}
	if rc.AttrType != types.KindInt && rc.AttrType != types.KindFloat {
		return nil, errColumnUnimplemented(KindComparison)
	}

	rows := c.Rows
	out := make([]int32, rows)
	bothInt := lc.AttrType == types.KindInt && rc.AttrType == types.KindInt
	for i := 0; i < rows; i++ {
		var cmp int
		if bothInt {
			a, b := lc.IntAt(i), rc.IntAt(i)
			cmp = compareInt32(a, b)
		} else {
			a, b := asFloatAt(lc, i), asFloatAt(rc, i)
			cmp = compareFloat32(a, b)
		}
		if e.op.apply(cmp) {
			out[i] = 1
		}
	}
	return chunk.NewIntColumn(out), nil
}

func compareInt32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat32(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
