package tuple

import (
	"fmt"

	"relcore/pkg/types"
)

// JoinedTuple concatenates a pair of child tuples, left-major. FindCell
// tries the left side first, then the right, so an unqualified lookup
// resolves to whichever side has the field (ambiguity is rejected
// upstream by the binder, not here).
type JoinedTuple struct {
	left, right Tuple
}

// NewJoinedTuple builds a JoinedTuple over two child tuples.
func NewJoinedTuple(left, right Tuple) *JoinedTuple {
	return &JoinedTuple{left: left, right: right}
}

func (j *JoinedTuple) Left() Tuple  { return j.left }
func (j *JoinedTuple) Right() Tuple { return j.right }

func (j *JoinedTuple) CellNum() int {
	return j.left.CellNum() + j.right.CellNum()
}

func (j *JoinedTuple) CellAt(i int) (types.Value, error) {
	leftN := j.left.CellNum()
	if i < leftN {
		return j.left.CellAt(i)
	}
	if i-leftN < j.right.CellNum() {
		return j.right.CellAt(i - leftN)
	}
	return types.Value{}, fmt.Errorf("cell index %d out of bounds [0,%d)", i, j.CellNum())
}

func (j *JoinedTuple) FindCell(spec TupleCellSpec) (types.Value, bool, error) {
	if v, ok, err := j.left.FindCell(spec); ok || err != nil {
		return v, ok, err
	}
	return j.right.FindCell(spec)
}
