package tuple

import (
	"fmt"

	"relcore/pkg/types"
)

// ValueListTuple exposes a single static row of values with no table
// qualification or names, so FindCell always misses and cells are read
// by position. Operators that emit computed rows (GroupBy, Insert,
// Delete, Update, Explain) return them as ValueListTuples.
type ValueListTuple struct {
	values []types.Value
}

// NewValueListTuple builds a ValueListTuple over a fixed row of values.
func NewValueListTuple(values []types.Value) *ValueListTuple {
	return &ValueListTuple{values: values}
}

func (v *ValueListTuple) CellNum() int { return len(v.values) }

func (v *ValueListTuple) CellAt(i int) (types.Value, error) {
	if i < 0 || i >= len(v.values) {
		return types.Value{}, fmt.Errorf("cell index %d out of bounds [0,%d)", i, len(v.values))
	}
	return v.values[i], nil
}

func (v *ValueListTuple) FindCell(TupleCellSpec) (types.Value, bool, error) {
	return types.Value{}, false, nil
}

// EmptyTuple has zero cells; Calc and field-less projections
// (SELECT LENGTH('abc')) drive their single output row from one.
type EmptyTuple struct{}

func (EmptyTuple) CellNum() int { return 0 }

func (EmptyTuple) CellAt(i int) (types.Value, error) {
	return types.Value{}, fmt.Errorf("cell index %d out of bounds [0,0)", i)
}

func (EmptyTuple) FindCell(TupleCellSpec) (types.Value, bool, error) {
	return types.Value{}, false, nil
}
