// Package chunk implements the column-batch representation used by the
// vectorized evaluation path (spec §3 Chunk/Column, §4.2 eval_column).
// Only Int and Float columns support vectorized arithmetic/comparison;
// every other type flows through the row-at-a-time path instead.
package chunk

import "relcore/pkg/types"

// Kind distinguishes a column holding one value per row (Normal) from one
// holding a single value broadcast across every row (Constant), letting
// vectorized kernels specialize on the {const, var} x {const, var}
// operand layout instead of materializing a full constant column.
type Kind int

const (
	Normal Kind = iota
	Constant
)

// Column is an ordered batch of same-typed values. Ints are stored in
// Ints, floats in Floats; exactly one of the two slices is populated,
// selected by AttrType.
type Column struct {
	AttrType types.Kind
	Kind     Kind
	Count    int
	Ints     []int32
	Floats   []float32
}

// NewIntColumn builds a Normal Int column from a slice of values.
func NewIntColumn(values []int32) *Column {
	return &Column{AttrType: types.KindInt, Kind: Normal, Count: len(values), Ints: values}
}

// NewFloatColumn builds a Normal Float column from a slice of values.
func NewFloatColumn(values []float32) *Column {
	return &Column{AttrType: types.KindFloat, Kind: Normal, Count: len(values), Floats: values}
}

// NewConstantInt builds a Constant Int column logically broadcasting v
// across count rows without materializing count copies.
func NewConstantInt(v int32, count int) *Column {
	return &Column{AttrType: types.KindInt, Kind: Constant, Count: count, Ints: []int32{v}}
}

// NewConstantFloat builds a Constant Float column broadcasting v.
func NewConstantFloat(v float32, count int) *Column {
	return &Column{AttrType: types.KindFloat, Kind: Constant, Count: count, Floats: []float32{v}}
}

// IntAt returns the logical int32 at row i, honoring Constant broadcast.
func (c *Column) IntAt(i int) int32 {
	if c.Kind == Constant {
		return c.Ints[0]
	}
	return c.Ints[i]
}

// FloatAt returns the logical float32 at row i, honoring Constant
// broadcast.
func (c *Column) FloatAt(i int) float32 {
	if c.Kind == Constant {
		return c.Floats[0]
	}
	return c.Floats[i]
}

// ValueAt boxes row i back into a types.Value, for callers that bridge
// back to the scalar path.
func (c *Column) ValueAt(i int) types.Value {
	switch c.AttrType {
	case types.KindInt:
		return types.NewInt(c.IntAt(i))
	case types.KindFloat:
		return types.NewFloat(c.FloatAt(i))
	default:
		return types.Value{}
	}
}

// Chunk is an ordered list of columns sharing one row count.
type Chunk struct {
	Columns []*Column
	Rows    int
}

// NewChunk builds a Chunk from same-length columns.
func NewChunk(rows int, columns ...*Column) *Chunk {
	return &Chunk{Columns: columns, Rows: rows}
}

// ColumnAt returns the i-th column, or nil if out of bounds.
func (c *Chunk) ColumnAt(i int) *Column {
	if i < 0 || i >= len(c.Columns) {
		return nil
	}
	return c.Columns[i]
}
