package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// ValueListExpr is a bare producer over a static, single-column row
// set: it carries no truth value of its own. It exists purely as a
// right-hand operand a ComparisonExpr drives through Reset/Next to
// implement IN/NOT IN/EXISTS/NOT EXISTS (spec §4.2 "ValueList: ...
// exposes a mutable cursor and reset() so the comparison driver can
// re-scan").
type ValueListExpr struct {
	header Header
	rows   []types.Value
	cursor int
}

// NewValueListExpr builds a ValueList producer over a fixed row set.
func NewValueListExpr(rows []types.Value) *ValueListExpr {
	return &ValueListExpr{header: NewHeader("(...)"), rows: rows}
}

func (e *ValueListExpr) Kind() Kind            { return KindValueList }
func (e *ValueListExpr) Header() *Header       { return &e.header }
func (e *ValueListExpr) ValueType() types.Kind { return types.KindUndefined }
func (e *ValueListExpr) ValueLength() int      { return 0 }

// Rows returns the current materialized row set, for the planner to
// refresh ahead of a correlated re-evaluation.
func (e *ValueListExpr) Rows() []types.Value { return e.rows }

// SetRows replaces the materialized row set and rewinds the cursor.
// Nothing in the module calls it.
func (e *ValueListExpr) SetRows(rows []types.Value) {
	e.rows = rows
	e.cursor = 0
}

// Reset rewinds the scan cursor to the start of the row set without
// re-materializing it, for the common non-correlated case where the
// same subquery result is tested against many outer rows.
func (e *ValueListExpr) Reset() { e.cursor = 0 }

// Next returns the next row and advances the cursor, reporting false
// once the row set is exhausted.
func (e *ValueListExpr) Next() (types.Value, bool) {
	if e.cursor >= len(e.rows) {
		return types.Value{}, false
	}
	v := e.rows[e.cursor]
	e.cursor++
	return v, true
}

// EvalRow is never called in practice: ComparisonExpr drives a
// ValueListExpr through Rows/Reset/Next directly rather than through
// the generic Expr interface, matching Subquery's special handling.
func (e *ValueListExpr) EvalRow(tuple.Tuple) (types.Value, error) {
	return types.Value{}, dberr.New(dberr.Internal, dberr.CategoryInternal, "value list evaluated directly")
}

func (e *ValueListExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindValueList)
}
