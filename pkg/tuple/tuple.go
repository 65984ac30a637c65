package tuple

import "relcore/pkg/types"

// TupleCellSpec names a cell to look up via FindCell: an optional table
// name, the field (or computed expression) name, and an optional table
// alias. Lookup resolves by alias first, then by raw table name.
type TupleCellSpec struct {
	TableName  string
	FieldName  string
	TableAlias string
}

// Tuple is the uniform row-access interface shared by every tuple
// variant (spec §3 Tuple).
type Tuple interface {
	CellNum() int
	CellAt(i int) (types.Value, error)
	FindCell(spec TupleCellSpec) (types.Value, bool, error)
}
