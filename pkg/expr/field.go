package expr

import (
	"fmt"

	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// FieldExpr is a bound reference to one table's field. After binding, no
// Unbound* node of this shape remains anywhere in the tree.
type FieldExpr struct {
	header     Header
	tableName  string
	fieldID    int
	valueType  types.Kind
	valueLen   int
}

// NewFieldExpr builds a bound field reference.
func NewFieldExpr(tableName, fieldName, tableAlias string, fieldID int, vt types.Kind, vlen int) *FieldExpr {
	h := NewHeader(fieldName)
	h.TableAlias = tableAlias
	return &FieldExpr{header: h, tableName: tableName, fieldID: fieldID, valueType: vt, valueLen: vlen}
}

func (e *FieldExpr) Kind() Kind            { return KindField }
func (e *FieldExpr) Header() *Header       { return &e.header }
func (e *FieldExpr) ValueType() types.Kind { return e.valueType }
func (e *FieldExpr) ValueLength() int      { return e.valueLen }
func (e *FieldExpr) TableName() string     { return e.tableName }
func (e *FieldExpr) FieldID() int          { return e.fieldID }

func (e *FieldExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	spec := tuple.TupleCellSpec{
		TableName:  e.tableName,
		FieldName:  e.header.Name,
		TableAlias: e.header.TableAlias,
	}
	v, found, err := t.FindCell(spec)
	if err != nil {
		return types.Value{}, err
	}
	if !found {
		return types.Value{}, dberr.Newf(dberr.SchemaFieldNotExist, dberr.CategoryUser,
			"field %q not found on tuple", e.header.Name)
	}
	return v, nil
}

func (e *FieldExpr) EvalColumn(c *chunk.Chunk) (*chunk.Column, error) {
	if e.valueType != types.KindInt && e.valueType != types.KindFloat {
		return nil, errColumnUnimplemented(KindField)
	}
	idx := e.header.Pos
	if idx < 0 {
		idx = e.fieldID
	}
	col := c.ColumnAt(idx)
	if col == nil {
		return nil, fmt.Errorf("chunk has no column at index %d for field %q", idx, e.header.Name)
	}
	return col, nil
}

// UnboundFieldExpr is a field reference the parser produced before
// binding: an optional table qualifier plus the field name.
type UnboundFieldExpr struct {
	header    Header
	tableName string
}

// NewUnboundFieldExpr builds an unbound field reference.
func NewUnboundFieldExpr(tableName, fieldName string) *UnboundFieldExpr {
	return &UnboundFieldExpr{header: NewHeader(fieldName), tableName: tableName}
}

func (e *UnboundFieldExpr) Kind() Kind            { return KindUnboundField }
func (e *UnboundFieldExpr) Header() *Header       { return &e.header }
func (e *UnboundFieldExpr) ValueType() types.Kind { return types.KindUndefined }
func (e *UnboundFieldExpr) ValueLength() int      { return 0 }
func (e *UnboundFieldExpr) TableName() string     { return e.tableName }

func (e *UnboundFieldExpr) EvalRow(tuple.Tuple) (types.Value, error) {
	return types.Value{}, dberr.New(dberr.Internal, dberr.CategoryInternal, "unbound field evaluated")
}

func (e *UnboundFieldExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindUnboundField)
}

// StarExpr is `*` or `table.*`, expanded away by the binder.
type StarExpr struct {
	header    Header
	tableName string
}

// NewStarExpr builds a Star node; tableName is empty for a bare `*`.
func NewStarExpr(tableName string) *StarExpr {
	return &StarExpr{header: NewHeader("*"), tableName: tableName}
}

func (e *StarExpr) Kind() Kind            { return KindStar }
func (e *StarExpr) Header() *Header       { return &e.header }
func (e *StarExpr) ValueType() types.Kind { return types.KindUndefined }
func (e *StarExpr) ValueLength() int      { return 0 }
func (e *StarExpr) TableName() string     { return e.tableName }

func (e *StarExpr) EvalRow(tuple.Tuple) (types.Value, error) {
	return types.Value{}, dberr.New(dberr.Internal, dberr.CategoryInternal, "star evaluated")
}

func (e *StarExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindStar)
}
