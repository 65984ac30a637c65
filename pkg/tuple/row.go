package tuple

import (
	"fmt"

	"relcore/pkg/catalog"
	"relcore/pkg/types"
)

// RowTuple is one physical record decoded against a specific table's
// schema, optionally exposed under a table alias.
type RowTuple struct {
	tableName string
	alias     string
	meta      catalog.TableMeta
	record    *catalog.Record
	userIdx   []int // indices into meta.Fields() for non-system fields, in order
}

// NewRowTuple builds a RowTuple over a decoded record. alias may be empty.
func NewRowTuple(tableName, alias string, meta catalog.TableMeta, record *catalog.Record) *RowTuple {
	userIdx := make([]int, 0, meta.FieldNum())
	for i := 0; i < meta.FieldNum(); i++ {
		if !meta.FieldAt(i).IsSys {
			userIdx = append(userIdx, i)
		}
	}
	return &RowTuple{tableName: tableName, alias: alias, meta: meta, record: record, userIdx: userIdx}
}

func (r *RowTuple) TableName() string            { return r.tableName }
func (r *RowTuple) Alias() string                { return r.alias }
func (r *RowTuple) TableMeta() catalog.TableMeta { return r.meta }
func (r *RowTuple) RecordID() catalog.RowID      { return r.record.RID }

// Record returns the backing physical record, for operators (Update,
// Delete) that need the raw bytes or RID rather than decoded cells.
func (r *RowTuple) Record() *catalog.Record { return r.record }

func (r *RowTuple) CellNum() int { return len(r.userIdx) }

func (r *RowTuple) CellAt(i int) (types.Value, error) {
	if i < 0 || i >= len(r.userIdx) {
		return types.Value{}, fmt.Errorf("cell index %d out of bounds [0,%d)", i, len(r.userIdx))
	}
	return r.CellAtFieldIndex(r.userIdx[i])
}

// CellAtFieldIndex looks up by the raw schema field index (including
// system fields); CellAt and FindCell read cells through it.
func (r *RowTuple) CellAtFieldIndex(fieldIdx int) (types.Value, error) {
	meta := r.meta.FieldAt(fieldIdx)
	if meta == nil {
		return types.Value{}, fmt.Errorf("field index %d out of bounds", fieldIdx)
	}
	return DecodeField(r.record.Bytes, meta, fieldIdx)
}

func (r *RowTuple) FindCell(spec TupleCellSpec) (types.Value, bool, error) {
	if !r.matchesTable(spec) {
		return types.Value{}, false, nil
	}
	for _, idx := range r.userIdx {
		meta := r.meta.FieldAt(idx)
		if meta.Name == spec.FieldName {
			v, err := r.CellAtFieldIndex(idx)
			return v, true, err
		}
	}
	return types.Value{}, false, nil
}

func (r *RowTuple) matchesTable(spec TupleCellSpec) bool {
	if spec.TableAlias != "" {
		return spec.TableAlias == r.alias
	}
	if spec.TableName != "" {
		return spec.TableName == r.tableName
	}
	return true
}
