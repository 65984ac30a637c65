package execution

import (
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Insert builds one record from already-validated, already-cast values
// (arity and type checking happened in the statement layer, spec §4.4
// InsertStmt) and asks the storage layer to insert it. Next reports a
// single row carrying the inserted row count, then EOF.
type Insert struct {
	table  catalog.Table
	values []types.Value

	done bool
}

// NewInsert builds an Insert of one record into table.
func NewInsert(table catalog.Table, values []types.Value) *Insert {
	return &Insert{table: table, values: values}
}

func (ins *Insert) Open(int64) error {
	ins.done = false
	return nil
}

func (ins *Insert) Next() (tuple.Tuple, error) {
	if ins.done {
		return nil, dberr.ErrRecordEOF
	}
	ins.done = true

	meta := ins.table.TableMeta()
	bytes := make([]byte, meta.RecordSize())
	valueIdx := 0
	for i := 0; i < meta.FieldNum(); i++ {
		fm := meta.FieldAt(i)
		if fm.IsSys {
			continue
		}
		if valueIdx >= len(ins.values) {
			return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "insert value count does not match field count")
		}
		if ins.values[valueIdx].IsNull() && !fm.Nullable {
			return nil, dberr.Newf(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser,
				"cannot insert NULL into non-nullable field %q", fm.Name)
		}
		if err := tuple.EncodeField(bytes, fm, i, ins.values[valueIdx]); err != nil {
			return nil, dberr.Wrap(err, dberr.Internal, "insert encode", meta.Name())
		}
		valueIdx++
	}

	rec, err := ins.table.MakeRecord(bytes)
	if err != nil {
		return nil, dberr.Wrap(err, dberr.Internal, "insert make record", meta.Name())
	}
	if err := ins.table.InsertRecord(rec); err != nil {
		return nil, dberr.Wrap(err, dberr.Internal, "insert write", meta.Name())
	}
	return tuple.NewValueListTuple([]types.Value{types.NewInt(1)}), nil
}

func (ins *Insert) Close() error { return nil }
