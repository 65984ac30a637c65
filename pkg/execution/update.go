package execution

import (
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/expr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// UpdateAssignment pairs one target field with the expression computing
// its new value, evaluated against the row's pre-update state.
type UpdateAssignment struct {
	Field *catalog.FieldMeta
	Value expr.Expr
}

// Update is a two-pass operator avoiding the read/write lock inversion
// a single pass would cause (spec §4.7 Update, §5 shared resource
// policy): pass 1 drains the child under read access and materializes
// (rid, record-bytes) pairs, closing the child before any write; pass 2
// re-applies every assignment to a copy of each record and replaces it
// with a delete+insert. A Null value written to a non-nullable field is
// rejected before any write takes place, not just for the record it was
// found on.
type Update struct {
	child       Operator
	table       catalog.Table
	assignments []UpdateAssignment

	pending []pendingUpdate
	done    bool
}

type pendingUpdate struct {
	rid   catalog.RowID
	bytes []byte
}

// NewUpdate builds an Update driven by child over table.
func NewUpdate(child Operator, table catalog.Table, assignments []UpdateAssignment) *Update {
	return &Update{child: child, table: table, assignments: assignments}
}

func (u *Update) Open(txID int64) error {
	u.done = false
	u.pending = nil
	return u.child.Open(txID)
}

func (u *Update) Next() (tuple.Tuple, error) {
	if u.done {
		return nil, dberr.ErrRecordEOF
	}
	u.done = true

	if err := u.drainPass1(); err != nil {
		return nil, err
	}
	count, err := u.applyPass2()
	if err != nil {
		return nil, err
	}
	return tuple.NewValueListTuple([]types.Value{types.NewInt(count)}), nil
}

func (u *Update) drainPass1() error {
	for {
		row, err := u.child.Next()
		if dberr.IsEOF(err) {
			break
		}
		if err != nil {
			u.child.Close()
			return err
		}
		rowTuple, ok := row.(*tuple.RowTuple)
		if !ok {
			u.child.Close()
			return dberr.New(dberr.Internal, dberr.CategoryInternal, "update child tuple is not a RowTuple")
		}
		rec := rowTuple.Record()
		bytesCopy := make([]byte, len(rec.Bytes))
		copy(bytesCopy, rec.Bytes)
		u.pending = append(u.pending, pendingUpdate{rid: rec.RID, bytes: bytesCopy})
	}
	return u.child.Close()
}

func (u *Update) applyPass2() (int32, error) {
	meta := u.table.TableMeta()

	// Evaluate every assignment for every pending row first, so a
	// rejected Null-into-non-nullable assignment is caught before any
	// record is mutated in storage.
	type plannedRow struct {
		rid   catalog.RowID
		bytes []byte
	}
	planned := make([]plannedRow, 0, len(u.pending))

	for _, p := range u.pending {
		oldRecord := &catalog.Record{RID: p.rid, Bytes: p.bytes}
		source := tuple.NewRowTuple(meta.Name(), "", meta, oldRecord)

		newBytes := make([]byte, len(p.bytes))
		copy(newBytes, p.bytes)

		for _, a := range u.assignments {
			v, err := a.Value.EvalRow(source)
			if err != nil {
				return 0, err
			}
			if v.IsNull() && !a.Field.Nullable {
				return 0, dberr.Newf(dberr.InvalidArgument, dberr.CategoryUser,
					"cannot assign NULL to non-nullable field %q", a.Field.Name)
			}
			fieldIndex := fieldIndexOf(meta, a.Field.Name)
			if fieldIndex < 0 {
				return 0, dberr.Newf(dberr.SchemaFieldNotExist, dberr.CategoryUser, "field %q not found", a.Field.Name)
			}
			if err := tuple.EncodeField(newBytes, a.Field, fieldIndex, v); err != nil {
				return 0, dberr.Wrap(err, dberr.Internal, "update encode", meta.Name())
			}
		}
		planned = append(planned, plannedRow{rid: p.rid, bytes: newBytes})
	}

	for _, pr := range planned {
		if err := u.table.DeleteRecord(pr.rid); err != nil {
			return 0, dberr.Wrap(err, dberr.Internal, "update delete old", meta.Name())
		}
		rec, err := u.table.MakeRecord(pr.bytes)
		if err != nil {
			return 0, dberr.Wrap(err, dberr.Internal, "update make record", meta.Name())
		}
		if err := u.table.InsertRecord(rec); err != nil {
			return 0, dberr.Wrap(err, dberr.Internal, "update insert new", meta.Name())
		}
	}
	return int32(len(planned)), nil
}

func fieldIndexOf(meta catalog.TableMeta, name string) int {
	for i := 0; i < meta.FieldNum(); i++ {
		if meta.FieldAt(i).Name == name {
			return i
		}
	}
	return -1
}

func (u *Update) Close() error { return nil }
