package execution

import (
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Delete iterates its child and deletes every row it produces by RID,
// reporting the number deleted as one row, then EOF. The child is
// expected to bottom out at a TableScan so every tuple it produces is a
// *tuple.RowTuple with a RecordID.
type Delete struct {
	child Operator
	table catalog.Table

	done bool
}

// NewDelete builds a Delete driven by child over table.
func NewDelete(child Operator, table catalog.Table) *Delete {
	return &Delete{child: child, table: table}
}

func (d *Delete) Open(txID int64) error {
	d.done = false
	return d.child.Open(txID)
}

func (d *Delete) Next() (tuple.Tuple, error) {
	if d.done {
		return nil, dberr.ErrRecordEOF
	}
	d.done = true

	var count int32
	for {
		row, err := d.child.Next()
		if dberr.IsEOF(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		rowTuple, ok := row.(*tuple.RowTuple)
		if !ok {
			return nil, dberr.New(dberr.Internal, dberr.CategoryInternal, "delete child tuple is not a RowTuple")
		}
		if err := d.table.DeleteRecord(rowTuple.RecordID()); err != nil {
			return nil, dberr.Wrap(err, dberr.Internal, "delete record", d.table.TableMeta().Name())
		}
		count++
	}
	return tuple.NewValueListTuple([]types.Value{types.NewInt(count)}), nil
}

func (d *Delete) Close() error { return d.child.Close() }
