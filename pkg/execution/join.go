package execution

import (
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
)

// Join is a nested-loop cross product: for each left tuple it re-opens
// the right child and yields every right tuple joined to it, closing
// the right child on left EOF. No join predicate is embedded; an
// equi-join or other condition is a Filter stacked above the Join
// (spec §4.7 "no join predicate is embedded").
type Join struct {
	left, right Operator
	rightTxID   int64

	leftRow  tuple.Tuple
	started  bool
	outer    tuple.Tuple
}

// NewJoin builds a nested-loop join over left and right.
func NewJoin(left, right Operator) *Join {
	return &Join{left: left, right: right}
}

func (j *Join) SetOuterTuple(outer tuple.Tuple) {
	j.outer = outer
	if oa, ok := j.left.(OuterAware); ok {
		oa.SetOuterTuple(outer)
	}
	if oa, ok := j.right.(OuterAware); ok {
		oa.SetOuterTuple(outer)
	}
}

func (j *Join) Open(txID int64) error {
	j.rightTxID = txID
	j.started = false
	return j.left.Open(txID)
}

func (j *Join) Next() (tuple.Tuple, error) {
	for {
		if !j.started {
			row, err := j.left.Next()
			if err != nil {
				return nil, err
			}
			j.leftRow = row
			if err := j.right.Open(j.rightTxID); err != nil {
				return nil, err
			}
			j.started = true
		}

		rightRow, err := j.right.Next()
		if dberr.IsEOF(err) {
			if err := j.right.Close(); err != nil {
				return nil, err
			}
			j.started = false
			continue
		}
		if err != nil {
			return nil, err
		}
		return tuple.NewJoinedTuple(j.leftRow, rightRow), nil
	}
}

func (j *Join) Close() error {
	if j.started {
		if err := j.right.Close(); err != nil {
			j.left.Close()
			return err
		}
		j.started = false
	}
	return j.left.Close()
}
