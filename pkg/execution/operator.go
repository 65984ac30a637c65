// Package execution implements the Volcano-style open/next/close
// physical operators (spec §4.7 Execution operators): TableScan, Filter,
// Join, GroupBy, Project, Insert, Update, Delete, Explain and Calc.
package execution

import (
	"relcore/pkg/tuple"
)

// Operator is the shared contract every physical operator implements.
// Next returns dberr.ErrRecordEOF (checked with dberr.IsEOF) once
// exhausted; that is a normal control value, never an error that
// propagates past the query root. Close releases scanner/aggregator
// state and must be safe to call twice.
type Operator interface {
	Open(txID int64) error
	Next() (tuple.Tuple, error)
	Close() error
}

// OuterAware is implemented by operators that participate in correlated
// subquery evaluation: the comparison driver sets the current outer row
// before each Open, and operators that read outer columns splice it in
// via a JoinedTuple rather than the expression tree special-casing the
// source of a Field lookup.
type OuterAware interface {
	SetOuterTuple(outer tuple.Tuple)
}

// rowOrJoined returns row alone, or row joined with outer (left-major)
// when a correlated outer tuple is present, so predicate expressions
// referencing outer columns resolve through the ordinary FindCell path.
func rowOrJoined(row tuple.Tuple, outer tuple.Tuple) tuple.Tuple {
	if outer == nil {
		return row
	}
	return tuple.NewJoinedTuple(row, outer)
}
