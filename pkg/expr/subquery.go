package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// SubqueryOperator is the slice of the physical-plan operator interface
// a scalar subquery needs to drive. It is declared here, not imported
// from the planner, so that pkg/expr never depends on pkg/planner/*
// even though the physical operator depends on pkg/expr for its
// predicates; the concrete physical-plan type satisfies this interface
// structurally, with no import back into this package.
type SubqueryOperator interface {
	Open(txID int64, outerTuple tuple.Tuple) error
	Next() (tuple.Tuple, error)
	Close() error
}

// SubqueryExpr evaluates a scalar subquery for each outer row. Stmt,
// LogicalPlan and PhysicalPlan are carried as any because their real
// types live in packages that import pkg/expr; the planner type-asserts
// them back on the way in. A query executes single-threaded per spec,
// so IsOpen and OuterTuple are plain fields rather than mutex-guarded.
type SubqueryExpr struct {
	header Header

	Stmt        any
	LogicalPlan any
	PhysicalPlan any

	Operator   SubqueryOperator
	IsOpen     bool
	OuterTuple tuple.Tuple
}

// NewSubqueryExpr builds a subquery expression node. Operator is
// attached later by the planner once the subquery's own physical plan
// has been built.
func NewSubqueryExpr(name string) *SubqueryExpr {
	return &SubqueryExpr{header: NewHeader(name)}
}

func (e *SubqueryExpr) Kind() Kind            { return KindSubquery }
func (e *SubqueryExpr) Header() *Header       { return &e.header }
func (e *SubqueryExpr) ValueType() types.Kind { return types.KindUndefined }
func (e *SubqueryExpr) ValueLength() int      { return 0 }

// EvalRow drives the subquery operator to completion for the current
// outer row and returns its single scalar result. More than one result
// row is an error; zero rows yields Null.
func (e *SubqueryExpr) EvalRow(outer tuple.Tuple) (types.Value, error) {
	if e.Operator == nil {
		return types.Value{}, dberr.New(dberr.Internal, dberr.CategoryInternal,
			"subquery expression evaluated before a physical operator was attached")
	}

	e.OuterTuple = outer
	if err := e.Operator.Open(0, outer); err != nil {
		return types.Value{}, dberr.Wrap(err, dberr.Internal, "subquery open", "expr")
	}
	e.IsOpen = true
	defer func() {
		e.Operator.Close()
		e.IsOpen = false
	}()

	row, err := e.Operator.Next()
	if dberr.IsEOF(err) {
		return types.Null(), nil
	}
	if err != nil {
		return types.Value{}, dberr.Wrap(err, dberr.Internal, "subquery next", "expr")
	}
	if row.CellNum() != 1 {
		return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser,
			"scalar subquery must produce exactly one column")
	}

	v, err := row.CellAt(0)
	if err != nil {
		return types.Value{}, err
	}

	if _, err := e.Operator.Next(); !dberr.IsEOF(err) {
		if err == nil {
			return types.Value{}, dberr.New(dberr.InvalidArgument, dberr.CategoryUser,
				"scalar subquery must produce at most one row")
		}
		return types.Value{}, err
	}

	return v, nil
}

func (e *SubqueryExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindSubquery)
}

// OpenIter opens the subquery operator for driving row-by-row, used by
// ComparisonExpr's IN/NOT IN/EXISTS/NOT EXISTS paths instead of the
// single-row contract EvalRow enforces.
func (e *SubqueryExpr) OpenIter(outer tuple.Tuple) error {
	if e.Operator == nil {
		return dberr.New(dberr.Internal, dberr.CategoryInternal,
			"subquery expression driven before a physical operator was attached")
	}
	e.OuterTuple = outer
	if err := e.Operator.Open(0, outer); err != nil {
		return dberr.Wrap(err, dberr.Internal, "subquery open", "expr")
	}
	e.IsOpen = true
	return nil
}

// NextValue returns the next row's sole cell, reporting ok=false on
// RECORD_EOF.
func (e *SubqueryExpr) NextValue() (v types.Value, ok bool, err error) {
	row, err := e.Operator.Next()
	if dberr.IsEOF(err) {
		return types.Value{}, false, nil
	}
	if err != nil {
		return types.Value{}, false, dberr.Wrap(err, dberr.Internal, "subquery next", "expr")
	}
	if row.CellNum() != 1 {
		return types.Value{}, false, dberr.New(dberr.InvalidArgument, dberr.CategoryUser,
			"subquery must produce exactly one column")
	}
	v, err = row.CellAt(0)
	return v, true, err
}

// CloseIter closes the subquery operator opened by OpenIter.
func (e *SubqueryExpr) CloseIter() error {
	e.IsOpen = false
	if e.Operator == nil {
		return nil
	}
	return e.Operator.Close()
}
