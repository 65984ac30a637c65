package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// AggFunc is the five supported aggregate functions.
type AggFunc int

const (
	AggCount AggFunc = iota
	AggSum
	AggAvg
	AggMax
	AggMin
)

func (f AggFunc) String() string {
	names := [...]string{"COUNT", "SUM", "AVG", "MAX", "MIN"}
	if int(f) < 0 || int(f) >= len(names) {
		return "UNKNOWN"
	}
	return names[f]
}

// AggregationExpr is bound and read-only once planning finishes: its
// value is never computed by walking child rows itself. GroupBy
// precomputes one cell per aggregate into each output tuple, and
// AggregationExpr.EvalRow does nothing but read that precomputed cell
// back out through Header.Pos, exactly like a Field reference into a
// ProjectTuple.
type AggregationExpr struct {
	header    Header
	function  AggFunc
	child     Expr // nil for COUNT(*)
	valueType types.Kind
}

// NewAggregationExpr builds a bound aggregation reference. pos must be
// set by the planner (Header().Pos) before evaluation.
func NewAggregationExpr(function AggFunc, child Expr, valueType types.Kind) *AggregationExpr {
	name := function.String() + "(*)"
	if child != nil {
		name = function.String() + "(" + child.Header().DisplayName() + ")"
	}
	return &AggregationExpr{header: NewHeader(name), function: function, child: child, valueType: valueType}
}

func (e *AggregationExpr) Kind() Kind            { return KindAggregation }
func (e *AggregationExpr) Header() *Header       { return &e.header }
func (e *AggregationExpr) ValueType() types.Kind { return e.valueType }
func (e *AggregationExpr) ValueLength() int      { return 0 }
func (e *AggregationExpr) Function() AggFunc     { return e.function }
func (e *AggregationExpr) Child() Expr           { return e.child }

func (e *AggregationExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	if e.header.Pos < 0 {
		return types.Value{}, dberr.New(dberr.Internal, dberr.CategoryInternal,
			"aggregation expression evaluated before GroupBy assigned its output position")
	}
	v, err := t.CellAt(e.header.Pos)
	if err != nil {
		return types.Value{}, dberr.Wrap(err, dberr.Internal, "aggregation read", "expr")
	}
	return v, nil
}

// EvalColumn is never called: aggregations only ever read a precomputed
// scalar cell, never a batch.
func (e *AggregationExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindAggregation)
}

// UnboundAggregationExpr is an aggregate call as written by the parser,
// before the binder checks its argument and turns it into an
// AggregationExpr (the logical planner later checks the GROUP BY shape
// and assigns the output position).
type UnboundAggregationExpr struct {
	header   Header
	function AggFunc
	child    Expr
}

// NewUnboundAggregationExpr builds an unbound aggregate call.
func NewUnboundAggregationExpr(function AggFunc, child Expr) *UnboundAggregationExpr {
	name := function.String() + "(*)"
	if child != nil {
		name = function.String() + "(" + child.Header().DisplayName() + ")"
	}
	return &UnboundAggregationExpr{header: NewHeader(name), function: function, child: child}
}

func (e *UnboundAggregationExpr) Kind() Kind            { return KindUnboundAggregation }
func (e *UnboundAggregationExpr) Header() *Header       { return &e.header }
func (e *UnboundAggregationExpr) ValueType() types.Kind { return types.KindUndefined }
func (e *UnboundAggregationExpr) ValueLength() int      { return 0 }
func (e *UnboundAggregationExpr) Function() AggFunc     { return e.function }
func (e *UnboundAggregationExpr) Child() Expr           { return e.child }

func (e *UnboundAggregationExpr) EvalRow(tuple.Tuple) (types.Value, error) {
	return types.Value{}, dberr.New(dberr.Internal, dberr.CategoryInternal, "unbound aggregation evaluated")
}

func (e *UnboundAggregationExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindUnboundAggregation)
}
