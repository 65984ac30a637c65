// Package expr implements the value-producing expression tree (spec §3
// Expression tree, §4.2 Expression tree). Each node is a distinct Go type
// sharing a common Header for name/alias/pos bookkeeping; evaluation is
// ordinary interface dispatch rather than a manual tag switch, which is
// the idiomatic-Go rendering of the source's virtual-dispatch design
// (spec §9 "Expression polymorphism").
package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Kind tags which expression-tree alternative a node is. Kept alongside
// the interface so callers that do need to branch on shape (the binder,
// the planner's structural-equality check) can do so without a type
// switch listing every concrete type.
type Kind int

const (
	KindStar Kind = iota
	KindUnboundField
	KindUnboundAggregation
	KindField
	KindValue
	KindCast
	KindComparison
	KindConjunction
	KindArithmetic
	KindAggregation
	KindSysFunction
	KindIs
	KindLike
	KindValueList
	KindSubquery
)

func (k Kind) String() string {
	names := [...]string{
		"STAR", "UNBOUND_FIELD", "UNBOUND_AGGREGATION", "FIELD", "VALUE",
		"CAST", "COMPARISON", "CONJUNCTION", "ARITHMETIC", "AGGREGATION",
		"SYS_FUNCTION", "IS", "LIKE", "VALUE_LIST", "SUBQUERY",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "UNKNOWN"
	}
	return names[k]
}

// Header carries the bookkeeping common to every expression node: an
// optional display name, an output alias, the table alias it was
// qualified with (if any), and pos, the precomputed-chunk index (-1 if
// not precomputed).
type Header struct {
	Name       string
	Alias      string
	TableAlias string
	Pos        int
}

// NewHeader builds a Header with Pos defaulting to "not precomputed".
func NewHeader(name string) Header {
	return Header{Name: name, Pos: -1}
}

// DisplayName returns Alias if set, else Name.
func (h Header) DisplayName() string {
	if h.Alias != "" {
		return h.Alias
	}
	return h.Name
}

// Expr is the shared interface every expression-tree node implements.
type Expr interface {
	Kind() Kind
	Header() *Header
	ValueType() types.Kind
	ValueLength() int
	EvalRow(t tuple.Tuple) (types.Value, error)
	// EvalColumn evaluates the vectorized path against a Chunk. Nodes
	// outside the numeric Field/Value/Arithmetic/Comparison subset return
	// an UNIMPLEMENTED DBError so callers fall back to the row path
	// (spec §7 "UNIMPLEMENTED is used by vectorized paths").
	EvalColumn(c *chunk.Chunk) (*chunk.Column, error)
}

// errColumnUnimplemented builds the UNIMPLEMENTED error EvalColumn
// returns for node kinds without a vectorized path.
func errColumnUnimplemented(k Kind) error {
	return dberr.Newf(dberr.Unimplemented, dberr.CategoryInternal,
		"no vectorized evaluator for expression kind %s", k)
}
