// Package aggregation implements the streaming accumulators GroupBy
// drives one per aggregate expression per group (spec §4.8 Aggregators).
package aggregation

import (
	"relcore/pkg/dberr"
	"relcore/pkg/types"
)

// Accumulator ingests values one at a time and produces a final result.
// Null input is ignored by every accumulator kind; an empty group's
// Final() result is defined per-kind below.
type Accumulator interface {
	Accumulate(v types.Value) error
	Final() types.Value
}

// NewAccumulator builds a fresh accumulator for the given function.
func NewAccumulator(function Func) Accumulator {
	switch function {
	case Count:
		return &countAcc{}
	case Sum:
		return &sumAcc{}
	case Avg:
		return &avgAcc{}
	case Max:
		return &maxMinAcc{wantMax: true}
	case Min:
		return &maxMinAcc{wantMax: false}
	default:
		return &countAcc{}
	}
}

// Func is the five supported aggregate functions, mirroring
// pkg/expr.AggFunc so pkg/execution doesn't need to import pkg/expr just
// to name them.
type Func int

const (
	Count Func = iota
	Sum
	Avg
	Max
	Min
)

type countAcc struct{ n int64 }

func (a *countAcc) Accumulate(v types.Value) error {
	if !v.IsNull() {
		a.n++
	}
	return nil
}

func (a *countAcc) Final() types.Value { return types.NewInt(int32(a.n)) }

type sumAcc struct {
	acc   types.Value
	seeded bool
}

func (a *sumAcc) Accumulate(v types.Value) error {
	if v.IsNull() {
		return nil
	}
	if !a.seeded {
		a.acc = v
		a.seeded = true
		return nil
	}
	out, err := types.Add(a.acc, v)
	if err != nil {
		return dberr.Wrap(err, dberr.SchemaFieldTypeMismatch, "sum accumulate", "aggregation")
	}
	a.acc = out
	return nil
}

func (a *sumAcc) Final() types.Value {
	if !a.seeded {
		return types.Null()
	}
	return a.acc
}

type avgAcc struct {
	sum   sumAcc
	count int64
}

func (a *avgAcc) Accumulate(v types.Value) error {
	if v.IsNull() {
		return nil
	}
	a.count++
	return a.sum.Accumulate(v)
}

func (a *avgAcc) Final() types.Value {
	if a.count == 0 {
		return types.Null()
	}
	total := a.sum.Final()
	avg, _ := types.Divide(total, types.NewInt(int32(a.count)))
	return avg
}

type maxMinAcc struct {
	acc     types.Value
	seeded  bool
	wantMax bool
}

func (a *maxMinAcc) Accumulate(v types.Value) error {
	if v.IsNull() {
		return nil
	}
	if !a.seeded {
		a.acc = v
		a.seeded = true
		return nil
	}
	cmp, comparable := types.Compare(v, a.acc)
	if !comparable {
		return dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "MAX/MIN operands are not comparable")
	}
	if (a.wantMax && cmp > 0) || (!a.wantMax && cmp < 0) {
		a.acc = v
	}
	return nil
}

func (a *maxMinAcc) Final() types.Value {
	if !a.seeded {
		return types.Null()
	}
	return a.acc
}
