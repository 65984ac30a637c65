package execution

import (
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Explain emits a single textual row describing a plan, already
// rendered to text by the internal/explain package ahead of open; it
// never executes the wrapped plan.
type Explain struct {
	planText string
	emitted  bool
}

// NewExplain builds an Explain over a pre-rendered plan description.
func NewExplain(planText string) *Explain {
	return &Explain{planText: planText}
}

func (e *Explain) Open(int64) error {
	e.emitted = false
	return nil
}

func (e *Explain) Next() (tuple.Tuple, error) {
	if e.emitted {
		return nil, dberr.ErrRecordEOF
	}
	e.emitted = true
	return tuple.NewValueListTuple([]types.Value{types.NewChars(e.planText)}), nil
}

func (e *Explain) Close() error { return nil }
