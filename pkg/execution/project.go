package execution

import (
	"relcore/pkg/dberr"
	"relcore/pkg/expr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Project wraps the child's current tuple into a ProjectTuple whose
// cells are the evaluated projection expressions, named per each
// expression's display name (spec §4.7 Project). A Project with no
// child (e.g. SELECT LENGTH('abc')) drives its single output row from
// an EmptyTuple and then reports EOF.
type Project struct {
	child Operator // nil for a child-less projection
	exprs []expr.Expr
	names []string
	alias string

	emittedEmptyRow bool
	outer           tuple.Tuple
}

// NewProject builds a Project above child (nil for a child-less
// projection) evaluating exprs, each displayed under names[i].
func NewProject(child Operator, exprs []expr.Expr, names []string, alias string) *Project {
	return &Project{child: child, exprs: exprs, names: names, alias: alias}
}

func (p *Project) SetOuterTuple(outer tuple.Tuple) {
	p.outer = outer
	if p.child != nil {
		if oa, ok := p.child.(OuterAware); ok {
			oa.SetOuterTuple(outer)
		}
	}
}

func (p *Project) Open(txID int64) error {
	p.emittedEmptyRow = false
	if p.child == nil {
		return nil
	}
	return p.child.Open(txID)
}

func (p *Project) Next() (tuple.Tuple, error) {
	if p.child == nil {
		if p.emittedEmptyRow {
			return nil, dberr.ErrRecordEOF
		}
		p.emittedEmptyRow = true
		return p.project(tuple.EmptyTuple{})
	}

	row, err := p.child.Next()
	if err != nil {
		return nil, err
	}
	return p.project(rowOrJoined(row, p.outer))
}

func (p *Project) project(source tuple.Tuple) (tuple.Tuple, error) {
	values := make([]types.Value, len(p.exprs))
	for i, e := range p.exprs {
		v, err := e.EvalRow(source)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return tuple.NewProjectTuple(values, p.names, p.alias), nil
}

func (p *Project) Close() error {
	if p.child == nil {
		return nil
	}
	return p.child.Close()
}
