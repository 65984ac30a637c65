package tuple

import (
	"fmt"

	"relcore/pkg/types"
)

// ProjectTuple wraps a child tuple filtered/computed through a
// projection list: precomputed values, each carrying the name/alias the
// projection assigned it, so downstream FindCell lookups resolve by the
// output schema rather than the child's.
type ProjectTuple struct {
	values []types.Value
	names  []string
	alias  string
}

// NewProjectTuple builds a ProjectTuple from already-evaluated cell
// values and their output names. alias applies to every cell (used when
// the whole projected row stands in for one aliased sub-result).
func NewProjectTuple(values []types.Value, names []string, alias string) *ProjectTuple {
	return &ProjectTuple{values: values, names: names, alias: alias}
}

func (p *ProjectTuple) CellNum() int { return len(p.values) }

func (p *ProjectTuple) CellAt(i int) (types.Value, error) {
	if i < 0 || i >= len(p.values) {
		return types.Value{}, fmt.Errorf("cell index %d out of bounds [0,%d)", i, len(p.values))
	}
	return p.values[i], nil
}

func (p *ProjectTuple) FindCell(spec TupleCellSpec) (types.Value, bool, error) {
	if spec.TableAlias != "" && spec.TableAlias != p.alias {
		return types.Value{}, false, nil
	}
	for i, name := range p.names {
		if name == spec.FieldName {
			return p.values[i], true, nil
		}
	}
	return types.Value{}, false, nil
}
