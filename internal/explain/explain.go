// Package explain renders a logical plan as an indented, colorized text
// tree for the Explain physical operator (spec §4.7 "Explain ... emitting
// a single textual row describing the plan"). It is a pure text
// renderer: it never touches the plan's Build/execute path.
package explain

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"relcore/pkg/planner/logical"
)

var (
	opColor  = color.New(color.FgCyan, color.Bold)
	estColor = color.New(color.FgYellow)
)

// Render produces the indented plan tree starting at depth.
func Render(plan logical.Plan, depth int) string {
	var b strings.Builder
	render(&b, plan, depth)
	return b.String()
}

func render(b *strings.Builder, plan logical.Plan, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString(opColor.Sprint(describe(plan)))
	b.WriteString(" ")
	b.WriteString(estColor.Sprintf("(~%d rows)", plan.EstimatedRows()))
	b.WriteString("\n")
	for _, child := range plan.Children() {
		if child != nil {
			render(b, child, depth+1)
		}
	}
}

func describe(plan logical.Plan) string {
	switch p := plan.(type) {
	case *logical.TableGet:
		mode := "READ_ONLY"
		if p.Mode != 0 {
			mode = "READ_WRITE"
		}
		if p.Alias != "" && p.Alias != p.TableName {
			return fmt.Sprintf("TableGet(%s AS %s, %s)", p.TableName, p.Alias, mode)
		}
		return fmt.Sprintf("TableGet(%s, %s)", p.TableName, mode)
	case *logical.Join:
		return "Join"
	case *logical.Predicate:
		return fmt.Sprintf("Predicate(%s)", p.Expr.Header().DisplayName())
	case *logical.GroupBy:
		names := make([]string, len(p.GroupExprs))
		for i, e := range p.GroupExprs {
			names[i] = e.Header().DisplayName()
		}
		return fmt.Sprintf("GroupBy(%s)", strings.Join(names, ", "))
	case *logical.Project:
		names := make([]string, len(p.Exprs))
		for i, e := range p.Exprs {
			names[i] = e.Header().DisplayName()
		}
		return fmt.Sprintf("Project(%s)", strings.Join(names, ", "))
	case *logical.Insert:
		return "Insert"
	case *logical.Delete:
		return "Delete"
	case *logical.Update:
		return "Update"
	case *logical.Explain:
		return "Explain"
	case *logical.Calc:
		return "Calc"
	default:
		return "?"
	}
}
