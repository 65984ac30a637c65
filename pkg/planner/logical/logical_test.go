package logical

import (
	"testing"

	"relcore/pkg/catalog"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/expr"
	"relcore/pkg/stmt"
	"relcore/pkg/types"
)

func testTable(t *testing.T) catalog.Table {
	t.Helper()
	return catalog.NewMemTable(catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "dept", Type: types.KindChars, Length: 20, FieldID: 1},
		{Name: "salary", Type: types.KindFloat, Length: 4, FieldID: 2},
	}))
}

func deptField() *expr.FieldExpr {
	return expr.NewFieldExpr("employees", "dept", "employees", 1, types.KindChars, 20)
}

func salaryField() *expr.FieldExpr {
	return expr.NewFieldExpr("employees", "salary", "employees", 2, types.KindFloat, 4)
}

func TestBuildSelectProducesLeftDeepChainAndProject(t *testing.T) {
	table := testTable(t)
	s := &stmt.SelectStmt{
		Tables:       []catalog.Table{table},
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   []expr.Expr{deptField()},
		QueryNames:   []string{"dept"},
	}

	plan, err := Build(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proj, ok := plan.(*Project)
	if !ok {
		t.Fatalf("expected *Project at the root, got %T", plan)
	}
	if _, ok := proj.Child.(*TableGet); !ok {
		t.Fatalf("expected *TableGet under a single-table select, got %T", proj.Child)
	}
}

func TestBuildSelectWithPredicateInsertsPredicateNode(t *testing.T) {
	table := testTable(t)
	s := &stmt.SelectStmt{
		Tables:       []catalog.Table{table},
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   []expr.Expr{deptField()},
		QueryNames:   []string{"dept"},
		FilterExpr:   expr.NewComparisonExpr(expr.CompareGT, salaryField(), expr.NewValueExpr(types.NewFloat(100))),
	}

	plan, err := Build(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proj := plan.(*Project)
	if _, ok := proj.Child.(*Predicate); !ok {
		t.Fatalf("expected *Predicate under Project, got %T", proj.Child)
	}
}

func TestBuildSelectTwoTablesProducesJoin(t *testing.T) {
	table := testTable(t)
	s := &stmt.SelectStmt{
		Tables:       []catalog.Table{table, table},
		TableNames:   []string{"employees", "employees"},
		TableAliases: []string{"e1", "e2"},
		QueryExprs:   []expr.Expr{deptField()},
		QueryNames:   []string{"dept"},
	}

	plan, err := Build(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proj := plan.(*Project)
	if _, ok := proj.Child.(*Join); !ok {
		t.Fatalf("expected *Join under Project for a 2-table FROM, got %T", proj.Child)
	}
}

func TestBuildGroupByAssignsPosToAggregatesAndGroupExprs(t *testing.T) {
	table := testTable(t)
	groupExpr := deptField()
	agg := expr.NewAggregationExpr(expr.AggCount, expr.NewValueExpr(types.NewInt(1)), types.KindInt)

	s := &stmt.SelectStmt{
		Tables:       []catalog.Table{table},
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   []expr.Expr{groupExpr, agg},
		QueryNames:   []string{"dept", "COUNT(*)"},
		GroupByExprs: []expr.Expr{groupExpr},
	}

	plan, err := Build(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proj := plan.(*Project)
	gb, ok := proj.Child.(*GroupBy)
	if !ok {
		t.Fatalf("expected *GroupBy under Project, got %T", proj.Child)
	}
	if len(gb.AggSpecs) != 1 {
		t.Fatalf("expected 1 aggregate spec, got %d", len(gb.AggSpecs))
	}
	if gb.AggSpecs[0].Function != aggregation.Count {
		t.Fatalf("expected Count accumulator, got %v", gb.AggSpecs[0].Function)
	}
	if agg.Header().Pos != 1 {
		t.Fatalf("expected aggregate pos 1 (len(groupBy)=1 + index 0), got %d", agg.Header().Pos)
	}
	if groupExpr.Header().Pos != 0 {
		t.Fatalf("expected group expression pos 0, got %d", groupExpr.Header().Pos)
	}
}

func TestBuildGroupByRejectsUnmatchedNonAggregateSelectExpr(t *testing.T) {
	table := testTable(t)
	s := &stmt.SelectStmt{
		Tables:       []catalog.Table{table},
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   []expr.Expr{salaryField()},
		QueryNames:   []string{"salary"},
		GroupByExprs: []expr.Expr{deptField()},
	}

	_, err := Build(s)
	if err == nil {
		t.Fatalf("expected an error: salary is neither aggregated nor grouped by")
	}
}

func TestBuildInsertWrapsTableGetless(t *testing.T) {
	table := testTable(t)
	fm, _ := table.TableMeta().Field("id")
	s := &stmt.InsertStmt{
		Table:  table,
		Values: []stmt.ValueFor{{Field: fm, Value: types.NewInt(1)}},
	}
	plan, err := Build(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := plan.(*Insert); !ok {
		t.Fatalf("expected *Insert, got %T", plan)
	}
}

func TestBuildUpdateAndDeleteUseReadWriteTableGet(t *testing.T) {
	table := testTable(t)
	fm, _ := table.TableMeta().Field("salary")

	updatePlan, err := Build(&stmt.UpdateStmt{
		Table:       table,
		TableName:   "employees",
		Assignments: []stmt.UpdateAssignment{{Field: fm, Value: expr.NewValueExpr(types.NewFloat(1))}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upd, ok := updatePlan.(*Update)
	if !ok {
		t.Fatalf("expected *Update, got %T", updatePlan)
	}
	tg, ok := upd.Child.(*TableGet)
	if !ok || tg.Mode != catalog.ReadWrite {
		t.Fatalf("expected Update's child TableGet to be READ_WRITE")
	}

	deletePlan, err := Build(&stmt.DeleteStmt{Table: table, TableName: "employees"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	del, ok := deletePlan.(*Delete)
	if !ok {
		t.Fatalf("expected *Delete, got %T", deletePlan)
	}
	tg, ok = del.Child.(*TableGet)
	if !ok || tg.Mode != catalog.ReadWrite {
		t.Fatalf("expected Delete's child TableGet to be READ_WRITE")
	}
}

func TestBuildExplainWrapsChildWithoutExecuting(t *testing.T) {
	table := testTable(t)
	child := &stmt.SelectStmt{
		Tables:       []catalog.Table{table},
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   []expr.Expr{deptField()},
		QueryNames:   []string{"dept"},
	}
	plan, err := Build(&stmt.ExplainStmt{Child: child})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex, ok := plan.(*Explain)
	if !ok {
		t.Fatalf("expected *Explain, got %T", plan)
	}
	if ex.EstimatedRows() != 1 {
		t.Fatalf("Explain itself always reports 1 descriptive row")
	}
}

func TestBuildCalcHasNoChildren(t *testing.T) {
	plan, err := Build(&stmt.CalcStmt{
		Exprs: []expr.Expr{expr.NewValueExpr(types.NewInt(1))},
		Names: []string{"one"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Children()) != 0 {
		t.Fatalf("Calc should have no children")
	}
}

func TestContainsAggregationRecursesThroughComparisonAndSysFunction(t *testing.T) {
	agg := expr.NewAggregationExpr(expr.AggSum, salaryField(), types.KindFloat)
	wrapped := expr.NewSysFunctionExpr(expr.SysFuncRound, []expr.Expr{agg, expr.NewValueExpr(types.NewInt(2))}, types.KindFloat)
	if !containsAggregation(wrapped) {
		t.Fatalf("expected an aggregate nested inside a SysFunction argument to be detected")
	}

	cmp := expr.NewComparisonExpr(expr.CompareGT, agg, expr.NewValueExpr(types.NewFloat(0)))
	if !containsAggregation(cmp) {
		t.Fatalf("expected an aggregate nested inside a Comparison operand to be detected")
	}
}
