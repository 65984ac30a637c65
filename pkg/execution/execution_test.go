package execution

import (
	"testing"

	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/expr"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

func newEmployees(t *testing.T) catalog.Table {
	t.Helper()
	meta := catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "name", Type: types.KindChars, Length: 36, FieldID: 1},
		{Name: "dept", Type: types.KindChars, Length: 20, FieldID: 2},
		{Name: "salary", Type: types.KindFloat, Length: 4, FieldID: 3},
	})
	table := catalog.NewMemTable(meta)
	seed(t, table, 1, "Ada", "Eng", 100)
	seed(t, table, 2, "Grace", "Eng", 200)
	seed(t, table, 3, "Kay", "Research", 150)
	return table
}

func seed(t *testing.T, table *catalog.MemTable, id int32, name, dept string, salary float32) {
	t.Helper()
	meta := table.TableMeta()
	buf := make([]byte, meta.RecordSize())
	for i, v := range []types.Value{types.NewInt(id), types.NewChars(name), types.NewChars(dept), types.NewFloat(salary)} {
		if err := tuple.EncodeField(buf, meta.FieldAt(i), i, v); err != nil {
			t.Fatal(err)
		}
	}
	rec, err := table.MakeRecord(buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := table.InsertRecord(rec); err != nil {
		t.Fatal(err)
	}
}

func drainAll(t *testing.T, op Operator) []tuple.Tuple {
	t.Helper()
	if err := op.Open(1); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer op.Close()

	var rows []tuple.Tuple
	for {
		row, err := op.Next()
		if err != nil {
			if dberr.IsEOF(err) {
				break
			}
			t.Fatalf("next: %v", err)
		}
		rows = append(rows, row)
	}
	return rows
}

func TestTableScanYieldsEveryRow(t *testing.T) {
	scan := NewTableScan(newEmployees(t), "employees", "employees", catalog.ReadOnly, nil)
	rows := drainAll(t, scan)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func nameField() *expr.FieldExpr {
	return expr.NewFieldExpr("employees", "name", "employees", 1, types.KindChars, 36)
}

func salaryField() *expr.FieldExpr {
	return expr.NewFieldExpr("employees", "salary", "employees", 3, types.KindFloat, 4)
}

func TestFilterDropsNonMatchingRows(t *testing.T) {
	scan := NewTableScan(newEmployees(t), "employees", "employees", catalog.ReadOnly, nil)
	predicate := expr.NewComparisonExpr(expr.CompareGT, salaryField(), expr.NewValueExpr(types.NewFloat(120)))
	filter := NewFilter(scan, predicate)

	rows := drainAll(t, filter)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows over 120 salary, got %d", len(rows))
	}
}

func TestProjectEvaluatesExpressions(t *testing.T) {
	scan := NewTableScan(newEmployees(t), "employees", "employees", catalog.ReadOnly, nil)
	proj := NewProject(scan, []expr.Expr{nameField()}, []string{"name"}, "")

	rows := drainAll(t, proj)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	v, err := rows[0].CellAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if v.AsChars() != "Ada" {
		t.Fatalf("expected Ada, got %q", v.AsChars())
	}
}

func TestProjectWithNoChildEmitsOneRowThenEOF(t *testing.T) {
	proj := NewProject(nil, []expr.Expr{expr.NewValueExpr(types.NewInt(7))}, []string{"seven"}, "")
	rows := drainAll(t, proj)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(rows))
	}
}

func TestJoinProducesCrossProduct(t *testing.T) {
	left := NewTableScan(newEmployees(t), "employees", "e", catalog.ReadOnly, nil)
	right := NewTableScan(newEmployees(t), "employees", "r", catalog.ReadOnly, nil)
	join := NewJoin(left, right)

	rows := drainAll(t, join)
	if len(rows) != 9 {
		t.Fatalf("expected 3x3=9 rows, got %d", len(rows))
	}
}

func TestGroupByPartitionsAndAggregates(t *testing.T) {
	scan := NewTableScan(newEmployees(t), "employees", "employees", catalog.ReadOnly, nil)
	deptField := expr.NewFieldExpr("employees", "dept", "employees", 2, types.KindChars, 20)
	gb := NewGroupBy(scan, []expr.Expr{deptField}, []AggregateSpec{
		{Function: aggregation.Count, Child: expr.NewValueExpr(types.NewInt(1))},
		{Function: aggregation.Avg, Child: salaryField()},
	})

	rows := drainAll(t, gb)
	if len(rows) != 2 {
		t.Fatalf("expected 2 groups (Eng, Research), got %d", len(rows))
	}

	found := map[string]types.Value{}
	for _, row := range rows {
		dept, _ := row.CellAt(0)
		count, _ := row.CellAt(1)
		found[dept.AsChars()] = count
	}
	if found["Eng"].AsInt() != 2 {
		t.Fatalf("expected 2 Eng employees, got %v", found["Eng"])
	}
	if found["Research"].AsInt() != 1 {
		t.Fatalf("expected 1 Research employee, got %v", found["Research"])
	}
}

func TestGroupByEmptyInputYieldsZeroDefaults(t *testing.T) {
	empty := catalog.NewMemTable(catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "salary", Type: types.KindFloat, Length: 4, FieldID: 0},
	}))
	scan := NewTableScan(empty, "employees", "employees", catalog.ReadOnly, nil)
	gb := NewGroupBy(scan, nil, []AggregateSpec{
		{Function: aggregation.Count, Child: expr.NewValueExpr(types.NewInt(1))},
	})

	rows := drainAll(t, gb)
	if len(rows) != 1 {
		t.Fatalf("expected one implicit group, got %d", len(rows))
	}
	count, err := rows[0].CellAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if count.AsInt() != 0 {
		t.Fatalf("expected COUNT=0 over empty input, got %v", count)
	}
}

func TestInsertAddsOneRecord(t *testing.T) {
	table := newEmployees(t)
	ins := NewInsert(table, []types.Value{types.NewInt(4), types.NewChars("Hedy"), types.NewChars("Eng"), types.NewFloat(180)})

	if err := ins.Open(1); err != nil {
		t.Fatal(err)
	}
	if _, err := ins.Next(); err != nil && !dberr.IsEOF(err) {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ins.Close(); err != nil {
		t.Fatal(err)
	}

	scan := NewTableScan(table, "employees", "employees", catalog.ReadOnly, nil)
	rows := drainAll(t, scan)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows after insert, got %d", len(rows))
	}
}

func TestInsertRejectsNullIntoNonNullableField(t *testing.T) {
	table := newEmployees(t)
	ins := NewInsert(table, []types.Value{types.NewInt(4), types.Null(), types.NewChars("Eng"), types.NewFloat(180)})

	if err := ins.Open(1); err != nil {
		t.Fatal(err)
	}
	_, err := ins.Next()
	if err == nil {
		t.Fatalf("expected an error inserting NULL into non-nullable field %q", "name")
	}
	ins.Close()

	scan := NewTableScan(table, "employees", "employees", catalog.ReadOnly, nil)
	rows := drainAll(t, scan)
	if len(rows) != 3 {
		t.Fatalf("expected the rejected insert to leave the table at 3 rows, got %d", len(rows))
	}
}

func TestDeleteRemovesMatchingRows(t *testing.T) {
	table := newEmployees(t)
	scan := NewTableScan(table, "employees", "employees", catalog.ReadWrite, nil)
	predicate := expr.NewComparisonExpr(expr.CompareEQ, nameField(), expr.NewValueExpr(types.NewChars("Ada")))
	filter := NewFilter(scan, predicate)
	del := NewDelete(filter, table)

	drainAll(t, del)

	remaining := drainAll(t, NewTableScan(table, "employees", "employees", catalog.ReadOnly, nil))
	if len(remaining) != 2 {
		t.Fatalf("expected 2 rows after delete, got %d", len(remaining))
	}
}

func TestUpdateAppliesAssignments(t *testing.T) {
	table := newEmployees(t)
	scan := NewTableScan(table, "employees", "employees", catalog.ReadWrite, nil)
	predicate := expr.NewComparisonExpr(expr.CompareEQ, nameField(), expr.NewValueExpr(types.NewChars("Ada")))
	filter := NewFilter(scan, predicate)

	salaryMeta, _ := table.TableMeta().Field("salary")
	upd := NewUpdate(filter, table, []UpdateAssignment{
		{Field: salaryMeta, Value: expr.NewValueExpr(types.NewFloat(999))},
	})

	drainAll(t, upd)

	rows := drainAll(t, NewTableScan(table, "employees", "employees", catalog.ReadOnly, nil))
	var sawUpdated bool
	for _, row := range rows {
		name, _ := row.CellAt(1)
		salary, _ := row.CellAt(3)
		if name.AsChars() == "Ada" && salary.AsFloat() == 999 {
			sawUpdated = true
		}
	}
	if !sawUpdated {
		t.Fatalf("expected Ada's salary to be updated to 999")
	}
}

func TestExplainEmitsSingleRowThenEOF(t *testing.T) {
	ex := NewExplain("TableGet(employees, READ_ONLY)")
	rows := drainAll(t, ex)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 explain row, got %d", len(rows))
	}
	text, err := rows[0].CellAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if text.AsChars() != "TableGet(employees, READ_ONLY)" {
		t.Fatalf("unexpected plan text: %q", text.AsChars())
	}
}

func TestCalcEvaluatesWithNoFrom(t *testing.T) {
	calc := NewCalc([]expr.Expr{expr.NewValueExpr(types.NewInt(42))}, []string{"answer"})
	rows := drainAll(t, calc)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 calc row, got %d", len(rows))
	}
}
