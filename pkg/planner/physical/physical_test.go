package physical

import (
	"testing"

	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/execution"
	"relcore/pkg/expr"
	"relcore/pkg/planner/logical"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

func testTable(t *testing.T) catalog.Table {
	t.Helper()
	table := catalog.NewMemTable(catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "name", Type: types.KindChars, Length: 36, FieldID: 1},
	}))
	meta := table.TableMeta()
	for _, row := range [][2]any{{int32(1), "Ada"}, {int32(2), "Grace"}} {
		buf := make([]byte, meta.RecordSize())
		if err := tuple.EncodeField(buf, meta.FieldAt(0), 0, types.NewInt(row[0].(int32))); err != nil {
			t.Fatal(err)
		}
		if err := tuple.EncodeField(buf, meta.FieldAt(1), 1, types.NewChars(row[1].(string))); err != nil {
			t.Fatal(err)
		}
		rec, err := table.MakeRecord(buf)
		if err != nil {
			t.Fatal(err)
		}
		if err := table.InsertRecord(rec); err != nil {
			t.Fatal(err)
		}
	}
	return table
}

func drain(t *testing.T, op execution.Operator) int {
	t.Helper()
	if err := op.Open(1); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer op.Close()
	count := 0
	for {
		_, err := op.Next()
		if err != nil {
			if dberr.IsEOF(err) {
				break
			}
			t.Fatalf("next: %v", err)
		}
		count++
	}
	return count
}

func TestBuildTableGetProducesTableScan(t *testing.T) {
	plan := &logical.TableGet{Table: testTable(t), TableName: "employees", Alias: "employees", Mode: catalog.ReadOnly}
	op, err := Build(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := op.(*execution.TableScan); !ok {
		t.Fatalf("expected *execution.TableScan, got %T", op)
	}
	if count := drain(t, op); count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestBuildJoinComposesChildOperators(t *testing.T) {
	left := &logical.TableGet{Table: testTable(t), TableName: "employees", Alias: "l", Mode: catalog.ReadOnly}
	right := &logical.TableGet{Table: testTable(t), TableName: "employees", Alias: "r", Mode: catalog.ReadOnly}
	op, err := Build(&logical.Join{Left: left, Right: right})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := drain(t, op); count != 4 {
		t.Fatalf("expected 2x2=4 rows, got %d", count)
	}
}

func TestBuildInsertEvaluatesLiteralValuesEagerly(t *testing.T) {
	table := testTable(t)
	fm, _ := table.TableMeta().Field("id")
	plan := &logical.Insert{
		Table: table,
		Values: []logical.ExprOrValue{
			{Field: fm, Expr: expr.NewValueExpr(types.NewInt(3))},
		},
	}
	op, err := Build(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := op.(*execution.Insert); !ok {
		t.Fatalf("expected *execution.Insert, got %T", op)
	}
}

func TestBuildExplainRendersPlanTextWithoutExecutingChild(t *testing.T) {
	child := &logical.TableGet{Table: testTable(t), TableName: "employees", Alias: "employees", Mode: catalog.ReadOnly}
	op, err := Build(&logical.Explain{Child: child})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex, ok := op.(*execution.Explain)
	if !ok {
		t.Fatalf("expected *execution.Explain, got %T", op)
	}
	if count := drain(t, ex); count != 1 {
		t.Fatalf("expected exactly 1 explain row, got %d", count)
	}
}

func TestBuildCalcHasNoChildOperator(t *testing.T) {
	op, err := Build(&logical.Calc{
		Exprs: []expr.Expr{expr.NewValueExpr(types.NewInt(1))},
		Names: []string{"one"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := drain(t, op); count != 1 {
		t.Fatalf("expected exactly 1 calc row, got %d", count)
	}
}

func TestWireSubqueriesInAttachesAdapterRecursively(t *testing.T) {
	inner := &logical.TableGet{Table: testTable(t), TableName: "employees", Alias: "employees", Mode: catalog.ReadOnly}
	subq := expr.NewSubqueryExpr("inner")
	subq.LogicalPlan = inner

	cmp := expr.NewComparisonExpr(expr.CompareExists, nil, subq)
	if err := wireSubqueriesIn(cmp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subq.Operator == nil {
		t.Fatalf("expected wireSubqueriesIn to attach an operator to the subquery expression")
	}
}

func TestWireSubqueriesInIsNilSafe(t *testing.T) {
	if err := wireSubqueriesIn(nil); err != nil {
		t.Fatalf("expected nil expr to be a no-op, got %v", err)
	}
}
