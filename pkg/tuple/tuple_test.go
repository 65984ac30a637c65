package tuple

import (
	"testing"

	"relcore/pkg/catalog"
	"relcore/pkg/types"
)

func employeeMeta() catalog.TableMeta {
	return catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "name", Type: types.KindChars, Length: 16, FieldID: 1},
	})
}

func employeeRow(t *testing.T, meta catalog.TableMeta, id int32, name string) *catalog.Record {
	t.Helper()
	buf := make([]byte, meta.RecordSize())
	if err := EncodeField(buf, meta.FieldAt(0), 0, types.NewInt(id)); err != nil {
		t.Fatal(err)
	}
	if err := EncodeField(buf, meta.FieldAt(1), 1, types.NewChars(name)); err != nil {
		t.Fatal(err)
	}
	return &catalog.Record{RID: catalog.RowID(id), Bytes: buf}
}

func TestRowTupleCellAtSkipsSystemFields(t *testing.T) {
	meta := catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "_rid", Type: types.KindInt, Length: 4, FieldID: 0, IsSys: true},
		{Name: "name", Type: types.KindChars, Length: 16, FieldID: 1},
	})
	buf := make([]byte, meta.RecordSize())
	if err := EncodeField(buf, meta.FieldAt(0), 0, types.NewInt(99)); err != nil {
		t.Fatal(err)
	}
	if err := EncodeField(buf, meta.FieldAt(1), 1, types.NewChars("Ada")); err != nil {
		t.Fatal(err)
	}
	row := NewRowTuple("employees", "employees", meta, &catalog.Record{Bytes: buf})

	if row.CellNum() != 1 {
		t.Fatalf("expected 1 user-visible cell, got %d", row.CellNum())
	}
	v, err := row.CellAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if v.AsChars() != "Ada" {
		t.Fatalf("expected cell 0 to be the non-system field, got %q", v.AsChars())
	}
}

func TestRowTupleCellAtOutOfBounds(t *testing.T) {
	meta := employeeMeta()
	row := NewRowTuple("employees", "employees", meta, employeeRow(t, meta, 1, "Ada"))
	if _, err := row.CellAt(5); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}

func TestRowTupleFindCellMatchesByAliasFirst(t *testing.T) {
	meta := employeeMeta()
	row := NewRowTuple("employees", "e", meta, employeeRow(t, meta, 1, "Ada"))

	v, ok, err := row.FindCell(TupleCellSpec{TableAlias: "e", FieldName: "name"})
	if err != nil || !ok {
		t.Fatalf("expected alias match, got ok=%v err=%v", ok, err)
	}
	if v.AsChars() != "Ada" {
		t.Fatalf("expected Ada, got %q", v.AsChars())
	}

	if _, ok, _ := row.FindCell(TupleCellSpec{TableAlias: "other", FieldName: "name"}); ok {
		t.Fatalf("expected no match for a different alias")
	}
}

func TestRowTupleFindCellFallsBackToTableName(t *testing.T) {
	meta := employeeMeta()
	row := NewRowTuple("employees", "", meta, employeeRow(t, meta, 1, "Ada"))

	v, ok, err := row.FindCell(TupleCellSpec{TableName: "employees", FieldName: "id"})
	if err != nil || !ok {
		t.Fatalf("expected table-name match, got ok=%v err=%v", ok, err)
	}
	if v.AsInt() != 1 {
		t.Fatalf("expected id 1, got %v", v)
	}
}

func TestRowTupleFindCellUnqualifiedMatchesAnyTable(t *testing.T) {
	meta := employeeMeta()
	row := NewRowTuple("employees", "e", meta, employeeRow(t, meta, 1, "Ada"))

	_, ok, err := row.FindCell(TupleCellSpec{FieldName: "name"})
	if err != nil || !ok {
		t.Fatalf("expected unqualified lookup to match, got ok=%v err=%v", ok, err)
	}
}

func TestRowTupleFindCellMissingFieldReturnsNotOk(t *testing.T) {
	meta := employeeMeta()
	row := NewRowTuple("employees", "e", meta, employeeRow(t, meta, 1, "Ada"))

	_, ok, err := row.FindCell(TupleCellSpec{TableAlias: "e", FieldName: "nonexistent"})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected no match for a nonexistent field")
	}
}

func TestJoinedTupleConcatenatesCellsLeftMajor(t *testing.T) {
	leftMeta := employeeMeta()
	left := NewRowTuple("employees", "e", leftMeta, employeeRow(t, leftMeta, 1, "Ada"))

	deptMeta := catalog.NewTableMeta("departments", []*catalog.FieldMeta{
		{Name: "dept", Type: types.KindChars, Length: 16, FieldID: 0},
	})
	buf := make([]byte, deptMeta.RecordSize())
	if err := EncodeField(buf, deptMeta.FieldAt(0), 0, types.NewChars("Eng")); err != nil {
		t.Fatal(err)
	}
	right := NewRowTuple("departments", "d", deptMeta, &catalog.Record{Bytes: buf})

	joined := NewJoinedTuple(left, right)
	if joined.CellNum() != 3 {
		t.Fatalf("expected 2+1=3 cells, got %d", joined.CellNum())
	}

	v0, _ := joined.CellAt(0)
	v2, _ := joined.CellAt(2)
	if v0.AsInt() != 1 {
		t.Fatalf("expected cell 0 to come from the left tuple, got %v", v0)
	}
	if v2.AsChars() != "Eng" {
		t.Fatalf("expected cell 2 to come from the right tuple, got %v", v2)
	}

	if _, err := joined.CellAt(3); err == nil {
		t.Fatalf("expected out-of-bounds error past both sides")
	}
}

func TestJoinedTupleFindCellPrefersLeftSide(t *testing.T) {
	leftMeta := employeeMeta()
	left := NewRowTuple("employees", "e", leftMeta, employeeRow(t, leftMeta, 1, "Ada"))

	rightMeta := catalog.NewTableMeta("departments", []*catalog.FieldMeta{
		{Name: "name", Type: types.KindChars, Length: 16, FieldID: 0},
	})
	buf := make([]byte, rightMeta.RecordSize())
	if err := EncodeField(buf, rightMeta.FieldAt(0), 0, types.NewChars("Eng")); err != nil {
		t.Fatal(err)
	}
	right := NewRowTuple("departments", "d", rightMeta, &catalog.Record{Bytes: buf})

	joined := NewJoinedTuple(left, right)
	v, ok, err := joined.FindCell(TupleCellSpec{FieldName: "name"})
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if v.AsChars() != "Ada" {
		t.Fatalf("expected the left tuple's field to win an unqualified lookup, got %q", v.AsChars())
	}
}

func TestProjectTupleFindCellByOutputName(t *testing.T) {
	p := NewProjectTuple([]types.Value{types.NewInt(7), types.NewChars("seven")}, []string{"n", "label"}, "")
	v, ok, err := p.FindCell(TupleCellSpec{FieldName: "label"})
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if v.AsChars() != "seven" {
		t.Fatalf("expected 'seven', got %q", v.AsChars())
	}
}

func TestProjectTupleFindCellRejectsMismatchedAlias(t *testing.T) {
	p := NewProjectTuple([]types.Value{types.NewInt(7)}, []string{"n"}, "sub")
	if _, ok, _ := p.FindCell(TupleCellSpec{TableAlias: "other", FieldName: "n"}); ok {
		t.Fatalf("expected a mismatched alias to miss")
	}
	if _, ok, _ := p.FindCell(TupleCellSpec{TableAlias: "sub", FieldName: "n"}); !ok {
		t.Fatalf("expected a matching alias to hit")
	}
}

func TestProjectTupleCellAtOutOfBounds(t *testing.T) {
	p := NewProjectTuple([]types.Value{types.NewInt(1)}, []string{"n"}, "")
	if _, err := p.CellAt(1); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}

func TestValueListTupleNeverMatchesFindCell(t *testing.T) {
	v := NewValueListTuple([]types.Value{types.NewInt(1), types.NewInt(2)})
	if v.CellNum() != 2 {
		t.Fatalf("expected 2 cells, got %d", v.CellNum())
	}
	if _, ok, _ := v.FindCell(TupleCellSpec{FieldName: "anything"}); ok {
		t.Fatalf("ValueListTuple should never resolve a named lookup")
	}
	cell, err := v.CellAt(1)
	if err != nil || cell.AsInt() != 2 {
		t.Fatalf("expected cell 1 to be 2, got %v err=%v", cell, err)
	}
}

func TestEmptyTupleHasZeroCellsAndNeverMatches(t *testing.T) {
	var e EmptyTuple
	if e.CellNum() != 0 {
		t.Fatalf("expected 0 cells, got %d", e.CellNum())
	}
	if _, err := e.CellAt(0); err == nil {
		t.Fatalf("expected an error indexing into an empty tuple")
	}
	if _, ok, _ := e.FindCell(TupleCellSpec{FieldName: "x"}); ok {
		t.Fatalf("EmptyTuple should never resolve a named lookup")
	}
}
