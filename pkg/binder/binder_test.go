package binder

import (
	"testing"

	"relcore/pkg/catalog"
	"relcore/pkg/expr"
	"relcore/pkg/types"
)

func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	cat := catalog.NewMemCatalog()
	cat.AddTable(catalog.NewMemTable(catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "name", Type: types.KindChars, Length: 36, FieldID: 1},
		{Name: "salary", Type: types.KindFloat, Length: 4, FieldID: 2},
	})))
	cat.AddTable(catalog.NewMemTable(catalog.NewTableMeta("departments", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "name", Type: types.KindChars, Length: 20, FieldID: 1},
	})))
	return cat
}

func TestBindFieldResolvesUnqualified(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "employees"); err != nil {
		t.Fatal(err)
	}
	bound, err := BindExpr(ctx, expr.NewUnboundFieldExpr("", "name"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := bound.(*expr.FieldExpr)
	if !ok {
		t.Fatalf("expected *expr.FieldExpr, got %T", bound)
	}
	if f.Header().Name != "name" {
		t.Fatalf("expected field name %q, got %q", "name", f.Header().Name)
	}
}

func TestBindFieldAmbiguousAcrossTables(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "e"); err != nil {
		t.Fatal(err)
	}
	if err := ctx.AddTable("departments", "d"); err != nil {
		t.Fatal(err)
	}
	_, err := BindExpr(ctx, expr.NewUnboundFieldExpr("", "id"))
	if err == nil {
		t.Fatalf("expected ambiguous field error, got nil")
	}
}

func TestBindFieldMissing(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "employees"); err != nil {
		t.Fatal(err)
	}
	_, err := BindExpr(ctx, expr.NewUnboundFieldExpr("", "nonexistent"))
	if err == nil {
		t.Fatalf("expected missing-field error, got nil")
	}
}

func TestBindFieldFallsBackToOuterScope(t *testing.T) {
	outer := NewContext(testCatalog(t))
	if err := outer.AddTable("employees", "e"); err != nil {
		t.Fatal(err)
	}
	inner := outer.NewChildContext()
	if err := inner.AddTable("departments", "d"); err != nil {
		t.Fatal(err)
	}

	bound, err := BindExpr(inner, expr.NewUnboundFieldExpr("e", "name"))
	if err != nil {
		t.Fatalf("expected correlated field to resolve through outer scope, got %v", err)
	}
	if bound.(*expr.FieldExpr).Header().Name != "name" {
		t.Fatalf("expected field name %q", "name")
	}
}

func TestBindFieldOuterTableNotInEitherScope(t *testing.T) {
	outer := NewContext(testCatalog(t))
	if err := outer.AddTable("employees", "e"); err != nil {
		t.Fatal(err)
	}
	inner := outer.NewChildContext()
	if err := inner.AddTable("departments", "d"); err != nil {
		t.Fatal(err)
	}

	_, err := BindExpr(inner, expr.NewUnboundFieldExpr("nope", "name"))
	if err == nil {
		t.Fatalf("expected table-not-in-scope error, got nil")
	}
}

func TestBindAggregationCountStarDefaultsToOne(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "employees"); err != nil {
		t.Fatal(err)
	}
	bound, err := BindExpr(ctx, expr.NewUnboundAggregationExpr(expr.AggCount, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agg, ok := bound.(*expr.AggregationExpr)
	if !ok {
		t.Fatalf("expected *expr.AggregationExpr, got %T", bound)
	}
	if agg.Child().ValueType() != types.KindInt {
		t.Fatalf("COUNT(*) child should be the literal Int(1)")
	}
}

func TestBindAggregationRejectsNesting(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "employees"); err != nil {
		t.Fatal(err)
	}
	nested := expr.NewUnboundAggregationExpr(expr.AggSum, expr.NewUnboundAggregationExpr(expr.AggCount, nil))
	_, err := BindExpr(ctx, nested)
	if err == nil {
		t.Fatalf("expected nested-aggregate error, got nil")
	}
}

func TestBindAggregationAvgRejectsNonNumeric(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "employees"); err != nil {
		t.Fatal(err)
	}
	_, err := BindExpr(ctx, expr.NewUnboundAggregationExpr(expr.AggAvg, expr.NewUnboundFieldExpr("", "name")))
	if err == nil {
		t.Fatalf("expected type error for AVG over CHARS")
	}
}

func TestExpandStarUnqualified(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "employees"); err != nil {
		t.Fatal(err)
	}
	exprs, err := ExpandStar(ctx, expr.NewStarExpr(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exprs) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(exprs))
	}
}

func TestBindSysFunctionLengthRequiresChars(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	_, err := BindExpr(ctx, expr.NewSysFunctionExpr(expr.SysFuncLength, []expr.Expr{expr.NewValueExpr(types.NewInt(1))}, types.KindInt))
	if err == nil {
		t.Fatalf("expected type error for LENGTH(INT)")
	}
}

func TestBindStarRejectedOutsideSelectList(t *testing.T) {
	ctx := NewContext(testCatalog(t))
	if err := ctx.AddTable("employees", "employees"); err != nil {
		t.Fatal(err)
	}
	_, err := BindExpr(ctx, expr.NewStarExpr(""))
	if err == nil {
		t.Fatalf("expected bare * to be rejected by BindExpr")
	}
}
