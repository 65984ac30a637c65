// Package demo wires a small in-memory catalog and a handful of named
// query scenarios through the binder, logical and physical planners,
// for cmd/relcore and internal/tui to run and render. Scenarios are
// built directly as expr.Expr trees rather than parsed from SQL text,
// since parsing is out of this core's scope; a scenario's "query text"
// field is display-only.
package demo

import (
	"relcore/pkg/binder"
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/execution"
	"relcore/pkg/expr"
	"relcore/pkg/planner/logical"
	"relcore/pkg/planner/physical"
	"relcore/pkg/stmt"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Scenario is one canned, runnable statement.
type Scenario struct {
	Name        string
	Description string
	QueryText   string // illustrative only; never parsed
	build       func(cat catalog.Catalog) (stmt.Stmt, error)
}

// Result is a scenario's output: column names and each row's cells in
// column order, collected by draining its physical operator to EOF.
type Result struct {
	Columns []string
	Rows    [][]types.Value
}

// Catalog builds the demo catalog: employees(id, name, dept, salary)
// and departments(id, name, budget).
func Catalog() *catalog.MemCatalog {
	cat := catalog.NewMemCatalog()

	employees := catalog.NewMemTable(catalog.NewTableMeta("employees", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "name", Type: types.KindChars, Length: 36, FieldID: 1},
		{Name: "dept", Type: types.KindChars, Length: 20, FieldID: 2},
		{Name: "salary", Type: types.KindFloat, Length: 4, FieldID: 3},
	}))
	departments := catalog.NewMemTable(catalog.NewTableMeta("departments", []*catalog.FieldMeta{
		{Name: "id", Type: types.KindInt, Length: 4, FieldID: 0},
		{Name: "name", Type: types.KindChars, Length: 20, FieldID: 1},
		{Name: "budget", Type: types.KindFloat, Length: 4, FieldID: 2},
	}))

	cat.AddTable(employees)
	cat.AddTable(departments)

	seedEmployee(employees, 1, "Ada Lovelace", "Engineering", 142000)
	seedEmployee(employees, 2, "Grace Hopper", "Engineering", 151000)
	seedEmployee(employees, 3, "Katherine Johnson", "Research", 138000)
	seedDepartment(departments, 1, "Engineering", 900000)
	seedDepartment(departments, 2, "Research", 500000)

	return cat
}

func seedEmployee(t *catalog.MemTable, id int32, name, dept string, salary float32) {
	meta := t.TableMeta()
	buf := make([]byte, meta.RecordSize())
	encodeRow(buf, meta, types.NewInt(id), types.NewChars(name), types.NewChars(dept), types.NewFloat(salary))
	rec, err := t.MakeRecord(buf)
	if err != nil {
		panic(err)
	}
	if err := t.InsertRecord(rec); err != nil {
		panic(err)
	}
}

func seedDepartment(t *catalog.MemTable, id int32, name string, budget float32) {
	meta := t.TableMeta()
	buf := make([]byte, meta.RecordSize())
	encodeRow(buf, meta, types.NewInt(id), types.NewChars(name), types.NewFloat(budget))
	rec, err := t.MakeRecord(buf)
	if err != nil {
		panic(err)
	}
	if err := t.InsertRecord(rec); err != nil {
		panic(err)
	}
}

func encodeRow(buf []byte, meta catalog.TableMeta, values ...types.Value) {
	for i, v := range values {
		if err := tuple.EncodeField(buf, meta.FieldAt(i), i, v); err != nil {
			panic(err)
		}
	}
}

// Scenarios lists every canned query this demo can run or explain.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "select-all",
			Description: "every column of every employee",
			QueryText:   "SELECT * FROM employees",
			build:       buildSelectAll,
		},
		{
			Name:        "filtered",
			Description: "employees earning over 140000",
			QueryText:   "SELECT name, salary FROM employees WHERE salary > 140000",
			build:       buildFiltered,
		},
		{
			Name:        "grouped",
			Description: "headcount and average salary per department",
			QueryText:   "SELECT dept, COUNT(*), AVG(salary) FROM employees GROUP BY dept",
			build:       buildGrouped,
		},
		{
			Name:        "join",
			Description: "employees joined to their department's budget",
			QueryText:   "SELECT e.name, d.budget FROM employees e, departments d WHERE e.dept = d.name",
			build:       buildJoin,
		},
		{
			Name:        "calc",
			Description: "a FROM-less expression list",
			QueryText:   "CALC LENGTH('relcore'), ROUND(3.14159, 2)",
			build:       buildCalc,
		},
	}
}

func buildSelectAll(cat catalog.Catalog) (stmt.Stmt, error) {
	ctx := binder.NewContext(cat)
	if err := ctx.AddTable("employees", "employees"); err != nil {
		return nil, err
	}
	exprs, names, err := binder.BindSelectList(ctx, []expr.Expr{expr.NewStarExpr("")})
	if err != nil {
		return nil, err
	}
	return &stmt.SelectStmt{
		Tables:       tablesOf(ctx, cat, "employees"),
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   exprs,
		QueryNames:   names,
	}, nil
}

func buildFiltered(cat catalog.Catalog) (stmt.Stmt, error) {
	ctx := binder.NewContext(cat)
	if err := ctx.AddTable("employees", "employees"); err != nil {
		return nil, err
	}
	exprs, names, err := binder.BindSelectList(ctx, []expr.Expr{
		expr.NewUnboundFieldExpr("", "name"),
		expr.NewUnboundFieldExpr("", "salary"),
	})
	if err != nil {
		return nil, err
	}
	filter, err := binder.BindExpr(ctx, expr.NewComparisonExpr(
		expr.CompareGT,
		expr.NewUnboundFieldExpr("", "salary"),
		expr.NewValueExpr(types.NewFloat(140000)),
	))
	if err != nil {
		return nil, err
	}
	return &stmt.SelectStmt{
		Tables:       tablesOf(ctx, cat, "employees"),
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   exprs,
		QueryNames:   names,
		FilterExpr:   filter,
	}, nil
}

func buildGrouped(cat catalog.Catalog) (stmt.Stmt, error) {
	ctx := binder.NewContext(cat)
	if err := ctx.AddTable("employees", "employees"); err != nil {
		return nil, err
	}
	groupBy, err := binder.BindExpr(ctx, expr.NewUnboundFieldExpr("", "dept"))
	if err != nil {
		return nil, err
	}
	exprs, names, err := binder.BindSelectList(ctx, []expr.Expr{
		expr.NewUnboundFieldExpr("", "dept"),
		expr.NewUnboundAggregationExpr(expr.AggCount, nil),
		expr.NewUnboundAggregationExpr(expr.AggAvg, expr.NewUnboundFieldExpr("", "salary")),
	})
	if err != nil {
		return nil, err
	}
	return &stmt.SelectStmt{
		Tables:       tablesOf(ctx, cat, "employees"),
		TableNames:   []string{"employees"},
		TableAliases: []string{"employees"},
		QueryExprs:   exprs,
		QueryNames:   names,
		GroupByExprs: []expr.Expr{groupBy},
	}, nil
}

func buildJoin(cat catalog.Catalog) (stmt.Stmt, error) {
	ctx := binder.NewContext(cat)
	if err := ctx.AddTable("employees", "e"); err != nil {
		return nil, err
	}
	if err := ctx.AddTable("departments", "d"); err != nil {
		return nil, err
	}
	exprs, names, err := binder.BindSelectList(ctx, []expr.Expr{
		expr.NewUnboundFieldExpr("e", "name"),
		expr.NewUnboundFieldExpr("d", "budget"),
	})
	if err != nil {
		return nil, err
	}
	filter, err := binder.BindExpr(ctx, expr.NewComparisonExpr(
		expr.CompareEQ,
		expr.NewUnboundFieldExpr("e", "dept"),
		expr.NewUnboundFieldExpr("d", "name"),
	))
	if err != nil {
		return nil, err
	}
	return &stmt.SelectStmt{
		Tables:       tablesOf(ctx, cat, "employees", "departments"),
		TableNames:   []string{"employees", "departments"},
		TableAliases: []string{"e", "d"},
		QueryExprs:   exprs,
		QueryNames:   names,
		FilterExpr:   filter,
	}, nil
}

func buildCalc(cat catalog.Catalog) (stmt.Stmt, error) {
	ctx := binder.NewContext(cat)
	exprs, names, err := binder.BindSelectList(ctx, []expr.Expr{
		expr.NewSysFunctionExpr(expr.SysFuncLength, []expr.Expr{expr.NewValueExpr(types.NewChars("relcore"))}, types.KindInt),
		expr.NewSysFunctionExpr(expr.SysFuncRound, []expr.Expr{
			expr.NewValueExpr(types.NewFloat(3.14159)),
			expr.NewValueExpr(types.NewInt(2)),
		}, types.KindFloat),
	})
	if err != nil {
		return nil, err
	}
	return &stmt.CalcStmt{Exprs: exprs, Names: names}, nil
}

func tablesOf(ctx *binder.Context, cat catalog.Catalog, names ...string) []catalog.Table {
	tables := make([]catalog.Table, len(names))
	for i, n := range names {
		t, _ := cat.FindTable(n)
		tables[i] = t
	}
	return tables
}

// Run builds, plans and executes the scenario named name against cat,
// draining its operator to EOF.
func Run(cat catalog.Catalog, name string) (*Result, error) {
	s, err := findScenario(name)
	if err != nil {
		return nil, err
	}
	bound, err := s.build(cat)
	if err != nil {
		return nil, err
	}
	plan, err := logical.Build(bound)
	if err != nil {
		return nil, err
	}
	op, err := physical.Build(plan)
	if err != nil {
		return nil, err
	}
	return drain(op, columnNames(plan))
}

// Explain builds and logically plans the scenario, returning its
// rendered plan text without executing anything.
func Explain(cat catalog.Catalog, name string) (string, error) {
	s, err := findScenario(name)
	if err != nil {
		return "", err
	}
	bound, err := s.build(cat)
	if err != nil {
		return "", err
	}
	plan, err := logical.Build(bound)
	if err != nil {
		return "", err
	}
	explainPlan := &logical.Explain{Child: plan}
	op, err := physical.Build(explainPlan)
	if err != nil {
		return "", err
	}
	result, err := drain(op, []string{"plan"})
	if err != nil {
		return "", err
	}
	if len(result.Rows) == 0 {
		return "", nil
	}
	return result.Rows[0][0].AsChars(), nil
}

func findScenario(name string) (Scenario, error) {
	for _, s := range Scenarios() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, &unknownScenarioError{name: name}
}

type unknownScenarioError struct{ name string }

func (e *unknownScenarioError) Error() string { return "unknown scenario: " + e.name }

func columnNames(plan logical.Plan) []string {
	switch p := plan.(type) {
	case *logical.Project:
		return p.Names
	case *logical.Calc:
		return p.Names
	default:
		return nil
	}
}

func drain(op execution.Operator, columns []string) (*Result, error) {
	if err := op.Open(1); err != nil {
		return nil, err
	}
	defer op.Close()

	result := &Result{Columns: columns}
	for {
		row, err := op.Next()
		if err != nil {
			if dberr.IsEOF(err) {
				break
			}
			return nil, err
		}
		values := make([]types.Value, len(columns))
		for i := range columns {
			v, err := row.CellAt(i)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		result.Rows = append(result.Rows, values)
	}
	return result, nil
}
