package binder

import (
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/expr"
	"relcore/pkg/types"
)

// aggDepth tracks nesting for the "no aggregate may nest inside another
// aggregate" rule; threaded through BindExpr via a small wrapper rather
// than a package global, since binding is otherwise reentrant across
// concurrent statements.
type binding struct {
	ctx      *Context
	aggDepth int
}

// BindExpr resolves every Star/UnboundField/UnboundAggregation node in e
// against ctx, returning a tree with no unbound node remaining. Star is
// rejected here since it expands to more than one node; callers that
// may see a bare `*` (select lists) must call ExpandStar first.
func BindExpr(ctx *Context, e expr.Expr) (expr.Expr, error) {
	b := &binding{ctx: ctx}
	return b.bind(e)
}

func (b *binding) bind(e expr.Expr) (expr.Expr, error) {
	switch n := e.(type) {
	case *expr.StarExpr:
		return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "* is not valid in this position")

	case *expr.UnboundFieldExpr:
		return b.bindField(n)

	case *expr.UnboundAggregationExpr:
		return b.bindAggregation(n)

	case *expr.FieldExpr, *expr.ValueExpr:
		return e, nil

	case *expr.CastExpr:
		child, err := b.bind(n.Child())
		if err != nil {
			return nil, err
		}
		return expr.NewCastExpr(child, n.ValueType()), nil

	case *expr.ArithmeticExpr:
		left, err := b.bind(n.Left())
		if err != nil {
			return nil, err
		}
		right, err := b.bind(n.Right())
		if err != nil {
			return nil, err
		}
		return expr.NewArithmeticExpr(n.Op(), left, right, arithResultType(n.Op(), left.ValueType(), right.ValueType())), nil

	case *expr.ComparisonExpr:
		var left expr.Expr
		var err error
		if n.Left() != nil {
			left, err = b.bind(n.Left())
			if err != nil {
				return nil, err
			}
		}
		right, err := b.bind(n.Right())
		if err != nil {
			return nil, err
		}
		return expr.NewComparisonExpr(n.Op(), left, right), nil

	case *expr.ConjunctionExpr:
		children := make([]expr.Expr, len(n.Children()))
		for i, c := range n.Children() {
			bound, err := b.bind(c)
			if err != nil {
				return nil, err
			}
			children[i] = bound
		}
		return expr.NewConjunctionExpr(n.Op(), children), nil

	case *expr.IsExpr:
		left, err := b.bind(n.Left())
		if err != nil {
			return nil, err
		}
		right, err := b.bind(n.Right())
		if err != nil {
			return nil, err
		}
		if right.Kind() != expr.KindValue {
			return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "IS requires a NULL or Boolean literal")
		}
		return expr.NewIsExpr(left, right), nil

	case *expr.LikeExpr:
		child, err := b.bind(n.Child())
		if err != nil {
			return nil, err
		}
		pattern, err := b.bind(n.Pattern())
		if err != nil {
			return nil, err
		}
		if child.ValueType() != types.KindChars || pattern.ValueType() != types.KindChars {
			return nil, dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "LIKE requires CHARS operands")
		}
		return expr.NewLikeExpr(child, pattern, n.Negated()), nil

	case *expr.SysFunctionExpr:
		args := make([]expr.Expr, len(n.Args()))
		for i, a := range n.Args() {
			bound, err := b.bind(a)
			if err != nil {
				return nil, err
			}
			args[i] = bound
		}
		return bindSysFunction(n.Function(), args)

	case *expr.ValueListExpr, *expr.SubqueryExpr:
		// Subqueries arrive already bound (their own SelectStmt was bound
		// recursively when the statement was built); ValueList literals
		// need no resolution. Pass through unchanged (spec §4.3
		// "ValueList/Subquery: pass through").
		return e, nil

	default:
		return e, nil
	}
}

// bindField resolves an UnboundField against the local scope first, then
// walks outer scopes in turn — the correlated-subquery fallback spec
// §4.3 describes ("parent scopes are added for correlated subqueries").
func (b *binding) bindField(n *expr.UnboundFieldExpr) (expr.Expr, error) {
	tableName := n.TableName()
	fieldName := n.Header().Name

	for ctx := b.ctx; ctx != nil; ctx = ctx.outer {
		if tableName != "" {
			st, ok := ctx.findTableByAliasOrName(tableName)
			if !ok {
				continue
			}
			fm, ok := st.table.TableMeta().Field(fieldName)
			if !ok {
				return nil, dberr.Newf(dberr.SchemaFieldMissing, dberr.CategoryUser, "field %q not found on table %q", fieldName, tableName)
			}
			return expr.NewFieldExpr(qualifierFor(ctx, st), fieldName, st.alias, fm.FieldID, fm.Type, fm.Length), nil
		}

		var match *scopeTable
		var fm *catalog.FieldMeta
		for i := range ctx.tables {
			st := &ctx.tables[i]
			if f, ok := st.table.TableMeta().Field(fieldName); ok {
				if match != nil {
					return nil, dberr.Newf(dberr.InvalidArgument, dberr.CategoryUser, "ambiguous field %q", fieldName)
				}
				match = st
				fm = f
			}
		}
		if match != nil {
			return expr.NewFieldExpr(qualifierFor(ctx, *match), fieldName, match.alias, fm.FieldID, fm.Type, fm.Length), nil
		}
	}

	if tableName != "" {
		return nil, dberr.Newf(dberr.SchemaTableNotExist, dberr.CategoryUser, "table %q not in scope", tableName)
	}
	return nil, dberr.Newf(dberr.SchemaFieldMissing, dberr.CategoryUser, "field %q not found", fieldName)
}

// qualifierFor returns the table-name qualifier a FieldExpr should carry:
// empty when ctx has only one table in scope (nothing to disambiguate),
// else the table's real name.
func qualifierFor(ctx *Context, st scopeTable) string {
	if len(ctx.tables) == 1 {
		return ""
	}
	return st.name
}

func (b *binding) bindAggregation(n *expr.UnboundAggregationExpr) (expr.Expr, error) {
	if b.aggDepth > 0 {
		return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "aggregate functions may not nest")
	}
	b.aggDepth++
	defer func() { b.aggDepth-- }()

	child := n.Child()
	if child == nil {
		child = expr.NewValueExpr(types.NewInt(1))
	}
	boundChild, err := b.bind(child)
	if err != nil {
		return nil, err
	}

	var valueType types.Kind
	switch n.Function() {
	case expr.AggCount:
		valueType = types.KindInt
	case expr.AggSum, expr.AggMax, expr.AggMin:
		if boundChild.ValueType() != types.KindInt && boundChild.ValueType() != types.KindFloat {
			if n.Function() == expr.AggSum {
				return nil, dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "SUM requires an INT or FLOAT argument")
			}
		}
		valueType = boundChild.ValueType()
	case expr.AggAvg:
		if boundChild.ValueType() != types.KindInt && boundChild.ValueType() != types.KindFloat {
			return nil, dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "AVG requires an INT or FLOAT argument")
		}
		valueType = types.KindFloat
	}

	return expr.NewAggregationExpr(n.Function(), boundChild, valueType), nil
}

func arithResultType(op expr.ArithOp, left, right types.Kind) types.Kind {
	if op == expr.ArithDiv {
		return types.KindFloat
	}
	if left == types.KindInt && right == types.KindInt {
		return types.KindInt
	}
	return types.KindFloat
}

func bindSysFunction(fn expr.SysFunc, args []expr.Expr) (expr.Expr, error) {
	switch fn {
	case expr.SysFuncLength:
		if len(args) != 1 || args[0].ValueType() != types.KindChars {
			return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "LENGTH requires one CHARS argument")
		}
		return expr.NewSysFunctionExpr(fn, args, types.KindInt), nil
	case expr.SysFuncRound:
		if len(args) < 1 || len(args) > 2 {
			return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "ROUND requires one or two arguments")
		}
		if args[0].ValueType() != types.KindFloat && args[0].ValueType() != types.KindInt {
			return nil, dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "ROUND requires a numeric first argument")
		}
		if len(args) == 2 && args[1].ValueType() != types.KindInt {
			return nil, dberr.New(dberr.SchemaFieldTypeMismatch, dberr.CategoryUser, "ROUND precision must be INT")
		}
		return expr.NewSysFunctionExpr(fn, args, types.KindFloat), nil
	case expr.SysFuncDateFormat:
		if len(args) != 2 || args[0].ValueType() != types.KindDate || args[1].ValueType() != types.KindChars {
			return nil, dberr.New(dberr.InvalidArgument, dberr.CategoryUser, "DATE_FORMAT requires (DATE, CHARS)")
		}
		return expr.NewSysFunctionExpr(fn, args, types.KindChars), nil
	default:
		return nil, dberr.Newf(dberr.InvalidArgument, dberr.CategoryUser, "unknown system function %v", fn)
	}
}

// ExpandStar expands a Star node into one FieldExpr per non-system
// field of the matched table (or every context table, for a bare `*`
// with no qualifier) — spec §4.3 "Star: expand to Field for every
// non-system field of the matched table, or across all context tables".
func ExpandStar(ctx *Context, star *expr.StarExpr) ([]expr.Expr, error) {
	var tables []scopeTable
	if star.TableName() != "" {
		st, ok := ctx.findTableByAliasOrName(star.TableName())
		if !ok {
			return nil, dberr.Newf(dberr.SchemaTableNotExist, dberr.CategoryUser, "table %q not in scope", star.TableName())
		}
		tables = []scopeTable{st}
	} else {
		tables = ctx.tables
	}

	var out []expr.Expr
	for _, st := range tables {
		meta := st.table.TableMeta()
		qualifier := st.name
		if len(ctx.tables) == 1 {
			qualifier = ""
		}
		for i := 0; i < meta.FieldNum(); i++ {
			fm := meta.FieldAt(i)
			if fm.IsSys {
				continue
			}
			out = append(out, expr.NewFieldExpr(qualifier, fm.Name, st.alias, fm.FieldID, fm.Type, fm.Length))
		}
	}
	return out, nil
}

// BindSelectList expands any Star in list and binds every remaining
// expression, returning the bound list alongside each entry's display
// name (its alias if one was set by the caller, else its bound name).
func BindSelectList(ctx *Context, list []expr.Expr) ([]expr.Expr, []string, error) {
	var bound []expr.Expr
	for _, e := range list {
		if star, ok := e.(*expr.StarExpr); ok {
			expanded, err := ExpandStar(ctx, star)
			if err != nil {
				return nil, nil, err
			}
			bound = append(bound, expanded...)
			continue
		}
		b, err := BindExpr(ctx, e)
		if err != nil {
			return nil, nil, err
		}
		bound = append(bound, b)
	}
	names := make([]string, len(bound))
	for i, e := range bound {
		names[i] = e.Header().DisplayName()
	}
	return bound, names, nil
}
