// Package binder implements the catalog-aware semantic resolution pass
// (spec §4.3 Binder): Star expansion, UnboundField/UnboundAggregation
// resolution, table alias discipline, and aggregation/grouping shape
// validation. It turns a parser-produced unbound expression tree into a
// bound one with no Unbound*/Star node remaining, and assembles the
// bound statement forms in pkg/stmt.
package binder

import (
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
)

// scopeTable is one table visible to name resolution in the current
// scope, under its real name and an optional alias.
type scopeTable struct {
	table catalog.Table
	name  string
	alias string
}

// Context carries the tables visible to resolution in the current
// scope. Correlated subqueries add their parent's Context as
// outer rather than merging scopes, so an inner UnboundField that
// fails to resolve locally can fall back to the outer query (spec
// §4.3 "parent scopes are added for correlated subqueries").
type Context struct {
	catalog catalog.Catalog
	tables  []scopeTable
	outer   *Context
}

// NewContext builds a root binder context over catalog c.
func NewContext(c catalog.Catalog) *Context {
	return &Context{catalog: c}
}

// NewChildContext builds a context for a subquery's own FROM list, able
// to fall back to parent for correlated column references.
func (ctx *Context) NewChildContext() *Context {
	return &Context{catalog: ctx.catalog, outer: ctx}
}

// AddTable resolves tableName through the catalog and adds it to scope
// under alias (alias may equal tableName when none was given).
func (ctx *Context) AddTable(tableName, alias string) error {
	t, ok := ctx.catalog.FindTable(tableName)
	if !ok {
		return dberr.Newf(dberr.SchemaTableNotExist, dberr.CategoryUser, "table %q does not exist", tableName)
	}
	for _, st := range ctx.tables {
		if st.alias == alias {
			return dberr.Newf(dberr.InvalidArgument, dberr.CategoryUser, "duplicate table alias %q", alias)
		}
	}
	ctx.tables = append(ctx.tables, scopeTable{table: t, name: tableName, alias: alias})
	return nil
}

// Tables returns the scope's tables in FROM order.
func (ctx *Context) Tables() []scopeTable { return ctx.tables }

// findTableByAliasOrName resolves a qualifier the parser attached to a
// field reference, preferring alias over raw name (spec §4.3).
func (ctx *Context) findTableByAliasOrName(qualifier string) (scopeTable, bool) {
	for _, st := range ctx.tables {
		if st.alias == qualifier {
			return st, true
		}
	}
	for _, st := range ctx.tables {
		if st.name == qualifier {
			return st, true
		}
	}
	return scopeTable{}, false
}
