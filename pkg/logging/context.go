package logging

import "log/slog"

// WithComponent creates a logger tagged with the owning subsystem, e.g.
// "binder", "planner", "execution".
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithOpTx creates a logger tagged with the current operator kind and a
// query/transaction identifier, for execution-time tracing.
func WithOpTx(op string, txID int64) *slog.Logger {
	return GetLogger().With("op", op, "tx_id", txID)
}

// WithTable creates a logger tagged with a table name, for catalog and
// scan-related logging.
func WithTable(tableName string) *slog.Logger {
	return GetLogger().With("table", tableName)
}
