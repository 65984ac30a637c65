package execution

import (
	"relcore/pkg/catalog"
	"relcore/pkg/dberr"
	"relcore/pkg/tuple"
)

// TableScan opens a record scanner on its table in the requested mode
// and decodes each record into a RowTuple as it is pulled. It accepts
// an optional caller-supplied local predicate (the physical planner
// passes none); rows failing it are skipped without surfacing through
// Filter above. Every Open re-reads the scanner fresh, so inside a
// correlated subquery a local predicate referencing outer columns sees
// the current outer row.
type TableScan struct {
	table       catalog.Table
	tableName   string
	alias       string
	mode        catalog.ScanMode
	localFilter func(t tuple.Tuple) (bool, error)

	scanner catalog.Scanner
	outer   tuple.Tuple
}

// NewTableScan builds a scan over table. localFilter may be nil.
func NewTableScan(table catalog.Table, tableName, alias string, mode catalog.ScanMode, localFilter func(tuple.Tuple) (bool, error)) *TableScan {
	return &TableScan{table: table, tableName: tableName, alias: alias, mode: mode, localFilter: localFilter}
}

func (s *TableScan) SetOuterTuple(outer tuple.Tuple) { s.outer = outer }

func (s *TableScan) Open(txID int64) error {
	scanner, err := s.table.GetRecordScanner(txID, s.mode)
	if err != nil {
		return dberr.Wrap(err, dberr.Internal, "table scan open", s.tableName)
	}
	s.scanner = scanner
	return nil
}

func (s *TableScan) Next() (tuple.Tuple, error) {
	for {
		rec, err := s.scanner.Next()
		if err != nil {
			return nil, dberr.Wrap(err, dberr.Internal, "table scan next", s.tableName)
		}
		if rec == nil {
			return nil, dberr.ErrRecordEOF
		}
		row := tuple.NewRowTuple(s.tableName, s.alias, s.table.TableMeta(), rec)
		if s.localFilter == nil {
			return row, nil
		}
		ok, err := s.localFilter(rowOrJoined(row, s.outer))
		if err != nil {
			return nil, err
		}
		if ok {
			return row, nil
		}
	}
}

func (s *TableScan) Close() error {
	if s.scanner == nil {
		return nil
	}
	err := s.scanner.Close()
	s.scanner = nil
	return err
}
