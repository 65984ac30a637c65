// Package fixtures loads catalog schemas and seed rows from YAML files
// into an in-memory catalog.MemCatalog, for callers that want a
// populated catalog without hand-building one in Go. The demo CLI does
// not use it; it builds its catalog in Go (internal/demo).
package fixtures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"relcore/pkg/catalog"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

func encodeInto(buf []byte, f *catalog.FieldMeta, fieldIndex int, v types.Value) error {
	return tuple.EncodeField(buf, f, fieldIndex, v)
}

// FieldSpec is one field entry in a fixture file's schema block.
type FieldSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Length   int    `yaml:"length"`
	Nullable bool   `yaml:"nullable"`
}

// TableSpec is one fixture file's full contents: a table's schema plus
// its seed rows, each row given as a name-keyed map so field order in
// the YAML needn't match the schema's declared order.
type TableSpec struct {
	Table  string              `yaml:"table"`
	Fields []FieldSpec         `yaml:"fields"`
	Rows   []map[string]any `yaml:"rows"`
}

// LoadDir parses every *.yaml file in dir concurrently and merges the
// resulting tables into a fresh MemCatalog. One file's parse error
// aborts the whole load: it cancels the group's context, so reads that
// have not started yet are skipped; reads already under way still run
// to completion.
func LoadDir(ctx context.Context, dir string) (*catalog.MemCatalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fixture dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	specs := make([]*TableSpec, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			spec, err := loadFile(p)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			specs[i] = spec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat := catalog.NewMemCatalog()
	for _, spec := range specs {
		table, err := buildTable(spec)
		if err != nil {
			return nil, fmt.Errorf("building table %s: %w", spec.Table, err)
		}
		cat.AddTable(table)
	}
	return cat, nil
}

func loadFile(path string) (*TableSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec TableSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func kindFromYAML(s string) (types.Kind, error) {
	switch s {
	case "int":
		return types.KindInt, nil
	case "float":
		return types.KindFloat, nil
	case "chars":
		return types.KindChars, nil
	case "date":
		return types.KindDate, nil
	case "boolean":
		return types.KindBoolean, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}

// buildTable turns one parsed TableSpec into a populated MemTable: the
// schema block defines field offsets (via catalog.NewTableMeta), then
// each row is encoded into a fresh record buffer and inserted.
func buildTable(spec *TableSpec) (catalog.Table, error) {
	fields := make([]*catalog.FieldMeta, len(spec.Fields))
	for i, f := range spec.Fields {
		kind, err := kindFromYAML(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		length := f.Length
		if length == 0 {
			length = defaultLength(kind)
		}
		fields[i] = &catalog.FieldMeta{
			Name:     f.Name,
			Type:     kind,
			Length:   length,
			Nullable: f.Nullable,
			FieldID:  i,
		}
	}
	meta := catalog.NewTableMeta(spec.Table, fields)
	table := catalog.NewMemTable(meta)

	for _, row := range spec.Rows {
		buf := make([]byte, meta.RecordSize())
		for i, f := range meta.Fields() {
			raw, ok := row[f.Name]
			val, err := valueFromYAML(raw, ok, f.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s row field %s: %w", spec.Table, f.Name, err)
			}
			if err := encodeInto(buf, f, i, val); err != nil {
				return nil, err
			}
		}
		rec, err := table.MakeRecord(buf)
		if err != nil {
			return nil, err
		}
		if err := table.InsertRecord(rec); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func defaultLength(kind types.Kind) int {
	switch kind {
	case types.KindInt, types.KindDate, types.KindFloat:
		return 4
	case types.KindBoolean:
		return 1
	case types.KindChars:
		return 64
	default:
		return 4
	}
}

func valueFromYAML(raw any, present bool, kind types.Kind) (types.Value, error) {
	if !present || raw == nil {
		return types.Null(), nil
	}
	switch kind {
	case types.KindInt:
		return types.NewInt(int32(toInt(raw))), nil
	case types.KindFloat:
		return types.NewFloat(float32(toFloat(raw))), nil
	case types.KindDate:
		return types.NewDate(int32(toInt(raw))), nil
	case types.KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return types.Value{}, fmt.Errorf("expected boolean, got %T", raw)
		}
		return types.NewBool(b), nil
	case types.KindChars:
		s, ok := raw.(string)
		if !ok {
			return types.Value{}, fmt.Errorf("expected string, got %T", raw)
		}
		return types.NewChars(s), nil
	default:
		return types.Value{}, fmt.Errorf("unsupported field kind %v", kind)
	}
}

func toInt(raw any) int64 {
	switch v := raw.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toFloat(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
