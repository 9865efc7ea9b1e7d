package lacuna

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables bundles the two classification tables.
type Tables struct {
	Approx  *ApproxTable
	Numeric *NumericTable
}

// DefaultTables returns the built-in approximate and numeric tables.
func DefaultTables() Tables {
	return Tables{Approx: DefaultApproxTable(), Numeric: DefaultNumericTable()}
}

type tablesFile struct {
	Buckets []Bucket      `yaml:"buckets"`
	Numeric *NumericTable `yaml:"numeric"`
}

// LoadTables reads tables from a YAML file. Sections absent from the file,
// or a missing file, fall back to the defaults.
func LoadTables(path string) (Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return Tables{}, fmt.Errorf("read lacuna tables: %w", err)
	}

	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Tables{}, fmt.Errorf("parse lacuna tables %s: %w", path, err)
	}
	if len(f.Buckets) > 0 {
		approx, err := NewApproxTable(f.Buckets)
		if err != nil {
			return Tables{}, fmt.Errorf("%s: %w", path, err)
		}
		t.Approx = approx
	}
	if f.Numeric != nil {
		t.Numeric = f.Numeric
	}
	return t, nil
}
