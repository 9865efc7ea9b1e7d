package lacuna

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unknown is the sentinel a numeric table maps explicitly unknown labels to.
const Unknown = "unknown"

// NumericTable maps literal labels to a representative percentage.
type NumericTable struct {
	values  map[string]float64
	unknown map[string]bool
}

// NewNumericTable builds a table from label -> number entries and a list of
// labels known to carry no number.
func NewNumericTable(values map[string]float64, unknown []string) *NumericTable {
	t := &NumericTable{
		values:  make(map[string]float64, len(values)),
		unknown: make(map[string]bool, len(unknown)),
	}
	for k, v := range values {
		t.values[strings.TrimSpace(k)] = v
	}
	for _, k := range unknown {
		k = strings.TrimSpace(k)
		delete(t.values, k)
		t.unknown[k] = true
	}
	return t
}

// Value returns the number for label. ok is false for unmapped labels and
// for labels mapped to the unknown sentinel.
func (t *NumericTable) Value(label string) (float64, bool) {
	v, ok := t.values[strings.TrimSpace(label)]
	return v, ok
}

// IsUnknown reports whether label is explicitly mapped to the sentinel.
func (t *NumericTable) IsUnknown(label string) bool {
	return t.unknown[strings.TrimSpace(label)]
}

// Len returns the number of labels with a numeric value.
func (t *NumericTable) Len() int {
	return len(t.values)
}

// UnmarshalYAML reads a mapping whose values are numbers or "unknown":
//
//	"<10": 8
//	"(?)": unknown
func (t *NumericTable) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	values := make(map[string]float64, len(raw))
	var unknown []string
	for k, v := range raw {
		if strings.EqualFold(strings.TrimSpace(v), Unknown) {
			unknown = append(unknown, k)
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("numeric table: label %q: %w", k, err)
		}
		values[k] = n
	}
	*t = *NewNumericTable(values, unknown)
	return nil
}

// DefaultNumericTable returns the midpoints used for per-material averages.
func DefaultNumericTable() *NumericTable {
	return NewNumericTable(map[string]float64{
		"0":     0,
		"<5":    3,
		"0-5":   2,
		"<10":   8,
		"10":    10,
		"10-15": 12,
		"15":    15,
		"10-20": 15,
		"15-20": 17,
		"20":    20,
		"20-25": 22,
		"<25":   23,
		"25-30": 27,
		"<30":   28,
		"30":    30,
		">30":   32,
		"30-40": 35,
		"35":    35,
		"<40":   38,
		"40":    40,
		"50":    50,
		">50":   52,
		"60":    60,
		">70":   72,
	}, []string{"(?)"})
}
