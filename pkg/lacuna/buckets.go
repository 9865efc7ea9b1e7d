package lacuna

import (
	"fmt"
	"strings"
)

// Bucket is one approximate group and the literal labels it accepts.
type Bucket struct {
	Key      string   `yaml:"key" json:"key"`
	Variants []string `yaml:"variants" json:"variants"`
}

// ApproxTable assigns raw labels to approximate buckets. Bucket order is the
// display order; variant sets are disjoint, so a label belongs to at most
// one bucket whatever order the buckets are scanned in.
type ApproxTable struct {
	order []string
	index map[string]string // variant -> bucket key
}

// NewApproxTable validates buckets and builds the table. It rejects empty
// or repeated bucket keys and any variant claimed by two buckets.
func NewApproxTable(buckets []Bucket) (*ApproxTable, error) {
	t := &ApproxTable{index: make(map[string]string)}
	seen := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		if b.Key == "" {
			return nil, fmt.Errorf("approx table: empty bucket key")
		}
		if seen[b.Key] {
			return nil, fmt.Errorf("approx table: duplicate bucket %q", b.Key)
		}
		seen[b.Key] = true
		t.order = append(t.order, b.Key)

		for _, v := range b.Variants {
			v = strings.TrimSpace(v)
			if prev, dup := t.index[v]; dup {
				return nil, fmt.Errorf("approx table: label %q claimed by buckets %q and %q", v, prev, b.Key)
			}
			t.index[v] = b.Key
		}
	}
	return t, nil
}

// MustApproxTable is NewApproxTable for tables known to be valid.
func MustApproxTable(buckets []Bucket) *ApproxTable {
	t, err := NewApproxTable(buckets)
	if err != nil {
		panic(err)
	}
	return t
}

// Classify returns the bucket whose variant set contains the trimmed label.
func (t *ApproxTable) Classify(label string) (string, bool) {
	key, ok := t.index[strings.TrimSpace(label)]
	return key, ok
}

// Order returns the bucket keys in display order, including empty buckets.
func (t *ApproxTable) Order() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// UnknownBucket is the key of the bucket holding explicitly unknown values.
const UnknownBucket = "unknown"

// DefaultBuckets is the approximate grouping used by the catalogue charts.
// Bucket "45" has no variants; it is kept for a regular axis.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Key: "0", Variants: []string{"0"}},
		{Key: "5", Variants: []string{"<5", "0-5"}},
		{Key: "10", Variants: []string{"<10", "10"}},
		{Key: "15", Variants: []string{"15", "10-20", "10-15"}},
		{Key: "20", Variants: []string{"15-20", "20"}},
		{Key: "25", Variants: []string{"<25", "20-25"}},
		{Key: "30", Variants: []string{"30", "<30", "25-30"}},
		{Key: "35", Variants: []string{"30-40", ">30", "35"}},
		{Key: "40", Variants: []string{"40", "<40"}},
		{Key: "45"},
		{Key: "50", Variants: []string{"50"}},
		{Key: ">50", Variants: []string{">50", ">70", "60"}},
		{Key: UnknownBucket, Variants: []string{"(?)"}},
	}
}

// DefaultApproxTable returns the table built from DefaultBuckets.
func DefaultApproxTable() *ApproxTable {
	return MustApproxTable(DefaultBuckets())
}
