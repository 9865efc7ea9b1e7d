// Package aggregate folds catalogue items into the three lacuna views: raw
// labels, approximate buckets and per-material numeric averages.
//
// Build is a pure function of its inputs. It keeps no package state, so two
// calls over the same items always return equal results.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
	"github.com/hazyhaar/ceramics-catalogue/pkg/lacuna"
)

// Reasons recorded for rows left out of the aggregates.
const (
	ReasonNoMaterial = "missing material"
	ReasonNoLacuna   = "missing lacuna"
	ReasonNoBoth     = "missing material and lacuna"
)

// GroupCounts counts rows per bucket and material: counts[bucket][material].
type GroupCounts map[string]map[string]int

func (g GroupCounts) add(bucket, material string) {
	m, ok := g[bucket]
	if !ok {
		m = make(map[string]int)
		g[bucket] = m
	}
	m[material]++
}

// Count returns the cell for bucket and material, zero when absent.
func (g GroupCounts) Count(bucket, material string) int {
	return g[bucket][material]
}

// Total is the sum of every cell.
func (g GroupCounts) Total() int {
	n := 0
	for _, m := range g {
		for _, c := range m {
			n += c
		}
	}
	return n
}

// MaterialAverage accumulates the numeric lacuna values of one material.
type MaterialAverage struct {
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// Average returns Sum/Count, or false when nothing was accumulated.
func (a MaterialAverage) Average() (float64, bool) {
	if a.Count == 0 {
		return 0, false
	}
	return a.Sum / float64(a.Count), true
}

// Rounded returns the average rounded to two decimals.
func (a MaterialAverage) Rounded() (float64, bool) {
	v, ok := a.Average()
	if !ok {
		return 0, false
	}
	return math.Round(v*100) / 100, true
}

// Unprocessed describes a row excluded from aggregation.
type Unprocessed struct {
	Line      int    `json:"line"`
	Inventory string `json:"inventory,omitempty"`
	Reason    string `json:"reason"`
}

// Options carries the lookup tables used by Build. Nil fields fall back to
// the built-in tables.
type Options struct {
	Translator *dict.Translator
	Approx     *lacuna.ApproxTable
	Numeric    *lacuna.NumericTable
}

// Result is the outcome of one fold. It is not modified after Build returns.
type Result struct {
	Raw      GroupCounts
	Approx   GroupCounts
	Averages map[string]MaterialAverage

	// Materials is the sorted set of translated materials of processed rows.
	Materials []string
	// RawLabels is the set of raw lacuna labels ordered by lacuna.SortLabels.
	RawLabels []string
	// ApproxLabels lists the buckets that received rows, in bucket order.
	ApproxLabels []string

	Unprocessed []Unprocessed
	Processed   int
	// Unbucketed counts processed rows whose label matched no bucket.
	Unbucketed int

	approxOrder []string
}

// Build runs the raw, approximate and numeric passes over items.
func Build(items []catalogue.Item, opts Options) *Result {
	approx := opts.Approx
	if approx == nil {
		approx = lacuna.DefaultApproxTable()
	}
	numeric := opts.Numeric
	if numeric == nil {
		numeric = lacuna.DefaultNumericTable()
	}
	tr := opts.Translator
	if tr == nil {
		tr = dict.NewTranslator(dict.Builtin()[dict.MaterialsID])
	}

	r := &Result{
		Raw:         make(GroupCounts),
		Approx:      make(GroupCounts),
		Averages:    make(map[string]MaterialAverage),
		approxOrder: approx.Order(),
	}
	materials := make(map[string]bool)
	labels := make(map[string]bool)

	for _, it := range items {
		rawMaterial := strings.TrimSpace(it.Material)
		label := strings.TrimSpace(it.Lacuna)
		if reason := missing(rawMaterial, label); reason != "" {
			r.Unprocessed = append(r.Unprocessed, Unprocessed{
				Line:      it.Line,
				Inventory: it.Inventory,
				Reason:    reason,
			})
			continue
		}
		material := tr.Translate(rawMaterial)
		r.Processed++
		materials[material] = true
		labels[label] = true

		r.Raw.add(label, material)

		if bucket, ok := approx.Classify(label); ok {
			r.Approx.add(bucket, material)
		} else {
			r.Unbucketed++
		}

		if v, ok := numeric.Value(label); ok {
			avg := r.Averages[material]
			avg.Sum += v
			avg.Count++
			r.Averages[material] = avg
		} else if _, seen := r.Averages[material]; !seen {
			r.Averages[material] = MaterialAverage{}
		}
	}

	r.Materials = sortedKeys(materials)
	r.RawLabels = sortedKeys(labels)
	lacuna.SortLabels(r.RawLabels)
	for _, b := range r.approxOrder {
		if _, ok := r.Approx[b]; ok {
			r.ApproxLabels = append(r.ApproxLabels, b)
		}
	}
	return r
}

func missing(material, label string) string {
	switch {
	case material == "" && label == "":
		return ReasonNoBoth
	case material == "":
		return ReasonNoMaterial
	case label == "":
		return ReasonNoLacuna
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BucketCount is one slice of a material's approximate distribution.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Distribution returns the approximate buckets of one material in bucket
// order. Every bucket of the table is listed, empty ones with a zero count.
func (r *Result) Distribution(material string) []BucketCount {
	out := make([]BucketCount, len(r.approxOrder))
	for i, b := range r.approxOrder {
		out[i] = BucketCount{Bucket: b, Count: r.Approx.Count(b, material)}
	}
	return out
}

// BucketOrder returns every bucket key of the approximate table.
func (r *Result) BucketOrder() []string {
	out := make([]string, len(r.approxOrder))
	copy(out, r.approxOrder)
	return out
}

// Series returns, for each label in labels, the count of material in g.
// It is the column layout the stacked charts and exports use.
func (g GroupCounts) Series(labels []string, material string) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = g.Count(l, material)
	}
	return out
}
