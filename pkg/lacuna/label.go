// Package lacuna classifies the free-text "missing percentage" of a ceramic
// fragment. Values are opaque labels ("<10", "15-20", ">50", "(?)") until one
// of the tables in this package buckets them.
package lacuna

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the syntactic form of a lacuna label.
type Kind int

const (
	KindUnknown Kind = iota // not parseable as a number
	KindExact               // "10"
	KindBelow               // "<10"
	KindAbove               // ">50"
	KindRange               // "15-20"
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindBelow:
		return "below"
	case KindAbove:
		return "above"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Parse returns the form of label and the sort key it implies: "<N" sorts
// just before N (N-0.1), ">N" just after (N+0.1), "A-B" at its midpoint.
// Unparseable labels get +Inf so they sort last.
func Parse(label string) (Kind, float64) {
	label = strings.TrimSpace(label)
	switch {
	case strings.HasPrefix(label, "<"):
		if n, ok := leadingFloat(label[1:]); ok {
			return KindBelow, n - 0.1
		}
		return KindUnknown, math.Inf(1)
	case strings.HasPrefix(label, ">"):
		if n, ok := leadingFloat(label[1:]); ok {
			return KindAbove, n + 0.1
		}
		return KindUnknown, math.Inf(1)
	}
	if parts := strings.Split(label, "-"); len(parts) == 2 {
		a, okA := leadingFloat(parts[0])
		b, okB := leadingFloat(parts[1])
		if okA && okB {
			return KindRange, (a + b) / 2
		}
	}
	if n, ok := leadingFloat(label); ok {
		return KindExact, n
	}
	return KindUnknown, math.Inf(1)
}

// SortKey is the numeric ordering key of a raw label.
func SortKey(label string) float64 {
	_, k := Parse(label)
	return k
}

// SortLabels orders labels by SortKey, breaking ties by the label text.
func SortLabels(labels []string) {
	keys := make(map[string]float64, len(labels))
	for _, l := range labels {
		keys[l] = SortKey(l)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		ki, kj := keys[labels[i]], keys[labels[j]]
		if ki != kj {
			return ki < kj
		}
		return labels[i] < labels[j]
	})
}

// leadingFloat parses the longest numeric prefix of s after leading
// whitespace, so "10%" reads as 10 and "%10" does not parse.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits, dot := 0, false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		end++
	}
	if digits == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
