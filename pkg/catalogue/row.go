// Package catalogue loads ceramics datasets and binds their rows to typed items.
//
// Datasets come in several spreadsheet versions whose column names drift:
// embedded newlines, extra spaces, French names with English "@en" twins.
// Rows keep the cleaned header text; lookups compare a compact form
// (lowercase, no whitespace) so callers can ask for a column by its
// semantic name regardless of formatting.
package catalogue

import (
	"strings"

	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
)

// NormalizeHeader replaces CR/LF with spaces and trims the result.
func NormalizeHeader(h string) string {
	h = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(h)
	return strings.TrimSpace(h)
}

// Header is the cleaned header row shared by every Row of a table.
type Header struct {
	names   []string
	compact []string
}

// NewHeader cleans raw header cells.
func NewHeader(raw []string) *Header {
	h := &Header{
		names:   make([]string, len(raw)),
		compact: make([]string, len(raw)),
	}
	for i, name := range raw {
		h.names[i] = NormalizeHeader(name)
		h.compact[i] = dict.NormalizeCompact(name)
	}
	return h
}

// Names returns the cleaned column names in file order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Index returns the position of the first column whose compact form equals
// that of name, or -1.
func (h *Header) Index(name string) int {
	target := dict.NormalizeCompact(name)
	for i, c := range h.compact {
		if c == target {
			return i
		}
	}
	return -1
}

// Row is one dataset record keyed by cleaned column name.
type Row struct {
	Line   int
	header *Header
	values []string
}

// NewRow pairs values with header. Missing trailing cells read as "".
func NewRow(header *Header, line int, values []string) Row {
	return Row{Line: line, header: header, values: values}
}

// Lookup returns the value of the first column matching name ignoring case
// and whitespace, and whether such a column exists.
func (r Row) Lookup(name string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i := r.header.Index(name)
	if i < 0 {
		return "", false
	}
	if i >= len(r.values) {
		return "", true
	}
	return r.values[i], true
}

// Get is Lookup without the presence flag: an absent column reads as "".
func (r Row) Get(name string) string {
	v, _ := r.Lookup(name)
	return v
}

// Map returns the row as a cleaned-name -> value map. On duplicate names the
// first column wins, matching Lookup.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	if r.header == nil {
		return m
	}
	for i, name := range r.header.names {
		if _, dup := m[name]; dup {
			continue
		}
		if i < len(r.values) {
			m[name] = r.values[i]
		} else {
			m[name] = ""
		}
	}
	return m
}

// Table is a parsed dataset.
type Table struct {
	Header *Header
	Rows   []Row
}
