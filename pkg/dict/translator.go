package dict

import "strings"

// Translator maps raw material labels to their display form. It is total:
// labels missing from the table come back verbatim so no row loses its group.
type Translator struct {
	table *Dictionary
}

// NewTranslator wraps a translation table. A nil table passes every label through.
func NewTranslator(table *Dictionary) *Translator {
	return &Translator{table: table}
}

// Translate normalizes raw with the table's normalizer (trim + lowercase by
// default) and returns either the mapped label or raw unchanged.
func (t *Translator) Translate(raw string) string {
	if t == nil || t.table == nil || strings.TrimSpace(raw) == "" {
		return raw
	}
	if e, ok := t.table.Lookup(raw); ok && e.Value != "" {
		return e.Value
	}
	return raw
}
