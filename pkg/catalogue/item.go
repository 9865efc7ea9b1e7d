package catalogue

import (
	"regexp"
	"strings"
)

// Item is a dataset row bound to a schema. Every field is optional; the
// empty string means absent.
type Item struct {
	Line         int      `json:"line"`
	Inventory    string   `json:"inventory"`
	Material     string   `json:"material"`
	Lacuna       string   `json:"lacuna"`
	CountryCode  string   `json:"country_code,omitempty"`
	Provenance   string   `json:"provenance,omitempty"`
	ProvenanceEN string   `json:"provenance_en,omitempty"`
	Fragments    string   `json:"fragments,omitempty"`
	Typology     string   `json:"typology,omitempty"`
	Date         string   `json:"date,omitempty"`
	Conservator  string   `json:"conservator,omitempty"`
	SourceFile   string   `json:"source_file,omitempty"`
	Pictures     []string `json:"pictures,omitempty"`
}

// FirstPicture returns the first picture filename, or "".
func (it Item) FirstPicture() string {
	if len(it.Pictures) == 0 {
		return ""
	}
	return it.Pictures[0]
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// SplitPictures splits a newline-separated filename cell, dropping blanks.
func SplitPictures(cell string) []string {
	var out []string
	for _, p := range lineBreak.Split(cell, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Bind maps one row onto an Item through s.
func (s *Schema) Bind(r Row) Item {
	return Item{
		Line:         r.Line,
		Inventory:    strings.TrimSpace(s.value(r, FieldInventory)),
		Material:     s.value(r, FieldMaterial),
		Lacuna:       s.value(r, FieldLacuna),
		CountryCode:  s.value(r, FieldCountryCode),
		Provenance:   strings.TrimSpace(s.value(r, FieldProvenance)),
		ProvenanceEN: strings.TrimSpace(s.value(r, FieldProvenanceEN)),
		Fragments:    strings.TrimSpace(s.value(r, FieldFragments)),
		Typology:     strings.TrimSpace(s.value(r, FieldTypology)),
		Date:         strings.TrimSpace(s.value(r, FieldDate)),
		Conservator:  strings.TrimSpace(s.value(r, FieldConservator)),
		SourceFile:   strings.TrimSpace(s.value(r, FieldSourceFile)),
		Pictures:     SplitPictures(s.value(r, FieldPictures)),
	}
}

// BindAll binds every row of t.
func (s *Schema) BindAll(t *Table) []Item {
	items := make([]Item, len(t.Rows))
	for i, r := range t.Rows {
		items[i] = s.Bind(r)
	}
	return items
}
