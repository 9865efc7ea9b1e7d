package dict

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Entry is a single key in a lookup table: its mapped value and optional metadata.
type Entry struct {
	Value    string            `json:"value,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Dictionary is one loaded lookup table with its manifest and in-memory hashmap.
type Dictionary struct {
	Manifest  *Manifest         `json:"manifest"`
	Entries   map[string]*Entry `json:"-"`
	normalize Normalizer
}

// New builds a dictionary from already-keyed entries. Keys are normalized
// with the manifest's normalizer.
func New(m *Manifest, entries map[string]*Entry) *Dictionary {
	d := &Dictionary{
		Manifest:  m,
		Entries:   make(map[string]*Entry, len(entries)),
		normalize: GetNormalizer(m.Format.Normalize),
	}
	for k, e := range entries {
		d.Entries[d.normalize(k)] = e
	}
	return d
}

// LoadDictionary reads a manifest.yaml and loads data from gob or csv.
func LoadDictionary(dir string) (*Dictionary, error) {
	manifest, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}

	d := New(manifest, nil)

	// A compiled gob takes priority over the CSV.
	gobPath := filepath.Join(dir, GobFile)
	if _, err := os.Stat(gobPath); err == nil {
		if err := d.loadGob(gobPath); err != nil {
			return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
		}
		return d, nil
	}

	if err := d.loadCSV(filepath.Join(dir, manifest.DataFile)); err != nil {
		return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
	}
	return d, nil
}

func (d *Dictionary) loadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Transcode non-UTF-8 encodings declared in the manifest.
	var reader io.Reader = f
	if enc := d.Manifest.Format.Encoding; enc != "" && !IsUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if delim := d.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	if d.Manifest.Format.HasHeader {
		header, err = r.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	// Key defaults to column 0, value to column 1.
	keyIdx, err := columnIndex(header, d.Manifest.Format.KeyColumn, 0)
	if err != nil {
		return fmt.Errorf("key column: %w", err)
	}
	valueIdx, err := columnIndex(header, d.Manifest.Format.ValueColumn, 1)
	if err != nil {
		return fmt.Errorf("value column: %w", err)
	}

	metaIdx := make(map[string]int)
	for _, mc := range d.Manifest.MetadataCols {
		for i, h := range header {
			if h == mc.Column {
				metaIdx[mc.Name] = i
				break
			}
		}
	}

	var collisions int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if keyIdx >= len(record) {
			continue
		}

		key := d.normalize(strings.TrimSpace(record[keyIdx]))
		if key == "" {
			continue
		}

		entry := &Entry{}
		if valueIdx < len(record) {
			entry.Value = strings.TrimSpace(record[valueIdx])
		}
		if len(metaIdx) > 0 {
			entry.Metadata = make(map[string]string, len(metaIdx))
			for name, idx := range metaIdx {
				if idx < len(record) {
					entry.Metadata[name] = strings.TrimSpace(record[idx])
				}
			}
		}
		if _, exists := d.Entries[key]; exists {
			collisions++
		}
		d.Entries[key] = entry
	}

	if collisions > 0 {
		slog.Warn("key collisions after normalization", "dict", d.Manifest.ID, "collisions", collisions)
	}
	return nil
}

func columnIndex(header []string, name string, fallback int) (int, error) {
	if name == "" || header == nil {
		return fallback, nil
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q not found in header %v", name, header)
}

// Lookup searches for a term in this dictionary after normalization.
func (d *Dictionary) Lookup(term string) (*Entry, bool) {
	e, ok := d.Entries[d.normalize(term)]
	return e, ok
}

// Translate returns the mapped value for term, or term itself when the
// dictionary has no entry (or an entry without a value).
func (d *Dictionary) Translate(term string) string {
	if e, ok := d.Lookup(term); ok && e.Value != "" {
		return e.Value
	}
	return term
}

// NormalizeTerm applies this dictionary's normalizer to a term.
func (d *Dictionary) NormalizeTerm(term string) string {
	return d.normalize(term)
}

// Merge returns a copy of d with every entry of other laid over it.
// Keys of other are re-normalized with d's normalizer.
func (d *Dictionary) Merge(other *Dictionary) *Dictionary {
	out := &Dictionary{
		Manifest:  other.Manifest,
		Entries:   make(map[string]*Entry, len(d.Entries)+len(other.Entries)),
		normalize: d.normalize,
	}
	for k, e := range d.Entries {
		out.Entries[k] = e
	}
	for k, e := range other.Entries {
		out.Entries[d.normalize(k)] = e
	}
	return out
}

// IsUTF8 reports whether enc names UTF-8 (or is empty).
func IsUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
