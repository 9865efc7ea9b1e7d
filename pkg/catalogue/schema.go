package catalogue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is a semantic column of the dataset, independent of how a given
// spreadsheet version spells it.
type Field string

const (
	FieldInventory    Field = "inventory"
	FieldMaterial     Field = "material"
	FieldLacuna       Field = "lacuna"
	FieldCountryCode  Field = "country_code"
	FieldProvenance   Field = "provenance"
	FieldProvenanceEN Field = "provenance_en"
	FieldFragments    Field = "fragments"
	FieldTypology     Field = "typology"
	FieldDate         Field = "date"
	FieldPictures     Field = "pictures"
	FieldConservator  Field = "conservator"
	FieldSourceFile   Field = "source_file"
)

// Schema maps semantic fields to candidate column names for one dataset
// version. Candidates are tried in order; the first column present in the
// file wins, even when its cell is empty.
type Schema struct {
	Version     string             `yaml:"version" json:"version"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Format      Format             `yaml:"format,omitempty" json:"format"`
	Columns     map[Field][]string `yaml:"columns" json:"columns"`
}

// Validate checks that the schema names its version and the two columns
// the aggregation depends on.
func (s *Schema) Validate() error {
	if s.Version == "" {
		return errors.New("schema: missing version")
	}
	for _, f := range []Field{FieldMaterial, FieldLacuna} {
		if len(s.Columns[f]) == 0 {
			return fmt.Errorf("schema %s: no column for %s", s.Version, f)
		}
	}
	return nil
}

// Missing returns the fields none of whose candidate columns appear in h.
func (s *Schema) Missing(h *Header) []Field {
	var out []Field
	for f, candidates := range s.Columns {
		found := false
		for _, c := range candidates {
			if h.Index(c) >= 0 {
				found = true
				break
			}
		}
		if !found {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Schema) value(r Row, f Field) string {
	for _, c := range s.Columns[f] {
		if v, ok := r.Lookup(c); ok {
			return v
		}
	}
	return ""
}

// Common column spellings across the dataset versions.
var (
	colMaterial   = []string{"matériau simplifié", "materiau simplifie", "material"}
	colLacuna     = []string{"% lacunaire", "lacunaire", "% missing"}
	colTypology   = []string{"typologie", "typology"}
	colDate       = []string{"datation", "date"}
	colFragments  = []string{"nombre de fragements", "nombre de fragments", "fragments"}
	colSourceFile = []string{"provenance_file"}
)

var builtinSchemas = map[string]*Schema{
	"ver2": {
		Version:     "ver2",
		Description: "Sèvres export, images named after the inventory number",
		Columns: map[Field][]string{
			FieldInventory:  {"inventaire"},
			FieldMaterial:   colMaterial,
			FieldLacuna:     colLacuna,
			FieldProvenance: {"provenance"},
			FieldFragments:  colFragments,
			FieldTypology:   colTypology,
			FieldDate:       colDate,
			FieldSourceFile: colSourceFile,
		},
	},
	"ver6": {
		Version:     "ver6",
		Description: "unified export with picture filenames",
		Columns: map[Field][]string{
			FieldInventory:  {"inventaire"},
			FieldMaterial:   colMaterial,
			FieldLacuna:     colLacuna,
			FieldProvenance: {"provenance"},
			FieldFragments:  colFragments,
			FieldTypology:   colTypology,
			FieldDate:       colDate,
			FieldPictures:   {"pictures filenames"},
			FieldSourceFile: colSourceFile,
		},
	},
	"ver9": {
		Version:     "ver9",
		Description: "bilingual unified export with country codes and conservators",
		Columns: map[Field][]string{
			FieldInventory:    {"inventaire clean", "inventaire"},
			FieldMaterial:     colMaterial,
			FieldLacuna:       colLacuna,
			FieldCountryCode:  {"provenance (country code)", "country code"},
			FieldProvenance:   {"provenance"},
			FieldProvenanceEN: {"provenance@en", "provenance"},
			FieldFragments:    colFragments,
			FieldTypology:     {"typologie@en", "typologie", "typology"},
			FieldDate:         {"datation@en", "datation", "date"},
			FieldPictures:     {"pictures filenames"},
			FieldConservator:  {"Ente conservatore", "conservateur"},
			FieldSourceFile:   colSourceFile,
		},
	},
}

// BuiltinSchema returns a copy of a built-in schema by version.
func BuiltinSchema(version string) (*Schema, bool) {
	s, ok := builtinSchemas[version]
	if !ok {
		return nil, false
	}
	cp := *s
	cp.Columns = make(map[Field][]string, len(s.Columns))
	for f, c := range s.Columns {
		cp.Columns[f] = append([]string(nil), c...)
	}
	return &cp, true
}

// LoadSchema reads a schema descriptor from a YAML file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// Schemas returns the built-in schemas overlaid with every *.yaml descriptor
// in dir. A missing dir yields the built-ins only.
func Schemas(dir string) (map[string]*Schema, error) {
	out := make(map[string]*Schema, len(builtinSchemas))
	for v := range builtinSchemas {
		out[v], _ = BuiltinSchema(v)
	}
	if dir == "" {
		return out, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schemas dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		s, err := LoadSchema(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out[s.Version] = s
	}
	return out, nil
}
