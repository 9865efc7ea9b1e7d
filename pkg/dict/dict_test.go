package dict

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTestDict writes a minimal manifest + CSV in a temp directory and returns the dir.
func writeTestDict(t *testing.T, id, normalize string, csvContent string) string {
	t.Helper()
	dir := t.TempDir()
	dictDir := filepath.Join(dir, id)
	os.MkdirAll(dictDir, 0o755)

	manifest := `id: ` + id + `
version: "1.0"
kind: translation
source: unit test
data_file: data.csv
format:
  delimiter: ";"
  encoding: utf-8
  has_header: true
  key_column: "fr"
  value_column: "en"
  normalize: ` + normalize + `
metadata_columns:
  - name: note
    column: "note"
`
	os.WriteFile(filepath.Join(dictDir, "manifest.yaml"), []byte(manifest), 0o644)
	os.WriteFile(filepath.Join(dictDir, "data.csv"), []byte(csvContent), 0o644)
	return dir
}

func TestLoadDictionary(t *testing.T) {
	dir := writeTestDict(t, "test-dict", "lowercase_utf8",
		"fr;en;note\nTerre cuite;Terracotta;\nFaïence;Earthenware;tin glaze\nGrés;Stonewear;\n")

	d, err := LoadDictionary(filepath.Join(dir, "test-dict"))
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}

	if d.Manifest.ID != "test-dict" {
		t.Errorf("ID = %q, want test-dict", d.Manifest.ID)
	}
	if len(d.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(d.Entries))
	}
	for _, key := range []string{"terre cuite", "faïence", "grés"} {
		if _, ok := d.Entries[key]; !ok {
			t.Errorf("expected key %q after normalization", key)
		}
	}
}

func TestLoadDictionary_ValueAndMetadata(t *testing.T) {
	dir := writeTestDict(t, "meta-dict", "lowercase_utf8",
		"fr;en;note\nFaïence;Earthenware;tin glaze\n")

	d, err := LoadDictionary(filepath.Join(dir, "meta-dict"))
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}

	entry, ok := d.Entries["faïence"]
	if !ok {
		t.Fatal("expected key faïence")
	}
	if entry.Value != "Earthenware" {
		t.Errorf("Value = %q, want Earthenware", entry.Value)
	}
	if entry.Metadata["note"] != "tin glaze" {
		t.Errorf("note = %q, want tin glaze", entry.Metadata["note"])
	}
}

func TestLoadDictionary_EmptyKeys(t *testing.T) {
	dir := writeTestDict(t, "empty-key", "none",
		"fr;en\n;X\nvalid;Valid\n;Y\n")

	d, err := LoadDictionary(filepath.Join(dir, "empty-key"))
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}

	// Empty keys should be skipped
	if len(d.Entries) != 1 {
		t.Errorf("entries = %d, want 1 (empty keys skipped)", len(d.Entries))
	}
}

func TestLoadDictionary_MissingKeyColumn(t *testing.T) {
	dir := t.TempDir()
	dictDir := filepath.Join(dir, "bad")
	os.MkdirAll(dictDir, 0o755)

	manifest := `id: bad
version: "1.0"
source: test
data_file: data.csv
format:
  delimiter: ";"
  has_header: true
  key_column: "nonexistent"
`
	os.WriteFile(filepath.Join(dictDir, "manifest.yaml"), []byte(manifest), 0o644)
	os.WriteFile(filepath.Join(dictDir, "data.csv"), []byte("fr;en\na;b\n"), 0o644)

	_, err := LoadDictionary(dictDir)
	if err == nil {
		t.Error("expected error for missing key column")
	}
}

func TestLoadDictionary_Latin1(t *testing.T) {
	dir := t.TempDir()
	dictDir := filepath.Join(dir, "latin1")
	os.MkdirAll(dictDir, 0o755)

	manifest := `id: latin1
source: test
format:
  delimiter: ";"
  encoding: iso-8859-1
  has_header: false
`
	os.WriteFile(filepath.Join(dictDir, "manifest.yaml"), []byte(manifest), 0o644)
	// "faïence;Earthenware" with ï encoded as 0xEF.
	os.WriteFile(filepath.Join(dictDir, "data.csv"), []byte("fa\xefence;Earthenware\n"), 0o644)

	d, err := LoadDictionary(dictDir)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if got := d.Translate("Faïence"); got != "Earthenware" {
		t.Errorf("Translate(Faïence) = %q, want Earthenware", got)
	}
	if d.Manifest.Kind != KindTranslation {
		t.Errorf("Kind = %q, want default %q", d.Manifest.Kind, KindTranslation)
	}
}

func TestLookup(t *testing.T) {
	dir := writeTestDict(t, "lookup-dict", "lowercase_utf8",
		"fr;en\nTERRE CUITE;Terracotta\nquartz;Quartz\n")

	d, err := LoadDictionary(filepath.Join(dir, "lookup-dict"))
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}

	tests := []struct {
		term  string
		found bool
	}{
		{"terre cuite", true},
		{"  Terre Cuite ", true},
		{"QUARTZ", true},
		{"terrecuite", false},
		{"porcelaine", false},
	}
	for _, tt := range tests {
		_, ok := d.Lookup(tt.term)
		if ok != tt.found {
			t.Errorf("Lookup(%q) = %v, want %v", tt.term, ok, tt.found)
		}
	}
}

func TestTranslate_Fallback(t *testing.T) {
	d := New(&Manifest{ID: "m"}, map[string]*Entry{
		"grés":  {Value: "Stonewear"},
		"blank": {},
	})
	tests := []struct {
		term, want string
	}{
		{"Grés", "Stonewear"},
		{"blank", "blank"},
		{"Bronze", "Bronze"},
	}
	for _, tt := range tests {
		if got := d.Translate(tt.term); got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.term, got, tt.want)
		}
	}
}

func TestMerge(t *testing.T) {
	base := New(&Manifest{ID: "m", Version: "builtin"}, map[string]*Entry{
		"grés":   {Value: "Stonewear"},
		"quartz": {Value: "Quartz"},
	})
	over := New(&Manifest{ID: "m", Version: "2"}, map[string]*Entry{
		"grés":   {Value: "Stoneware"},
		"bronze": {Value: "Bronze"},
	})

	merged := base.Merge(over)
	if merged.Manifest.Version != "2" {
		t.Errorf("Version = %q, want 2", merged.Manifest.Version)
	}
	if got := merged.Translate("grés"); got != "Stoneware" {
		t.Errorf("override: got %q, want Stoneware", got)
	}
	if got := merged.Translate("quartz"); got != "Quartz" {
		t.Errorf("kept: got %q, want Quartz", got)
	}
	if got := merged.Translate("bronze"); got != "Bronze" {
		t.Errorf("added: got %q, want Bronze", got)
	}
	if got := base.Translate("grés"); got != "Stonewear" {
		t.Errorf("base mutated: got %q", got)
	}
}
