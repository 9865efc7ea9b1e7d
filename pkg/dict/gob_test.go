package dict

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveGobLoadGob(t *testing.T) {
	entries := map[string]*Entry{
		"250":   {Value: "France", Metadata: map[string]string{"lat": "46.2276", "lng": "2.2137"}},
		"mixte": {Value: "Mix"},
		"empty": {},
	}

	path := filepath.Join(t.TempDir(), "data.gob")
	if err := SaveGob(entries, path); err != nil {
		t.Fatalf("SaveGob: %v", err)
	}

	d := &Dictionary{Entries: make(map[string]*Entry)}
	if err := d.loadGob(path); err != nil {
		t.Fatalf("loadGob: %v", err)
	}

	if len(d.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(d.Entries))
	}
	if d.Entries["250"].Metadata["lat"] != "46.2276" {
		t.Errorf("250 lat = %q, want 46.2276", d.Entries["250"].Metadata["lat"])
	}
	if d.Entries["mixte"].Value != "Mix" {
		t.Errorf("mixte value = %q, want Mix", d.Entries["mixte"].Value)
	}
}

func TestLoadDictionary_PrefersGob(t *testing.T) {
	dir := writeTestDict(t, "gob-pref", "lowercase_utf8",
		"fr;en\nquartz;Quartz\n")

	dictDir := filepath.Join(dir, "gob-pref")

	gobEntries := map[string]*Entry{
		"gobonly": {Value: "from gob"},
	}
	if err := SaveGob(gobEntries, filepath.Join(dictDir, "data.gob")); err != nil {
		t.Fatalf("SaveGob: %v", err)
	}

	d, err := LoadDictionary(dictDir)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}

	if _, ok := d.Entries["gobonly"]; !ok {
		t.Error("expected key 'gobonly' from gob file")
	}
	if _, ok := d.Entries["quartz"]; ok {
		t.Error("key 'quartz' should not exist, gob takes priority over csv")
	}
}

func TestLoadGob_FileNotFound(t *testing.T) {
	d := &Dictionary{Entries: make(map[string]*Entry)}
	if err := d.loadGob("/nonexistent/path/data.gob"); err == nil {
		t.Error("expected error for nonexistent gob file")
	}
}

func TestSaveGob_InvalidPath(t *testing.T) {
	if err := SaveGob(map[string]*Entry{}, "/nonexistent/dir/data.gob"); err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestCompile(t *testing.T) {
	dir := writeTestDict(t, "materials", "lowercase_utf8",
		"fr;en;note\nTerre Cuite;Terracotta;\nQuartz;Quartz;rare\n")
	dictDir := filepath.Join(dir, "materials")

	n, err := Compile(dictDir)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if n != 2 {
		t.Errorf("compiled %d entries, want 2", n)
	}

	// Drop the CSV: the dictionary must now load from the gob alone.
	os.Remove(filepath.Join(dictDir, "data.csv"))
	d, err := LoadDictionary(dictDir)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if got := d.Translate("terre cuite"); got != "Terracotta" {
		t.Errorf("Translate = %q, want Terracotta", got)
	}
	if e, _ := d.Lookup("QUARTZ"); e == nil || e.Metadata["note"] != "rare" {
		t.Errorf("quartz entry = %+v", e)
	}

	counts, err := CompileAll(dir)
	if err == nil {
		t.Errorf("CompileAll without CSV should fail, got %v", counts)
	}
}
