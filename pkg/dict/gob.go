package dict

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// GobFile is the compiled form of a dictionary's CSV data.
const GobFile = "data.gob"

func (d *Dictionary) loadGob(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries := make(map[string]*Entry)
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	d.Entries = entries
	return nil
}

// SaveGob writes entries to path through a temporary file, so a reader
// never sees a half-written table.
func SaveGob(entries map[string]*Entry, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".data-*.gob")
	if err != nil {
		return fmt.Errorf("create temp gob: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(entries); err != nil {
		tmp.Close()
		return fmt.Errorf("encode gob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Compile loads the CSV data of the dictionary in dir and writes its
// normalized entries to data.gob beside it. An existing gob is ignored and
// replaced. It returns the number of entries written.
func Compile(dir string) (int, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return 0, err
	}
	d := New(m, nil)
	if err := d.loadCSV(filepath.Join(dir, m.DataFile)); err != nil {
		return 0, fmt.Errorf("compile %s: %w", m.ID, err)
	}
	if err := SaveGob(d.Entries, filepath.Join(dir, GobFile)); err != nil {
		return 0, fmt.Errorf("compile %s: %w", m.ID, err)
	}
	return len(d.Entries), nil
}

// CompileAll compiles every dictionary directory under root.
func CompileAll(root string) (map[string]int, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read dicts dir: %w", err)
	}
	out := make(map[string]int)
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		n, err := Compile(dir)
		if err != nil {
			return out, err
		}
		out[e.Name()] = n
	}
	return out, nil
}
