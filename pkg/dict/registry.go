package dict

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Registry holds the built-in lookup tables, overlaid with any dictionaries
// found on disk, and serves translation queries.
type Registry struct {
	mu       sync.RWMutex
	dicts    map[string]*Dictionary
	dictsDir string
}

// NewRegistry creates a registry holding only the built-in tables. Call Load
// to overlay the dictionaries in dictsDir.
func NewRegistry(dictsDir string) *Registry {
	return &Registry{
		dicts:    Builtin(),
		dictsDir: dictsDir,
	}
}

// Load rebuilds the registry from the built-in tables and every dictionary
// directory under dictsDir. A missing dictsDir is not an error.
func (r *Registry) Load() error {
	newDicts := Builtin()

	entries, err := os.ReadDir(r.dictsDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read dicts dir %s: %w", r.dictsDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dictsDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		d, err := LoadDictionary(dir)
		if err != nil {
			return fmt.Errorf("load dictionary %s: %w", entry.Name(), err)
		}
		if base, ok := newDicts[d.Manifest.ID]; ok {
			d = base.Merge(d)
		}
		newDicts[d.Manifest.ID] = d
	}

	r.mu.Lock()
	r.dicts = newDicts
	r.mu.Unlock()
	return nil
}

// Reload reloads all dictionaries from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// Get returns the dictionary with the given ID.
func (r *Registry) Get(id string) (*Dictionary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dicts[id]
	return d, ok
}

// TranslateResult is the response for a single translation query.
type TranslateResult struct {
	Term       string `json:"term"`
	Normalized string `json:"normalized"`
	Value      string `json:"value"`
	Found      bool   `json:"found"`
}

// Translate looks term up in dictionary id. Unknown terms, and unknown
// dictionaries, pass the term through unchanged.
func (r *Registry) Translate(id, term string) *TranslateResult {
	res := &TranslateResult{Term: term, Value: term, Normalized: NormalizeLowercaseUTF8(term)}
	d, ok := r.Get(id)
	if !ok {
		return res
	}
	res.Normalized = d.NormalizeTerm(term)
	if e, ok := d.Lookup(term); ok && e.Value != "" {
		res.Value = e.Value
		res.Found = true
	}
	return res
}

// DictInfo is the public metadata for a loaded dictionary.
type DictInfo struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Kind    string `json:"kind"`
	Source  string `json:"source"`
	License string `json:"license,omitempty"`
	Entries int    `json:"entries"`
}

// ListDicts returns metadata for all loaded dictionaries, sorted by ID.
func (r *Registry) ListDicts() []DictInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]DictInfo, 0, len(r.dicts))
	for _, d := range r.dicts {
		infos = append(infos, DictInfo{
			ID:      d.Manifest.ID,
			Version: d.Manifest.Version,
			Kind:    d.Manifest.Kind,
			Source:  d.Manifest.Source,
			License: d.Manifest.License,
			Entries: len(d.Entries),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// DictCount returns the number of loaded dictionaries.
func (r *Registry) DictCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dicts)
}

// TotalEntries returns the total number of entries across all dictionaries.
func (r *Registry) TotalEntries() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, d := range r.dicts {
		total += len(d.Entries)
	}
	return total
}
