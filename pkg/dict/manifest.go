package dict

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Kinds of lookup tables.
const (
	KindTranslation = "translation" // raw label -> display label
	KindCoordinates = "coordinates" // code -> lat/lng metadata
	KindAsset       = "asset"       // label -> asset path
)

// Manifest describes a lookup table: its source, format, and how to interpret it.
type Manifest struct {
	ID           string           `yaml:"id" json:"id"`
	Version      string           `yaml:"version" json:"version"`
	Kind         string           `yaml:"kind" json:"kind"`
	Language     string           `yaml:"language,omitempty" json:"language,omitempty"`
	Source       string           `yaml:"source" json:"source"`
	License      string           `yaml:"license,omitempty" json:"license,omitempty"`
	DataFile     string           `yaml:"data_file" json:"data_file"`
	Format       FormatSpec       `yaml:"format" json:"-"`
	MetadataCols []MetadataColumn `yaml:"metadata_columns,omitempty" json:"-"`
}

// FormatSpec describes the CSV layout.
type FormatSpec struct {
	Delimiter   string `yaml:"delimiter"`
	Encoding    string `yaml:"encoding"`
	HasHeader   bool   `yaml:"has_header"`
	KeyColumn   string `yaml:"key_column"`
	ValueColumn string `yaml:"value_column"`
	Normalize   string `yaml:"normalize"`
}

// MetadataColumn maps a logical name to a CSV column.
type MetadataColumn struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	if m.Kind == "" {
		m.Kind = KindTranslation
	}
	return &m, nil
}

// WriteManifest writes m as YAML to dir/manifest.yaml.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}
