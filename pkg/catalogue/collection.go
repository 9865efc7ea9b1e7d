package catalogue

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Collection is a view over a dataset: which rows belong to it, which
// schema reads it, and where its images live.
type Collection struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
	Schema      string `yaml:"schema" json:"schema"`
	Dataset     string `yaml:"dataset" json:"dataset"`
	// FilePrefix keeps rows whose source file starts with it; "" keeps all.
	FilePrefix string `yaml:"file_prefix" json:"file_prefix,omitempty"`
	// ImageBase is the image directory; "" resolves it per conservator.
	ImageBase   string `yaml:"image_base" json:"image_base,omitempty"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
	// ImageByInventory names the primary image "<inventory>.JPG" instead of
	// using the first picture filename.
	ImageByInventory bool `yaml:"image_by_inventory" json:"image_by_inventory,omitempty"`
}

// Filter returns the items that belong to c, preserving order.
func (c Collection) Filter(items []Item) []Item {
	if c.FilePrefix == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.HasPrefix(it.SourceFile, c.FilePrefix) {
			out = append(out, it)
		}
	}
	return out
}

// PrimaryImage returns the filename tried first for it, or "" when the
// item names no image.
func (c Collection) PrimaryImage(it Item) string {
	if c.ImageByInventory {
		if it.Inventory == "" {
			return ""
		}
		return it.Inventory + ".JPG"
	}
	return it.FirstPicture()
}

var (
	registryMu  sync.RWMutex
	collections = make(map[string]Collection)
)

func init() {
	Register(Collection{
		ID:          "unified",
		Description: "Unified ceramics dataset, all conservators",
		Schema:      "ver9",
		Dataset:     "input_data_per_web/unified_dataset_ceramics_ver9.csv",
		Placeholder: "assets/placeholder.jpeg",
	})
	Register(Collection{
		ID:               "sevres",
		Description:      "Sèvres - Manufacture et Musée nationaux",
		Schema:           "ver2",
		Dataset:          "input_data_per_web/unified_dataset_ceramics_ver2.csv",
		FilePrefix:       "sevres_",
		ImageBase:        "assets/catalogue/Sèvres visualizazzioni",
		Placeholder:      "assets/catalogue/Sèvres visualizazzioni/placeholder.JPG",
		ImageByInventory: true,
	})
	Register(Collection{
		ID:          "mic",
		Description: "MIC Museo Internazionale della Ceramica in Faenza",
		Schema:      "ver6",
		Dataset:     "input_data_per_web/unified_dataset_ceramics_ver6.csv",
		FilePrefix:  "faenza_",
		ImageBase:   "assets/catalogue/Faenza visualizazzioni",
		Placeholder: "assets/catalogue/Faenza visualizazzioni/alt_mic.png",
	})
}

// Register adds or replaces a collection in the global registry.
func Register(c Collection) {
	registryMu.Lock()
	defer registryMu.Unlock()
	collections[c.ID] = c
}

// Get returns a registered collection by ID.
func Get(id string) (Collection, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := collections[id]
	if !ok {
		return Collection{}, fmt.Errorf("unknown collection: %q", id)
	}
	return c, nil
}

// All returns all registered collections sorted by ID.
func All() []Collection {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Collection, 0, len(collections))
	for _, c := range collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
