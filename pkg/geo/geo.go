// Package geo places catalogue items on the map from their country codes.
package geo

import (
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
)

// ParseCountryCode extracts the first code of a provenance field:
// "250;276(?)" gives "250", "(?)" gives "".
func ParseCountryCode(field string) string {
	first, _, _ := strings.Cut(field, ";")
	return strings.TrimSpace(strings.ReplaceAll(first, "(?)", ""))
}

// Coordinates is a named point.
type Coordinates struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Resolver maps country codes to coordinates through a coordinates table
// whose entries carry "lat" and "lng" metadata.
type Resolver struct {
	countries    *dict.Dictionary
	conservators *dict.Dictionary
	logger       *slog.Logger
}

// NewResolver builds a resolver. conservators maps conservator names to an
// image directory and may be nil; logger may be nil.
func NewResolver(countries, conservators *dict.Dictionary, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{countries: countries, conservators: conservators, logger: logger}
}

// Resolve parses field and looks the code up. ok is false when the field
// has no code or the code is not in the table.
func (r *Resolver) Resolve(field string) (Coordinates, string, bool) {
	code := ParseCountryCode(field)
	if code == "" || r.countries == nil {
		return Coordinates{}, code, false
	}
	e, ok := r.countries.Lookup(code)
	if !ok {
		return Coordinates{}, code, false
	}
	lat, errLat := strconv.ParseFloat(e.Metadata["lat"], 64)
	lng, errLng := strconv.ParseFloat(e.Metadata["lng"], 64)
	if errLat != nil || errLng != nil {
		r.logger.Warn("country entry without coordinates", "code", code)
		return Coordinates{}, code, false
	}
	return Coordinates{Name: e.Value, Lat: lat, Lng: lng}, code, true
}

// Marker is one map pin.
type Marker struct {
	Inventory   string  `json:"inventory"`
	Code        string  `json:"code"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Provenance  string  `json:"provenance,omitempty"`
	Typology    string  `json:"typology,omitempty"`
	Date        string  `json:"date,omitempty"`
	Fragments   string  `json:"fragments,omitempty"`
	Conservator string  `json:"conservator,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// Skipped is an item that produced no marker.
type Skipped struct {
	Line      int    `json:"line"`
	Inventory string `json:"inventory,omitempty"`
	Code      string `json:"code,omitempty"`
	Reason    string `json:"reason"`
}

// Markers places every item with a known country code. Items without one
// are returned as skipped and logged, never treated as errors.
func (r *Resolver) Markers(items []catalogue.Item, c catalogue.Collection) ([]Marker, []Skipped) {
	markers := make([]Marker, 0, len(items))
	var skipped []Skipped
	for _, it := range items {
		coords, code, ok := r.Resolve(it.CountryCode)
		if !ok {
			reason := "unknown country code"
			if code == "" {
				reason = "no country code"
			}
			skipped = append(skipped, Skipped{Line: it.Line, Inventory: it.Inventory, Code: code, Reason: reason})
			r.logger.Debug("marker skipped", "collection", c.ID, "line", it.Line, "code", code, "reason", reason)
			continue
		}
		provenance := it.ProvenanceEN
		if provenance == "" {
			provenance = it.Provenance
		}
		markers = append(markers, Marker{
			Inventory:   it.Inventory,
			Code:        code,
			Country:     coords.Name,
			Lat:         coords.Lat,
			Lng:         coords.Lng,
			Provenance:  provenance,
			Typology:    it.Typology,
			Date:        it.Date,
			Fragments:   it.Fragments,
			Conservator: it.Conservator,
			Image:       r.popupImage(it, c),
		})
	}
	if len(skipped) > 0 {
		r.logger.Warn("items without map position", "collection", c.ID, "skipped", len(skipped), "placed", len(markers))
	}
	return markers, skipped
}

// DefaultImageBase holds the images of items whose conservator has no
// registered directory.
const DefaultImageBase = "assets/placeholder-directory"

// ImageBase returns the image directory of an item: the collection's own
// base, else the one registered for the item's conservator, else
// DefaultImageBase.
func (r *Resolver) ImageBase(it catalogue.Item, c catalogue.Collection) string {
	if c.ImageBase != "" {
		return c.ImageBase
	}
	if r.conservators != nil && strings.TrimSpace(it.Conservator) != "" {
		if e, ok := r.conservators.Lookup(strings.TrimSpace(it.Conservator)); ok && e.Value != "" {
			return e.Value
		}
	}
	return DefaultImageBase
}

// popupImage is the image shown in a marker popup. Items without a picture
// or with a placeholder filename get none.
func (r *Resolver) popupImage(it catalogue.Item, c catalogue.Collection) string {
	name := c.PrimaryImage(it)
	if name == "" || strings.Contains(strings.ToLower(name), "placeholder") {
		return ""
	}
	return path.Join(r.ImageBase(it, c), name)
}

// Centroid returns the mean position of markers, for centring a map.
func Centroid(markers []Marker) (Coordinates, error) {
	if len(markers) == 0 {
		return Coordinates{}, fmt.Errorf("no markers")
	}
	var c Coordinates
	for _, m := range markers {
		c.Lat += m.Lat
		c.Lng += m.Lng
	}
	c.Lat /= float64(len(markers))
	c.Lng /= float64(len(markers))
	return c, nil
}
