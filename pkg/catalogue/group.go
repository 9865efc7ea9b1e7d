package catalogue

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
)

// UnknownMaterial labels items whose material cell is empty.
const UnknownMaterial = "Unknown"

// Group is the set of catalogue items sharing a translated material.
type Group struct {
	Material string `json:"material"`
	ID       string `json:"id"`
	Items    []Item `json:"items"`
}

// GroupByMaterial groups items by translated material in first-seen order.
func GroupByMaterial(items []Item, tr *dict.Translator) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, it := range items {
		raw := it.Material
		if raw == "" {
			raw = UnknownMaterial
		}
		label := tr.Translate(raw)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Material: label, ID: SafeID(label)})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	notIDChars = regexp.MustCompile(`[^a-z0-9\-]`)
	notSlug    = regexp.MustCompile(`[^a-z0-9]`)
)

// SafeID turns a label into an HTML id: lowercase, whitespace runs become
// '-', anything else outside [a-z0-9-] is dropped.
func SafeID(label string) string {
	id := spaceRun.ReplaceAllString(strings.ToLower(label), "-")
	return notIDChars.ReplaceAllString(id, "")
}

// Slug replaces every rune outside [a-z0-9] with '-' after lowercasing,
// the form used for material asset names ("Faïence" -> "fa-ence").
func Slug(label string) string {
	return notSlug.ReplaceAllString(strings.ToLower(label), "-")
}
