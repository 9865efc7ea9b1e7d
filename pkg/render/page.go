package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/hazyhaar/ceramics-catalogue/pkg/aggregate"
	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("catalogue.html").Funcs(template.FuncMap{
	"slug": catalogue.Slug,
	"pct": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *v)
	},
}).ParseFS(templateFS, "templates/catalogue.html"))

// ItemCard is one fragment in a material group.
type ItemCard struct {
	Inventory  string
	Typology   string
	Date       string
	Provenance string
	Fragments  string
	Lacuna     string
	ImageURL   string
}

// GroupCard is one material section of the catalogue page.
type GroupCard struct {
	Material string
	ID       string
	Image    string
	Items    []ItemCard
}

// Page is the data of a catalogue page.
type Page struct {
	Collection  catalogue.Collection
	Groups      []GroupCard
	Materials   []string
	Averages    []aggregate.AverageRow
	Processed   int
	Unprocessed int
	Markers     int
	LoadedAt    time.Time
}

// NewPage assembles page data. materialImage maps a translated material to
// its card image.
func NewPage(c catalogue.Collection, groups []catalogue.Group, r *aggregate.Result, markers int, loadedAt time.Time, materialImage func(string) string) Page {
	v := r.View()
	p := Page{
		Collection:  c,
		Materials:   r.Materials,
		Averages:    v.Averages,
		Processed:   r.Processed,
		Unprocessed: len(r.Unprocessed),
		Markers:     markers,
		LoadedAt:    loadedAt,
	}
	for _, g := range groups {
		card := GroupCard{Material: g.Material, ID: g.ID, Image: materialImage(g.Material)}
		for _, it := range g.Items {
			provenance := it.ProvenanceEN
			if provenance == "" {
				provenance = it.Provenance
			}
			ic := ItemCard{
				Inventory:  it.Inventory,
				Typology:   it.Typology,
				Date:       it.Date,
				Provenance: provenance,
				Fragments:  it.Fragments,
				Lacuna:     it.Lacuna,
			}
			if it.Inventory != "" {
				ic.ImageURL = fmt.Sprintf("/images/%s/%s", url.PathEscape(c.ID), url.PathEscape(it.Inventory))
			}
			card.Items = append(card.Items, ic)
		}
		p.Groups = append(p.Groups, card)
	}
	return p
}

// WritePage renders the catalogue page.
func WritePage(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, p)
}
