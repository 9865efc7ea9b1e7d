package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/ceramics-catalogue/pkg/aggregate"
	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
)

func sampleItems() []catalogue.Item {
	return []catalogue.Item{
		{Line: 2, Inventory: "S 1", Material: "terre cuite", Lacuna: "<10", Typology: "Plate"},
		{Line: 3, Inventory: "S 2", Material: "terre cuite", Lacuna: "15-20"},
		{Line: 4, Inventory: "S 3", Material: "faïence", Lacuna: "(?)", ProvenanceEN: "<Paris>"},
		{Line: 5, Inventory: "S 4", Material: "", Lacuna: "10"},
	}
}

func sampleResult() *aggregate.Result {
	return aggregate.Build(sampleItems(), aggregate.Options{})
}

func TestCharts_SVG(t *testing.T) {
	r := sampleResult()
	for _, name := range []string{"raw", "approx", "average", "material-terracotta", "material-earthenware"} {
		var buf bytes.Buffer
		if err := Chart(&buf, r, name, SVG); err != nil {
			t.Errorf("Chart(%s): %v", name, err)
			continue
		}
		if !strings.Contains(buf.String(), "<svg") {
			t.Errorf("Chart(%s) did not produce SVG", name)
		}
	}
}

func TestCharts_NoData(t *testing.T) {
	empty := aggregate.Build(nil, aggregate.Options{})
	for _, name := range []string{"raw", "approx", "average"} {
		if err := Chart(&bytes.Buffer{}, empty, name, SVG); !errors.Is(err, ErrNoData) {
			t.Errorf("Chart(%s) on empty result = %v, want ErrNoData", name, err)
		}
	}

	// Earthenware only has "(?)", which carries no number.
	onlyUnknown := aggregate.Build([]catalogue.Item{{Material: "faïence", Lacuna: "(?)"}}, aggregate.Options{})
	if err := AverageChart(&bytes.Buffer{}, onlyUnknown, SVG); !errors.Is(err, ErrNoData) {
		t.Errorf("AverageChart = %v, want ErrNoData", err)
	}
}

func TestChart_Unknown(t *testing.T) {
	r := sampleResult()
	for _, name := range []string{"pie", "material-quartz"} {
		if err := Chart(&bytes.Buffer{}, r, name, SVG); !errors.Is(err, ErrUnknownChart) {
			t.Errorf("Chart(%s) = %v, want ErrUnknownChart", name, err)
		}
	}
}

func TestFormat(t *testing.T) {
	if SVG.ContentType() != "image/svg+xml" || PNG.ContentType() != "image/png" {
		t.Error("unexpected content types")
	}
}

func TestWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	want := []string{SheetRaw, SheetApprox, SheetAverages, SheetUnprocessed}
	if got := f.GetSheetList(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sheets = %v, want %v", got, want)
	}

	raw, err := f.GetRows(SheetRaw)
	if err != nil {
		t.Fatalf("GetRows raw: %v", err)
	}
	if len(raw) != 4 {
		t.Fatalf("raw rows = %d, want header + 3 labels", len(raw))
	}
	if strings.Join(raw[0], "|") != "Lacuna %|Earthenware|Terracotta|Total" {
		t.Errorf("raw header = %v", raw[0])
	}
	if strings.Join(raw[1], "|") != "<10|0|1|1" {
		t.Errorf("raw first row = %v", raw[1])
	}

	avg, _ := f.GetRows(SheetAverages)
	if len(avg) != 3 || avg[2][0] != "Terracotta" || avg[2][1] != "12.5" {
		t.Errorf("averages = %v", avg)
	}

	unprocessed, _ := f.GetRows(SheetUnprocessed)
	if len(unprocessed) != 2 || unprocessed[1][1] != "S 4" {
		t.Errorf("unprocessed = %v", unprocessed)
	}
}

func TestWritePage(t *testing.T) {
	items := sampleItems()
	r := aggregate.Build(items, aggregate.Options{})
	groups := catalogue.GroupByMaterial(items, nil)
	c := catalogue.Collection{ID: "sevres", Description: "Sèvres"}

	p := NewPage(c, groups, r, 2, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), func(m string) string {
		return "assets/materials/" + catalogue.Slug(m) + ".jpg"
	})
	var buf bytes.Buffer
	if err := WritePage(&buf, p); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<h1>Sèvres</h1>",
		`<details class="group" id="terre-cuite">`,
		"<summary><h2>",
		"/images/sevres/S%201",
		"&lt;Paris&gt;",
		"charts/material-terre-cuite.svg",
		"2024-05-01 10:00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if n := strings.Count(out, "<details"); n != len(groups) {
		t.Errorf("details sections = %d, want %d", n, len(groups))
	}
}
