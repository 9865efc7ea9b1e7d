// Package render turns aggregation results into charts, workbooks and HTML.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hazyhaar/ceramics-catalogue/pkg/aggregate"
	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
)

// ErrNoData is returned when a chart would have nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Palette is cycled over materials, in Result.Materials order.
var Palette = []string{"#4793AF", "#FFC470", "#DD5746", "#8B322C", "#B36A5E", "#A64942", "#D99152"}

// BucketColors colours the approximate buckets in per-material charts.
var BucketColors = map[string]string{
	"0":       "#4793AF",
	"5":       "#FFC470",
	"10":      "#DD5746",
	"15":      "#8B322C",
	"20":      "#B36A5E",
	"25":      "#A64942",
	"30":      "#D99152",
	"35":      "#0F3057",
	"40":      "#1B6CA8",
	"45":      "#008ECC",
	"50":      "#00A8E8",
	">50":     "#00B8D4",
	"unknown": "#7FC8F8",
}

const fallbackColor = "#CCCCCC"

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func materialColor(i int) drawing.Color {
	return color(Palette[i%len(Palette)])
}

// Format selects the chart encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

const (
	chartWidth  = 1024
	chartHeight = 512
)

// RawChart draws one stacked bar per raw lacuna label, one segment per material.
func RawChart(w io.Writer, r *aggregate.Result, f Format) error {
	return stacked(w, "Lacuna % by material (raw values)", r.Raw, r.RawLabels, r.Materials, f)
}

// ApproxChart draws one stacked bar per approximate bucket.
func ApproxChart(w io.Writer, r *aggregate.Result, f Format) error {
	return stacked(w, "Lacuna % by material (approximate)", r.Approx, r.ApproxLabels, r.Materials, f)
}

func stacked(w io.Writer, title string, g aggregate.GroupCounts, labels, materials []string, f Format) error {
	var bars []chart.StackedBar
	for _, l := range labels {
		bar := chart.StackedBar{Name: l}
		for i, m := range materials {
			n := g.Count(l, m)
			if n == 0 {
				continue
			}
			bar.Values = append(bar.Values, chart.Value{
				Label: fmt.Sprintf("%s: %d", m, n),
				Value: float64(n),
				Style: chart.Style{FillColor: materialColor(i), StrokeColor: materialColor(i)},
			})
		}
		if len(bar.Values) > 0 {
			bars = append(bars, bar)
		}
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	c := chart.StackedBarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarSpacing: 12,
		Bars:       bars,
	}
	return c.Render(f.provider(), w)
}

// AverageChart draws the numeric average of every material that has one.
func AverageChart(w io.Writer, r *aggregate.Result, f Format) error {
	var bars []chart.Value
	maxAvg := 0.0
	for i, m := range r.Materials {
		avg, ok := r.Averages[m].Rounded()
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: m,
			Value: avg,
			Style: chart.Style{FillColor: materialColor(i), StrokeColor: materialColor(i)},
		})
		maxAvg = math.Max(maxAvg, avg)
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	c := chart.BarChart{
		Title:      "Average lacuna % by material",
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(1, math.Ceil(maxAvg*1.1))},
		},
		Bars: bars,
	}
	return c.Render(f.provider(), w)
}

// MaterialChart draws the approximate distribution of one material as a pie.
func MaterialChart(w io.Writer, r *aggregate.Result, material string, f Format) error {
	var values []chart.Value
	for _, d := range r.Distribution(material) {
		if d.Count == 0 {
			continue
		}
		hex, ok := BucketColors[d.Bucket]
		if !ok {
			hex = fallbackColor
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", d.Bucket, d.Count),
			Value: float64(d.Count),
			Style: chart.Style{FillColor: color(hex)},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}
	c := chart.PieChart{
		Title:  material,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return c.Render(f.provider(), w)
}

// Chart renders a chart by name: raw, approx, average or material-<slug>,
// where slug is matched against catalogue.Slug of each material.
func Chart(w io.Writer, r *aggregate.Result, name string, f Format) error {
	switch name {
	case "raw":
		return RawChart(w, r, f)
	case "approx":
		return ApproxChart(w, r, f)
	case "average":
		return AverageChart(w, r, f)
	}
	if want, ok := strings.CutPrefix(name, "material-"); ok {
		for _, m := range r.Materials {
			if catalogue.Slug(m) == want {
				return MaterialChart(w, r, m, f)
			}
		}
	}
	return fmt.Errorf("chart %q: %w", name, ErrUnknownChart)
}

// ErrUnknownChart is returned by Chart for names it does not know.
var ErrUnknownChart = errors.New("unknown chart")
