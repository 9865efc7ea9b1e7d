package aggregate

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// LabelRow is one lacuna label (raw or bucket) with its per-material counts.
type LabelRow struct {
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// AverageRow is the numeric average of one material. Average is nil when no
// row of the material had a numeric value.
type AverageRow struct {
	Material string   `json:"material"`
	Average  *float64 `json:"average"`
	Count    int      `json:"count"`
}

// View is the serialisable form of a Result, with every list in display order.
type View struct {
	Materials   []string     `json:"materials"`
	Raw         []LabelRow   `json:"raw"`
	Approx      []LabelRow   `json:"approx"`
	Averages    []AverageRow `json:"averages"`
	Processed   int          `json:"processed"`
	Unbucketed  int          `json:"unbucketed"`
	Unprocessed int          `json:"unprocessed"`
}

// View lays the result out for JSON and text output.
func (r *Result) View() View {
	v := View{
		Materials:   r.Materials,
		Raw:         labelRows(r.Raw, r.RawLabels),
		Approx:      labelRows(r.Approx, r.ApproxLabels),
		Processed:   r.Processed,
		Unbucketed:  r.Unbucketed,
		Unprocessed: len(r.Unprocessed),
	}
	for _, m := range r.Materials {
		a := r.Averages[m]
		row := AverageRow{Material: m, Count: a.Count}
		if avg, ok := a.Rounded(); ok {
			row.Average = &avg
		}
		v.Averages = append(v.Averages, row)
	}
	return v
}

func labelRows(g GroupCounts, labels []string) []LabelRow {
	rows := make([]LabelRow, 0, len(labels))
	for _, l := range labels {
		row := LabelRow{Label: l, Counts: make(map[string]int)}
		for m, c := range g[l] {
			row.Counts[m] = c
			row.Total += c
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteText prints a plain-text report of r, one table per pass.
func WriteText(w io.Writer, title string, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	v := r.View()

	fmt.Fprintf(tw, "== %s: %d processed, %d unprocessed, %d unbucketed\n\n",
		title, v.Processed, v.Unprocessed, v.Unbucketed)

	for _, section := range []struct {
		name string
		rows []LabelRow
	}{{"raw", v.Raw}, {"approx", v.Approx}} {
		fmt.Fprintf(tw, "-- %s\n", section.name)
		fmt.Fprintf(tw, "label\t%s\ttotal\n", strings.Join(v.Materials, "\t"))
		for _, row := range section.rows {
			cells := make([]string, len(v.Materials))
			for i, m := range v.Materials {
				cells[i] = fmt.Sprint(row.Counts[m])
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\n", row.Label, strings.Join(cells, "\t"), row.Total)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintln(tw, "-- average")
	fmt.Fprintln(tw, "material\taverage\tcount")
	for _, a := range v.Averages {
		avg := "-"
		if a.Average != nil {
			avg = fmt.Sprintf("%.2f", *a.Average)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", a.Material, avg, a.Count)
	}
	return tw.Flush()
}
