package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/ceramics-catalogue/pkg/aggregate"
)

// Workbook sheet names.
const (
	SheetRaw         = "Raw"
	SheetApprox      = "Approx"
	SheetAverages    = "Averages"
	SheetUnprocessed = "Unprocessed"
)

// Workbook lays a result out as a spreadsheet: one sheet per pass plus the
// unprocessed rows.
func Workbook(r *aggregate.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetRaw); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetApprox, SheetAverages, SheetUnprocessed} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	v := r.View()
	if err := countsSheet(f, SheetRaw, v.Materials, v.Raw); err != nil {
		return nil, err
	}
	if err := countsSheet(f, SheetApprox, v.Materials, v.Approx); err != nil {
		return nil, err
	}

	rows := [][]any{{"Material", "Average %", "Mapped rows"}}
	for _, a := range v.Averages {
		var avg any = ""
		if a.Average != nil {
			avg = *a.Average
		}
		rows = append(rows, []any{a.Material, avg, a.Count})
	}
	if err := writeRows(f, SheetAverages, rows); err != nil {
		return nil, err
	}

	rows = [][]any{{"Line", "Inventory", "Reason"}}
	for _, u := range r.Unprocessed {
		rows = append(rows, []any{u.Line, u.Inventory, u.Reason})
	}
	if err := writeRows(f, SheetUnprocessed, rows); err != nil {
		return nil, err
	}
	return f, nil
}

func countsSheet(f *excelize.File, sheet string, materials []string, labels []aggregate.LabelRow) error {
	header := []any{"Lacuna %"}
	for _, m := range materials {
		header = append(header, m)
	}
	header = append(header, "Total")

	rows := [][]any{header}
	for _, l := range labels {
		row := []any{l.Label}
		for _, m := range materials {
			row = append(row, l.Counts[m])
		}
		rows = append(rows, append(row, l.Total))
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s!%s: %w", sheet, cell, err)
			}
		}
	}
	if len(rows) > 0 {
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
			return err
		}
	}
	return nil
}

// WriteWorkbook writes the workbook of r to w.
func WriteWorkbook(w io.Writer, r *aggregate.Result) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
