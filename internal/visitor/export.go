package visitor

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Visitors"

var exportHeader = []any{"Name", "Company", "Purpose", "Host", "Badge", "Checked in", "Checked out", "Active", "Stay (min)", "Notes"}

// WriteXLSX writes visitors as a single-sheet workbook, times rendered in loc.
func WriteXLSX(w io.Writer, visitors []Visitor, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, v := range visitors {
		row := []any{
			v.Name,
			deref(v.Company),
			deref(v.Purpose),
			deref(v.Host),
			deref(v.BadgeNumber),
			v.StartTime.In(loc).Format("2006-01-02 15:04"),
			"",
			v.IsActive,
			"",
			deref(v.Notes),
		}
		if v.EndTime != nil {
			row[6] = v.EndTime.In(loc).Format("2006-01-02 15:04")
		}
		if stay, ok := v.Stay(); ok {
			row[8] = int(stay.Round(time.Minute) / time.Minute)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
