package attendance

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderTimesheetPDF renders a calendar view as a printable timesheet.
func RenderTimesheetPDF(employeeName string, entries []CalendarEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Timesheet")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 8, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Day", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Clock In", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Clock Out", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Location", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Mode", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, entry := range entries {
		clockOut := "open"
		if entry.ClockOut != nil {
			clockOut = entry.ClockOut.UTC().Format("15:04:05")
		}
		pdf.CellFormat(25, 8, entry.Date, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, entry.DayName, "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, entry.ClockIn.UTC().Format("15:04:05"), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, clockOut, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 8, entry.Location, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, string(entry.WorkMode), "1", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
