package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

const (
	SheetSummary      = "Summary"
	SheetAppointments = "Appointments"
	SheetPopularSlots = "Popular Slots"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Metric struct {
	Name  string
	Value any
}

type SlotRow struct {
	Time      string
	Scheduled int
	Showed    int
	NoShow    int
}

// Report is everything the scheduling workbook shows.
type Report struct {
	GeneratedAt  time.Time
	Location     *time.Location
	Summary      []Metric
	Appointments []models.Appointment
	PopularSlots []SlotRow
}

// FileName is the download/object name for a report.
func (r Report) FileName() string {
	return fmt.Sprintf("scheduling-report-%s.xlsx", r.GeneratedAt.In(r.loc()).Format("20060102-1504"))
}

func (r Report) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func BuildWorkbook(r Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	// ----- Summary -----
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	f.SetColWidth(SheetSummary, "A", "A", 28)
	f.SetColWidth(SheetSummary, "B", "B", 22)
	f.SetCellValue(SheetSummary, "A1", "Metric")
	f.SetCellValue(SheetSummary, "B1", "Value")
	f.SetCellStyle(SheetSummary, "A1", "B1", headerStyle)
	f.SetCellValue(SheetSummary, "A2", "Generated at")
	f.SetCellValue(SheetSummary, "B2", r.GeneratedAt.In(r.loc()).Format("2006-01-02 15:04"))
	for i, m := range r.Summary {
		f.SetCellValue(SheetSummary, cell("A", i+3), m.Name)
		f.SetCellValue(SheetSummary, cell("B", i+3), m.Value)
	}

	// ----- Appointments -----
	if _, err := f.NewSheet(SheetAppointments); err != nil {
		return nil, err
	}
	headers := []string{"ID", "Business", "Phone", "Date", "Time", "Duration (min)", "Status", "Auto", "Notes"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(SheetAppointments, cell(col, 1), h)
	}
	f.SetCellStyle(SheetAppointments, "A1", "I1", headerStyle)
	f.SetColWidth(SheetAppointments, "B", "B", 28)
	f.SetColWidth(SheetAppointments, "C", "C", 16)
	f.SetColWidth(SheetAppointments, "D", "D", 12)
	f.SetColWidth(SheetAppointments, "I", "I", 40)

	for i, ap := range r.Appointments {
		row := i + 2
		var name, phone string
		if ap.Lead != nil {
			name, phone = ap.Lead.Name, ap.Lead.Phone
		}
		local := ap.Datetime.In(r.loc())
		f.SetCellValue(SheetAppointments, cell("A", row), ap.ID)
		f.SetCellValue(SheetAppointments, cell("B", row), name)
		f.SetCellValue(SheetAppointments, cell("C", row), phone)
		f.SetCellValue(SheetAppointments, cell("D", row), local.Format("2006-01-02"))
		f.SetCellValue(SheetAppointments, cell("E", row), local.Format("15:04"))
		f.SetCellValue(SheetAppointments, cell("F", row), ap.DurationMinutes)
		f.SetCellValue(SheetAppointments, cell("G", row), ap.Status)
		f.SetCellValue(SheetAppointments, cell("H", row), yesNo(ap.IsAutoScheduled))
		f.SetCellValue(SheetAppointments, cell("I", row), ap.Notes)
	}

	// ----- Popular Slots -----
	if _, err := f.NewSheet(SheetPopularSlots); err != nil {
		return nil, err
	}
	for i, h := range []string{"Time", "Scheduled", "Showed", "No-show"} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(SheetPopularSlots, cell(col, 1), h)
	}
	f.SetCellStyle(SheetPopularSlots, "A1", "D1", headerStyle)
	for i, s := range r.PopularSlots {
		row := i + 2
		f.SetCellValue(SheetPopularSlots, cell("A", row), s.Time)
		f.SetCellValue(SheetPopularSlots, cell("B", row), s.Scheduled)
		f.SetCellValue(SheetPopularSlots, cell("C", row), s.Showed)
		f.SetCellValue(SheetPopularSlots, cell("D", row), s.NoShow)
	}

	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
