package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/abrezinsky/judgesched/internal/models"
)

const (
	ScheduleSheet  = "Schedule"
	ConflictsSheet = "Conflicts"
)

// Workbook builds a spreadsheet with the grid on one sheet and the
// conflict list on another. The caller must Close the file.
func Workbook(g Grid, conflicts []models.ConflictDetail) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ConflictsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeSchedule(f, g, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeConflicts(f, conflicts, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Write renders the workbook to w
func Write(w io.Writer, g Grid, conflicts []models.ConflictDetail) error {
	f, err := Workbook(g, conflicts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSchedule(f *excelize.File, g Grid, headerStyle int) error {
	header := []interface{}{"Time"}
	for _, j := range g.Judges {
		label := j.Name
		if j.Category != models.CategoryNone {
			label = fmt.Sprintf("%s (%s)", j.Name, j.Category)
		}
		header = append(header, label)
	}
	if err := setRow(f, ScheduleSheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ScheduleSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range g.Rows {
		values := []interface{}{row.Clock}
		for _, c := range row.Cells {
			switch {
			case c == nil:
				values = append(values, "")
			case c.Start:
				values = append(values, c.Label())
			default:
				values = append(values, "|")
			}
		}
		if err := setRow(f, ScheduleSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeConflicts(f *excelize.File, conflicts []models.ConflictDetail, headerStyle int) error {
	if err := setRow(f, ConflictsSheet, 1, []interface{}{"Severity", "Kind", "Message"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(ConflictsSheet, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for i, c := range conflicts {
		if err := setRow(f, ConflictsSheet, i+2, []interface{}{string(c.Severity), string(c.Kind), c.Message}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
