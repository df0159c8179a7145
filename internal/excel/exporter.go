package excel

import (
	"context"
	"fmt"
	"io"
	"time"

	"dana-report-card/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	GradesSheet  = "Report Card"
	HistorySheet = "History"
)

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the report card as a two-sheet workbook: student details
// and grades, then every course's history.
func (e *Exporter) Export(ctx context.Context, summary model.Summary, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", GradesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := file.NewSheet(HistorySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := e.writeGrades(ctx, file, summary); err != nil {
		return err
	}
	if err := e.writeHistory(ctx, file, summary); err != nil {
		return err
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *Exporter) writeGrades(ctx context.Context, file *excelize.File, summary model.Summary) error {
	rows := [][]interface{}{
		{"Student", summary.FullName},
		{"School", summary.SchoolName},
		{"National ID", summary.NationalCode},
		{},
		{"Course Title", "Final Grade", "Mid-term Grade"},
	}
	for _, course := range summary.Courses {
		rows = append(rows, []interface{}{course.Title, gradeCell(course.FinalGrade), gradeCell(course.MidTermGrade)})
	}
	rows = append(rows, []interface{}{}, []interface{}{"GPA", gradeCell(summary.GPA)})

	return writeRows(ctx, file, GradesSheet, rows)
}

func (e *Exporter) writeHistory(ctx context.Context, file *excelize.File, summary model.Summary) error {
	rows := [][]interface{}{
		{"Course Title", "By", "Date", "Action"},
	}
	for _, course := range summary.Courses {
		for _, entry := range course.History {
			date := ""
			if !entry.Date.IsZero() {
				date = entry.Date.Format(time.RFC3339)
			}
			rows = append(rows, []interface{}{course.Title, entry.By, date, entry.Action})
		}
	}

	return writeRows(ctx, file, HistorySheet, rows)
}

func writeRows(ctx context.Context, file *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func gradeCell(grade *float64) interface{} {
	if grade == nil {
		return model.NotAvailable
	}
	return *grade
}
