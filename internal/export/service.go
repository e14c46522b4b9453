package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kochan17/recruitment-app/internal/entity"
)

// SheetName is the worksheet holding the batch summary.
const SheetName = "Screening"

var headers = []string{
	"Document",
	"Name",
	"Verdict",
	"Overall Rating",
	"Strengths Score",
	"Achievements Score",
	"Personality Score",
	"Strengths",
	"Achievements",
	"Faces",
	"Error",
}

// Service produces XLSX workbooks summarizing analysis reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportReportsXLSX returns a workbook (as bytes) with one row per report,
// ordered by document name. Failed documents keep their row with the error
// text and empty result columns.
func (s *Service) ExportReportsXLSX(ctx context.Context, reports []entity.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	rows := make([]entity.Report, len(reports))
	copy(rows, reports)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Document < rows[j].Document })

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, r.Document)
		if res := r.Result; res != nil {
			write(2, res.Name)
			write(3, string(res.Verdict))
			write(4, string(res.OverallRating))
			write(5, res.StrengthsScore)
			write(6, res.AchievementsScore)
			write(7, res.PersonalityScore)
			write(8, truncate(res.Strengths, 140))
			write(9, truncate(res.Achievements, 140))
		}
		write(10, len(r.Faces))
		write(11, r.Error)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 32) // document
	_ = f.SetColWidth(SheetName, "B", "B", 20) // name
	_ = f.SetColWidth(SheetName, "C", "C", 18) // verdict
	_ = f.SetColWidth(SheetName, "D", "G", 12) // rating and scores
	_ = f.SetColWidth(SheetName, "H", "I", 48) // excerpts
	_ = f.SetColWidth(SheetName, "K", "K", 60) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
