package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/zdanovic/kaggle.santa-2025/internal/analysis"
	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// scoreSheet is the worksheet name of the per-group score table.
const scoreSheet = "Scores"

// ExportXLSX writes a workbook with one row per group (n, side, score)
// and a trailing totals row, for spreadsheet-side slicing of which
// groups deserve more budget.
func ExportXLSX(path string, solutions map[int]*model.Layout) error {
	if len(solutions) == 0 {
		return fmt.Errorf("no solutions to export")
	}
	summary := analysis.Summarize(solutions)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(scoreSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"n", "side", "score"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(scoreSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, g := range summary.Groups {
		values := []interface{}{g.N, g.Side, g.Score}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(scoreSheet, cell, v); err != nil {
				return fmt.Errorf("write group %d: %w", g.N, err)
			}
		}
		row++
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetCellValue(scoreSheet, totalCell, "total"); err != nil {
		return fmt.Errorf("write total label: %w", err)
	}
	scoreCell, _ := excelize.CoordinatesToCellName(3, row)
	if err := f.SetCellValue(scoreSheet, scoreCell, summary.Total); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	return f.SaveAs(path)
}
