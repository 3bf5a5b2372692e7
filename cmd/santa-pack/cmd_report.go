package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zdanovic/kaggle.santa-2025/internal/export"
	"github.com/zdanovic/kaggle.santa-2025/internal/submission"
)

var (
	reportPDF    string
	reportXLSX   string
	reportChart  string
	reportDXF    string
	reportDXFN   int
	reportGroups []int
	reportSeed   int64
)

var reportCmd = &cobra.Command{
	Use:   "report <submission.csv>",
	Short: "Render a submission as PDF, XLSX, HTML chart or DXF",
	Long: `Generates human-readable artifacts from a submission:

  --pdf    summary page plus layout diagrams for the selected groups
  --xlsx   per-group score spreadsheet
  --chart  interactive score-by-group-size HTML chart
  --dxf    CAD drawing of a single group layout (pick it with --dxf-n)

At least one output flag is required.

Examples:
  santa-pack report sub.csv --pdf report.pdf --groups 1,2,100,200
  santa-pack report sub.csv --xlsx scores.xlsx --chart scores.html
  santa-pack report sub.csv --dxf layout.dxf --dxf-n 150`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportPDF, "pdf", "", "PDF report output path")
	f.StringVar(&reportXLSX, "xlsx", "", "XLSX score table output path")
	f.StringVar(&reportChart, "chart", "", "HTML score chart output path")
	f.StringVar(&reportDXF, "dxf", "", "DXF layout output path")
	f.IntVar(&reportDXFN, "dxf-n", 1, "group size to draw into the DXF")
	f.IntSliceVar(&reportGroups, "groups", nil,
		"group sizes to include as PDF diagram pages (default: all)")
	f.Int64Var(&reportSeed, "seed", 0, "seed base recorded in the run identity")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportPDF == "" && reportXLSX == "" && reportChart == "" && reportDXF == "" {
		return fmt.Errorf("no output requested, pass --pdf, --xlsx, --chart or --dxf")
	}

	solutions, err := submission.Load(args[0])
	if err != nil {
		return err
	}

	if reportPDF != "" {
		groups := reportGroups
		if len(groups) == 0 {
			for n := range solutions {
				groups = append(groups, n)
			}
			sort.Ints(groups)
		}
		info := export.NewRunInfo(reportSeed)
		if err := export.ExportReport(reportPDF, solutions, groups, info); err != nil {
			return fmt.Errorf("pdf report: %w", err)
		}
		slog.Info("report written", slog.String("path", reportPDF), slog.String("run_id", info.ID))
	}

	if reportXLSX != "" {
		if err := export.ExportXLSX(reportXLSX, solutions); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		slog.Info("score table written", slog.String("path", reportXLSX))
	}

	if reportChart != "" {
		if err := export.ExportChart(reportChart, solutions); err != nil {
			return fmt.Errorf("chart export: %w", err)
		}
		slog.Info("chart written", slog.String("path", reportChart))
	}

	if reportDXF != "" {
		l, ok := solutions[reportDXFN]
		if !ok {
			return fmt.Errorf("group %d not present in submission", reportDXFN)
		}
		if err := export.ExportDXF(reportDXF, l); err != nil {
			return fmt.Errorf("dxf export: %w", err)
		}
		slog.Info("dxf written", slog.String("path", reportDXF), slog.Int("n", reportDXFN))
	}

	return nil
}
