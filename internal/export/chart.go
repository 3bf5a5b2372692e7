package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/zdanovic/kaggle.santa-2025/internal/analysis"
	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// ExportChart renders an HTML line chart of score and side against the
// group size, the quickest way to spot which size band is lagging.
func ExportChart(path string, solutions map[int]*model.Layout) error {
	if len(solutions) == 0 {
		return fmt.Errorf("no solutions to chart")
	}
	summary := analysis.Summarize(solutions)

	xs := make([]int, 0, len(summary.Groups))
	scores := make([]opts.LineData, 0, len(summary.Groups))
	sides := make([]opts.LineData, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		xs = append(xs, g.N)
		scores = append(scores, opts.LineData{Value: g.Score})
		sides = append(sides, opts.LineData{Value: g.Side})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Score by group size",
			Subtitle: fmt.Sprintf("total %.6f over %d groups", summary.Total, len(summary.Groups)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "n"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xs).
		AddSeries("score", scores).
		AddSeries("side", sides)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer f.Close()
	if err := line.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}
