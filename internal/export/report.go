package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/zdanovic/kaggle.santa-2025/internal/analysis"
	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// RunInfo identifies one optimize run; it is embedded in report
// filenames and encoded into the report's QR code.
type RunInfo struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	SeedBase   int64     `json:"seed_base"`
	TotalScore float64   `json:"total_score"`
	Groups     int       `json:"groups"`
}

// NewRunInfo mints a run identity with a short unique ID.
func NewRunInfo(seedBase int64) RunInfo {
	return RunInfo{
		ID:        uuid.New().String()[:8],
		CreatedAt: time.Now().UTC(),
		SeedBase:  seedBase,
	}
}

// Page layout constants (A4 portrait in mm).
const (
	reportPageWidth  = 210.0
	reportPageHeight = 297.0
	reportMargin     = 15.0
	reportHeaderH    = 12.0
	reportQRSize     = 30.0
)

var treeFill = []struct{ R, G, B int }{
	{76, 175, 80},   // green
	{33, 150, 243},  // blue
	{255, 152, 0},   // orange
	{156, 39, 176},  // purple
	{0, 188, 212},   // cyan
	{244, 67, 54},   // red
}

// ExportReport generates a PDF report: a summary page with run
// identity, aggregate statistics and a QR code, followed by one layout
// diagram page per selected group. Selected groups not present in the
// solution set are skipped.
func ExportReport(path string, solutions map[int]*model.Layout, groups []int, info RunInfo) error {
	if len(solutions) == 0 {
		return fmt.Errorf("no solutions to report")
	}
	summary := analysis.Summarize(solutions)
	info.TotalScore = summary.Total
	info.Groups = len(summary.Groups)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, reportMargin)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, summary, info); err != nil {
		return err
	}

	sort.Ints(groups)
	for _, n := range groups {
		l, ok := solutions[n]
		if !ok {
			continue
		}
		pdf.AddPage()
		renderGroupPage(pdf, n, l)
	}

	return pdf.OutputFileAndClose(path)
}

// renderSummaryPage draws the run identity, aggregate score table and
// the QR code on the current page.
func renderSummaryPage(pdf *fpdf.Fpdf, summary analysis.Summary, info RunInfo) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(reportMargin, reportMargin)
	pdf.CellFormat(reportPageWidth-2*reportMargin, reportHeaderH,
		fmt.Sprintf("Packing report - run %s", info.ID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(reportMargin, reportMargin+reportHeaderH)
	lines := []string{
		fmt.Sprintf("Created: %s", info.CreatedAt.Format(time.RFC3339)),
		fmt.Sprintf("Seed base: %d", info.SeedBase),
		fmt.Sprintf("Groups: %d", info.Groups),
		fmt.Sprintf("Total score: %.6f", summary.Total),
		fmt.Sprintf("Mean group score: %.6f (stddev %.6f, median %.6f)", summary.Mean, summary.StdDev, summary.Median),
		fmt.Sprintf("Worst group: n=%d, score %.6f", summary.Worst.N, summary.Worst.Score),
	}
	for _, line := range lines {
		pdf.CellFormat(reportPageWidth-2*reportMargin-reportQRSize, 6, line, "", 1, "L", false, 0, "")
	}

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal run info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}
	imgName := "qr_run_" + info.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, reportPageWidth-reportMargin-reportQRSize, reportMargin,
		reportQRSize, reportQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Score table, ten groups per row of columns n/side/score.
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(reportMargin, reportMargin+reportHeaderH+48)
	pdf.CellFormat(20, 5, "n", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 5, "side", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 5, "score", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	maxRows := int((reportPageHeight - pdf.GetY() - reportMargin) / 4)
	for i, g := range summary.Groups {
		if i >= maxRows {
			pdf.SetX(reportMargin)
			pdf.CellFormat(100, 4, fmt.Sprintf("... %d more groups", len(summary.Groups)-i), "", 1, "L", false, 0, "")
			break
		}
		pdf.SetX(reportMargin)
		pdf.CellFormat(20, 4, fmt.Sprintf("%d", g.N), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 4, fmt.Sprintf("%.9f", g.Side), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 4, fmt.Sprintf("%.9f", g.Score), "", 1, "L", false, 0, "")
	}
	return nil
}

// renderGroupPage draws one group's layout scaled to fit the page.
func renderGroupPage(pdf *fpdf.Fpdf, n int, l *model.Layout) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(reportMargin, reportMargin)
	title := fmt.Sprintf("Group n=%d - side %.9f, score %.9f", n, l.Side(), l.Score())
	pdf.CellFormat(reportPageWidth-2*reportMargin, reportHeaderH, title, "", 1, "L", false, 0, "")

	x0, y0, x1, y1 := l.BBox()
	drawW := reportPageWidth - 2*reportMargin
	drawH := reportPageHeight - reportMargin - (reportMargin + reportHeaderH + 5)
	scale := math.Min(drawW/(x1-x0), drawH/(y1-y0))

	offX := reportMargin + (drawW-(x1-x0)*scale)/2
	offY := reportMargin + reportHeaderH + 5

	// PDF y grows downward; flip the layout so the drawing is upright.
	tx := func(x float64) float64 { return offX + (x-x0)*scale }
	ty := func(y float64) float64 { return offY + (y1-y)*scale }

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.3)
	pdf.Rect(tx(x0), ty(y1), (x1-x0)*scale, (y1-y0)*scale, "D")

	pdf.SetLineWidth(0.2)
	for i, poly := range l.Polys {
		col := treeFill[i%len(treeFill)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(40, 40, 40)
		pts := make([]fpdf.PointType, 0, len(poly.V))
		for _, v := range poly.V {
			pts = append(pts, fpdf.PointType{X: tx(v.X), Y: ty(v.Y)})
		}
		pdf.Polygon(pts, "FD")
	}
}
