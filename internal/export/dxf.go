// Package export renders solution sets to inspection formats: DXF
// drawings of a group layout, a PDF report with per-group diagrams and
// a QR-tagged run identity, an XLSX score workbook, and an HTML score
// chart.
package export

import (
	"fmt"

	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// ExportDXF writes one group's layout as a DXF drawing: every tree as a
// closed polyline on a trees layer, plus the global bounding box on its
// own layer so the limiting extent is visible in any CAD viewer.
func ExportDXF(path string, l *model.Layout) error {
	if l == nil || l.N() == 0 {
		return fmt.Errorf("no layout to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer("TREES", dxfcolor.Green, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("add trees layer: %w", err)
	}

	for _, poly := range l.Polys {
		vs := make([][]float64, 0, len(poly.V))
		for _, v := range poly.V {
			vs = append(vs, []float64{v.X, v.Y})
		}
		if _, err := d.LwPolyline(true, vs...); err != nil {
			return fmt.Errorf("polyline: %w", err)
		}
	}

	if _, err := d.AddLayer("BBOX", dxfcolor.Red, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("add bbox layer: %w", err)
	}
	x0, y0, x1, y1 := l.BBox()
	bbox := [][]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	if _, err := d.LwPolyline(true, bbox...); err != nil {
		return fmt.Errorf("bbox polyline: %w", err)
	}

	return d.SaveAs(path)
}
