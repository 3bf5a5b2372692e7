package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// testSolutions builds a small, valid solution set.
func testSolutions() map[int]*model.Layout {
	rows := func(n int) *model.Layout {
		poses := make([]model.Pose, n)
		for i := range poses {
			poses[i] = model.Pose{X: float64(i) * 1.2}
		}
		return model.NewLayout(poses)
	}
	return map[int]*model.Layout{1: rows(1), 2: rows(2), 4: rows(4)}
}

func TestExportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")
	require.NoError(t, ExportDXF(path, testSolutions()[4]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "LWPOLYLINE")
	assert.Contains(t, content, "TREES")
	assert.Contains(t, content, "BBOX")
}

func TestExportDXF_EmptyLayout(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "x.dxf"), nil)
	assert.Error(t, err)
}

func TestExportReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	info := NewRunInfo(42)
	require.Len(t, info.ID, 8)

	require.NoError(t, ExportReport(path, testSolutions(), []int{1, 4, 99}, info))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Greater(t, len(data), 1000)
}

func TestExportReport_Empty(t *testing.T) {
	err := ExportReport(filepath.Join(t.TempDir(), "r.pdf"), nil, nil, NewRunInfo(0))
	assert.Error(t, err)
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.xlsx")
	solutions := testSolutions()
	require.NoError(t, ExportXLSX(path, solutions))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(scoreSheet)
	require.NoError(t, err)
	// Header + three groups + totals.
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"n", "side", "score"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "total", rows[4][0])
}

func TestExportChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.html")
	require.NoError(t, ExportChart(path, testSolutions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "echarts")
	assert.Contains(t, content, "Score by group size")
}
