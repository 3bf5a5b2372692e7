package submission

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submission.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_StripsMarkers(t *testing.T) {
	path := writeFile(t, "id,x,y,deg\n001_0,s1.5,s-2.25,s45\n")

	solutions, err := Load(path)
	require.NoError(t, err)
	require.Len(t, solutions, 1)

	l := solutions[1]
	require.Equal(t, 1, l.N())
	assert.InDelta(t, 1.5, l.Poses[0].X, 1e-12)
	assert.InDelta(t, -2.25, l.Poses[0].Y, 1e-12)
	assert.InDelta(t, 45.0, l.Poses[0].Deg, 1e-12)
}

func TestLoad_AcceptsUnmarkedValues(t *testing.T) {
	path := writeFile(t, "id,x,y,deg\n001_0,0.5,0.25,90\n")

	solutions, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, solutions[1].Poses[0].X, 1e-12)
}

func TestLoad_MalformedRowFailsWholeLoad(t *testing.T) {
	cases := map[string]string{
		"bad x":           "id,x,y,deg\n001_0,snope,s0,s0\n",
		"bad id":          "id,x,y,deg\nbroken,s0,s0,s0\n",
		"index too large": "id,x,y,deg\n002_0,s0,s0,s0\n002_5,s4,s0,s0\n",
		"duplicate index": "id,x,y,deg\n002_0,s0,s0,s0\n002_0,s4,s0,s0\n",
		"missing tree":    "id,x,y,deg\n002_0,s0,s0,s0\n",
		"group zero":      "id,x,y,deg\n000_0,s0,s0,s0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			solutions, err := Load(writeFile(t, content))
			assert.Error(t, err)
			assert.Nil(t, solutions, "no partial result on failure")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	solutions := map[int]*model.Layout{
		1: model.NewLayout([]model.Pose{{X: 0.123456789012345, Y: -9.87, Deg: 359.999}}),
		2: model.NewLayout([]model.Pose{{X: 0}, {X: 2, Deg: 180}}),
	}
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, Save(path, solutions))
	loaded, err := Load(path)
	require.NoError(t, err)

	require.Len(t, loaded, 2)
	for n, want := range solutions {
		got := loaded[n]
		require.Equal(t, want.N(), got.N())
		for i := range want.Poses {
			assert.InDelta(t, want.Poses[i].X, got.Poses[i].X, 1e-12)
			assert.InDelta(t, want.Poses[i].Y, got.Poses[i].Y, 1e-12)
			assert.InDelta(t, want.Poses[i].Deg, got.Poses[i].Deg, 1e-12)
		}
	}
}

func TestSave_WritesMarkersAndPrecision(t *testing.T) {
	solutions := map[int]*model.Layout{
		1: model.NewLayout([]model.Pose{{X: 1.0 / 3.0}}),
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Save(path, solutions))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "id,x,y,deg", lines[0])
	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 4)
	assert.Equal(t, "001_0", fields[0])
	assert.Equal(t, "s0.333333333333333", fields[1])
	assert.True(t, strings.HasPrefix(fields[2], "s0.0000"))
}

func TestSave_RefusesOverlappingGroup(t *testing.T) {
	solutions := map[int]*model.Layout{
		2: model.NewLayout([]model.Pose{{X: 0}, {X: 0.01}}),
	}
	err := Save(filepath.Join(t.TempDir(), "out.csv"), solutions)
	assert.ErrorContains(t, err, "overlapping")
}
