package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

func rowLayout(n int) *model.Layout {
	poses := make([]model.Pose, n)
	for i := range poses {
		poses[i] = model.Pose{X: float64(i) * 1.2}
	}
	return model.NewLayout(poses)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Groups)
}

func TestSummarize(t *testing.T) {
	solutions := map[int]*model.Layout{
		1: rowLayout(1),
		3: rowLayout(3),
		2: rowLayout(2),
	}
	s := Summarize(solutions)

	require.Len(t, s.Groups, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{s.Groups[0].N, s.Groups[1].N, s.Groups[2].N})

	wantTotal := rowLayout(1).Score() + rowLayout(2).Score() + rowLayout(3).Score()
	assert.InDelta(t, wantTotal, s.Total, 1e-12)
	assert.InDelta(t, wantTotal/3, s.Mean, 1e-12)
	assert.Greater(t, s.StdDev, 0.0)

	// Loose rows get worse per tree as n grows: side grows linearly but
	// score divides by n, so the largest row dominates here.
	assert.Equal(t, 3, s.Worst.N)
}

func TestWorstGroups(t *testing.T) {
	solutions := map[int]*model.Layout{
		1: rowLayout(1),
		2: rowLayout(2),
		3: rowLayout(3),
	}
	worst := WorstGroups(solutions, 2)

	require.Len(t, worst, 2)
	assert.Equal(t, 3, worst[0].N)
	assert.GreaterOrEqual(t, worst[0].Score, worst[1].Score)

	assert.Len(t, WorstGroups(solutions, 99), 3)
}

func TestImprovement(t *testing.T) {
	before := map[int]*model.Layout{2: rowLayout(2)}
	tight := model.NewLayout([]model.Pose{{X: 0}, {X: 0.75}})
	after := map[int]*model.Layout{2: tight, 5: rowLayout(5)}

	deltas := Improvement(before, after)

	require.Len(t, deltas, 1)
	assert.Greater(t, deltas[2], 0.0)
}
