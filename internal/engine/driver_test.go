package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// testGroupParams keeps the restart loop cheap enough for unit tests.
func testGroupParams() GroupParams {
	p := DefaultGroupParams()
	p.Restarts = 3
	p.Anneal.Iterations = 1500
	p.RefineSweeps = 30
	p.PolishSweeps = 10
	return p
}

func TestRunGroup_NeverWorseThanBase(t *testing.T) {
	base := rowLayout(4)
	baseSide := base.Side()

	best := RunGroup(base, testGroupParams(), 0, nil)

	assert.LessOrEqual(t, best.Side(), baseSide)
	assert.False(t, best.AnyOverlap())
}

func TestRunGroup_Deterministic(t *testing.T) {
	p := testGroupParams()
	a := RunGroup(rowLayout(4), p, 17, nil)
	b := RunGroup(rowLayout(4), p, 17, nil)

	require.Equal(t, a.Poses, b.Poses)
	assert.Equal(t, a.Side(), b.Side())
}

func TestRunGroup_WithRandomInits(t *testing.T) {
	p := testGroupParams()
	p.RandInit.Inits = 2
	p.RandInit.MaxN = 10

	base := rowLayout(3)
	best := RunGroup(base, p, 5, nil)

	assert.LessOrEqual(t, best.Side(), base.Side())
	assert.False(t, best.AnyOverlap())
}

func TestRunGroup_WithCompression(t *testing.T) {
	p := testGroupParams()
	p.Compress = CompressParams{Steps: 3, Factor: 0.97, RelaxIter: 40, RelaxStep: 0.02}

	base := rowLayout(3)
	best := RunGroup(base, p, 5, nil)

	assert.LessOrEqual(t, best.Side(), base.Side())
	assert.False(t, best.AnyOverlap())
}

func TestScheduler_ImprovesAndValidates(t *testing.T) {
	solutions := map[int]*model.Layout{
		2: rowLayout(2),
		3: rowLayout(3),
	}
	before := TotalScore(solutions)

	var checkpoints int
	s := &Scheduler{
		Params: SchedulerParams{
			MinN:        1,
			MaxN:        5,
			Generations: 2,
			MaxStall:    2,
			Workers:     2,
			Group:       testGroupParams(),
			FinalPolish: 10,
		},
		Checkpoint: func(sol map[int]*model.Layout, total float64) error {
			checkpoints++
			assert.Less(t, total, before)
			return nil
		},
	}

	out, err := s.Run(context.Background(), solutions)
	require.NoError(t, err)

	assert.LessOrEqual(t, TotalScore(out), before)
	for n, l := range out {
		assert.Equal(t, n, l.N())
		assert.False(t, l.AnyOverlap(), "group %d must stay overlap-free", n)
	}
	assert.GreaterOrEqual(t, checkpoints, 1)
}

func TestScheduler_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scheduler{Params: DefaultSchedulerParams()}
	s.Params.Group = testGroupParams()
	s.Params.MinN, s.Params.MaxN = 2, 3

	_, err := s.Run(ctx, map[int]*model.Layout{2: rowLayout(2)})
	assert.Error(t, err)
}

func TestTotalScore(t *testing.T) {
	a := rowLayout(2)
	b := rowLayout(3)
	got := TotalScore(map[int]*model.Layout{2: a, 3: b})
	assert.InDelta(t, a.Score()+b.Score(), got, 1e-12)
}
