package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

func TestRefine_ImprovesLooseRow(t *testing.T) {
	l := rowLayout(3)
	before := l.Side()

	Refine(l, 50)

	assert.Less(t, l.Side(), before)
	assert.False(t, l.AnyOverlap())
}

func TestRefine_IdempotentAtFixedPoint(t *testing.T) {
	l := rowLayout(3)
	Refine(l, 200)
	converged := append([]model.Pose(nil), l.Poses...)
	side := l.Side()

	Refine(l, 200)

	assert.Equal(t, converged, l.Poses)
	assert.Equal(t, side, l.Side())
}

func TestRefine_SingleTreeStaysValid(t *testing.T) {
	l := model.NewLayout([]model.Pose{{Deg: 30}})
	Refine(l, 50)

	assert.False(t, l.AnyOverlap())
	assert.LessOrEqual(t, l.Side(), model.NewLayout([]model.Pose{{Deg: 30}}).Side())
}

func TestPolishFractional_NeverRegresses(t *testing.T) {
	l := rowLayout(4)
	Refine(l, 50)
	before := l.Side()

	PolishFractional(l, 30)

	assert.LessOrEqual(t, l.Side(), before)
	assert.False(t, l.AnyOverlap())
}

func TestPolishFractional_IdempotentAtFixedPoint(t *testing.T) {
	l := rowLayout(2)
	Refine(l, 100)
	PolishFractional(l, 100)
	converged := append([]model.Pose(nil), l.Poses...)

	PolishFractional(l, 100)

	require.Equal(t, converged, l.Poses)
}
