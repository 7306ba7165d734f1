package vision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"robodoc/internal/domain/entity"
)

func TestDiff(t *testing.T) {
	a := &Plane{Width: 2, Height: 2, Pix: []float64{10, 20, 30, 40}}
	b := &Plane{Width: 2, Height: 2, Pix: []float64{15, 20, 10, 40}}

	m, err := Diff(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 0, 20, 0}, m.Pix)

	stats := m.Stats()
	require.InDelta(t, 6.25, stats.Mean, 1e-9)
	require.Equal(t, 20.0, stats.Max)
	require.Greater(t, stats.StdDev, 0.0)
}

func TestDiff_DimensionMismatch(t *testing.T) {
	a := &Plane{Width: 2, Height: 2, Pix: make([]float64, 4)}
	b := &Plane{Width: 1, Height: 2, Pix: make([]float64, 2)}

	_, err := Diff(a, b)
	require.True(t, errors.Is(err, entity.ErrDimensionMismatch))
}

func TestDifferenceMap_StatsDegenerate(t *testing.T) {
	require.Equal(t, entity.DifferenceStats{}, (&DifferenceMap{}).Stats())

	single := &DifferenceMap{Width: 1, Height: 1, Pix: []float64{7}}
	stats := single.Stats()
	require.Equal(t, 7.0, stats.Mean)
	require.Zero(t, stats.StdDev)
}
