package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContourCenter(t *testing.T) {
	c := Contour{Bounds: image.Rect(10, 20, 18, 26)}
	x, y := c.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}

func TestContourSet_Totals(t *testing.T) {
	s := ContourSet{
		{Area: 100, Points: make([]image.Point, 5)},
		{Area: 60, Points: make([]image.Point, 3)},
	}
	require.Equal(t, 160, s.TotalArea())
	require.Equal(t, 8, s.PointCount())
	require.Zero(t, ContourSet{}.TotalArea())
}
