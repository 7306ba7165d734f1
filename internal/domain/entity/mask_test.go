package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryMask_CountAndImage(t *testing.T) {
	m := NewBinaryMask(4, 3)
	require.Equal(t, 0, m.Count())
	require.Zero(t, m.Ratio())

	m.Set(1, 1, true)
	m.Set(3, 2, true)
	require.Equal(t, 2, m.Count())
	require.True(t, m.At(1, 1))
	require.False(t, m.At(-1, 0))
	require.False(t, m.At(4, 0))

	img := m.Image()
	require.Equal(t, uint8(0xff), img.GrayAt(3, 2).Y)
	require.Equal(t, uint8(0), img.GrayAt(0, 0).Y)

	m.Set(1, 1, false)
	require.Equal(t, 1, m.Count())
}
