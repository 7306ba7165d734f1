package entity

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegion_Validate(t *testing.T) {
	require.NoError(t, NewRegion(image.NewRGBA(image.Rect(0, 0, 4, 4)), RegionInjury).Validate())

	err := NewRegion(image.NewRGBA(image.Rect(0, 0, 0, 4)), RegionInjury).Validate()
	require.True(t, errors.Is(err, ErrInvalidRegion))

	err = NewRegion(image.NewAlpha(image.Rect(0, 0, 4, 4)), RegionControl).Validate()
	require.True(t, errors.Is(err, ErrInvalidRegion))

	err = Region{Kind: RegionControl}.Validate()
	require.True(t, errors.Is(err, ErrInvalidRegion))
}

func TestCheckPair(t *testing.T) {
	injury := NewRegion(image.NewRGBA(image.Rect(0, 0, 100, 100)), RegionInjury)

	control := NewRegion(image.NewRGBA(image.Rect(0, 0, 50, 50)), RegionControl)
	require.True(t, errors.Is(CheckPair(injury, control), ErrDimensionMismatch))

	gray := NewRegion(image.NewGray(image.Rect(0, 0, 100, 100)), RegionControl)
	require.True(t, errors.Is(CheckPair(injury, gray), ErrDimensionMismatch))

	same := NewRegion(image.NewNRGBA(image.Rect(10, 10, 110, 110)), RegionControl)
	require.NoError(t, CheckPair(injury, same))
}
