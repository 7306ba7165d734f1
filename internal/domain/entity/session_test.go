package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession(1, 10)
	require.Equal(t, StateMainMenu, s.State)
	require.Equal(t, int64(1), s.ID)
	require.Equal(t, int64(10), s.ChatID)
	require.NoError(t, s.Params().Validate())
	require.False(t, s.RegionsSelected())
}

func TestSession_Regions(t *testing.T) {
	s := NewSession(1, 10)
	s.Injury = image.Rect(0, 0, 20, 20)
	require.False(t, s.RegionsSelected())

	s.Control = image.Rect(30, 30, 50, 50)
	require.True(t, s.RegionsSelected())

	s.ResetRegions()
	require.False(t, s.RegionsSelected())
}

func TestNewSessionWith_Params(t *testing.T) {
	s := NewSessionWith(1, 10, Parameters{Threshold: 90, LineDensity: 7})
	require.Equal(t, Parameters{Threshold: 90, LineDensity: 7}, s.Params())
}
