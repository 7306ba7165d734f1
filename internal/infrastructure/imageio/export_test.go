package imageio

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"robodoc/internal/domain/entity"
)

func TestExport(t *testing.T) {
	mask := entity.NewBinaryMask(4, 4)
	mask.Set(1, 1, true)
	result := &entity.CompositeResult{
		RunID:     "run-1",
		Params:    entity.Parameters{Threshold: 30, LineDensity: 20},
		Mask:      mask,
		MaskImage: mask.Image(),
		Overlay:   checker(4, 4),
		Hatched:   checker(4, 4),
		Panel:     checker(16, 4),
		Contours: entity.ContourSet{{
			Raw:    []image.Point{{1, 1}, {2, 1}, {2, 2}},
			Points: []image.Point{{1, 1}, {2, 2}},
			Area:   3,
			Bounds: image.Rect(1, 1, 3, 3),
		}},
	}

	dir := filepath.Join(t.TempDir(), "out")
	files, err := Export(dir, result, image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	require.Len(t, files, 6)
	for _, f := range files {
		_, err := os.Stat(f)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "contours.json"))
	require.NoError(t, err)

	var rec GeometryRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	require.Equal(t, "run-1", rec.RunID)
	require.Equal(t, 30, rec.Threshold)
	require.Len(t, rec.Contours, 1)
	require.Equal(t, [4]int{1, 1, 3, 3}, rec.Contours[0].Bounds)
	require.Equal(t, [][2]int{{1, 1}, {2, 2}}, rec.Contours[0].Points)
	require.Len(t, rec.Contours[0].Raw, 3)
}

func TestExport_WithoutCutout(t *testing.T) {
	mask := entity.NewBinaryMask(2, 2)
	result := &entity.CompositeResult{
		Mask:      mask,
		MaskImage: mask.Image(),
		Overlay:   checker(2, 2),
		Hatched:   checker(2, 2),
		Panel:     checker(8, 2),
		Contours:  entity.ContourSet{},
	}

	files, err := Export(t.TempDir(), result, nil)
	require.NoError(t, err)
	require.Len(t, files, 5)
}
