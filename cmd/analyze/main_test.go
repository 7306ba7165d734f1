package main

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"robodoc/internal/domain/entity"
	"robodoc/internal/infrastructure/imageio"
)

func TestParseRect(t *testing.T) {
	r, err := parseRect("1, 2, 30, 40")
	require.NoError(t, err)
	require.Equal(t, image.Rect(1, 2, 31, 42), r)

	_, err = parseRect("1,2,3")
	require.Error(t, err)
	_, err = parseRect("a,b,c,d")
	require.Error(t, err)
}

func TestLoadRegions_FromOnePhoto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.SetRGBA(25, 5, color.RGBA{R: 255, A: 255})
	require.NoError(t, imageio.Save(path, img))

	inj, ctl, err := loadRegions(path, "0,0,20,20", "20,0,20,20", "", "")
	require.NoError(t, err)
	require.Equal(t, entity.RegionInjury, inj.Kind)
	require.Equal(t, entity.RegionControl, ctl.Kind)
	require.NoError(t, entity.CheckPair(inj, ctl))

	r, _, _, _ := ctl.Image.At(5, 5).RGBA()
	require.Equal(t, uint32(0xffff), r)
}

func TestLoadRegions_Errors(t *testing.T) {
	_, _, err := loadRegions("", "", "", "only-one.png", "")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, imageio.Save(path, image.NewRGBA(image.Rect(0, 0, 10, 10))))

	_, _, err = loadRegions(path, "0,0,20,20", "0,0,5,5", "", "")
	require.ErrorIs(t, err, entity.ErrInvalidRegion)
}
