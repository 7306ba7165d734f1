package imageio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"robodoc/internal/domain/entity"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 200, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{B: 200, A: 255})
			}
		}
	}
	return img
}

func TestDecode_PNGRoundTrip(t *testing.T) {
	data, err := EncodePNG(checker(6, 4))
	require.NoError(t, err)

	img, format, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
}

func TestDecode_BMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, checker(5, 5)))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, img.Bounds().Dx())
}

func TestDecode_Garbage(t *testing.T) {
	_, _, err := Decode([]byte("not an image"))
	require.Error(t, err)
}

func TestEncodeJPEG(t *testing.T) {
	data, err := EncodeJPEG(checker(8, 8), 90)
	require.NoError(t, err)
	_, format, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
}

func TestSave_UnsupportedExtension(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "out.webp"), checker(2, 2))
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestCrop(t *testing.T) {
	src := checker(20, 10)
	region, err := Crop(src, image.Rect(2, 3, 7, 8), entity.RegionControl)
	require.NoError(t, err)
	require.Equal(t, entity.RegionControl, region.Kind)
	require.Equal(t, image.Rect(0, 0, 5, 5), region.Image.Bounds())
	require.Equal(t, src.At(2, 3), region.Image.At(0, 0))
	require.Equal(t, src.At(6, 7), region.Image.At(4, 4))

	// Исходное изображение не разделяет память с фрагментом.
	region.Image.(*image.RGBA).SetRGBA(0, 0, color.RGBA{G: 1, A: 255})
	require.Equal(t, color.RGBA{B: 200, A: 255}, src.RGBAAt(2, 3))
}

func TestCrop_OutOfBounds(t *testing.T) {
	_, err := Crop(checker(10, 10), image.Rect(5, 5, 15, 8), entity.RegionInjury)
	require.True(t, errors.Is(err, entity.ErrInvalidRegion))

	_, err = Crop(checker(10, 10), image.Rect(2, 2, 2, 5), entity.RegionInjury)
	require.True(t, errors.Is(err, entity.ErrInvalidRegion))
}

func TestFit(t *testing.T) {
	small := checker(10, 5)
	require.Same(t, image.Image(small), Fit(small, 100))

	big := Fit(checker(400, 200), 100)
	require.Equal(t, image.Rect(0, 0, 100, 50), big.Bounds())
}
