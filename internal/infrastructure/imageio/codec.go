// Package imageio читает и пишет растровые изображения и вырезает фрагменты для анализа.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"robodoc/internal/domain/entity"
)

// ErrUnsupportedFormat возвращается для неизвестного расширения при записи.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode читает PNG, JPEG, GIF, BMP или TIFF.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Load читает изображение из файла.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, _, err := Decode(data)
	return img, err
}

// EncodePNG кодирует изображение в PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJPEG кодирует изображение в JPEG с заданным качеством.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save пишет изображение в файл; формат выбирается по расширению.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := encode(f, filepath.Ext(path), img); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Crop копирует прямоугольник изображения в новый фрагмент с началом в (0, 0).
// Прямоугольник задаётся относительно левого верхнего угла изображения.
func Crop(img image.Image, rect image.Rectangle, kind entity.RegionKind) (entity.Region, error) {
	b := img.Bounds()
	abs := rect.Add(b.Min)
	if rect.Empty() || !abs.In(b) {
		return entity.Region{}, fmt.Errorf("%w: %s rectangle %v outside image %dx%d", entity.ErrInvalidRegion, kind, rect, b.Dx(), b.Dy())
	}

	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, abs.Min, draw.Src)
	return entity.NewRegion(out, kind), nil
}

// Fit уменьшает изображение так, чтобы большая сторона не превышала maxSide.
func Fit(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	side := max(b.Dx(), b.Dy())
	if maxSide <= 0 || side <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(side)
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
