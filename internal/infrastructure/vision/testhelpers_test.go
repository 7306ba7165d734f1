package vision

import (
	"image"
	"image/color"

	"robodoc/internal/domain/entity"
)

// uniformRGBA создаёт изображение одного цвета.
func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// woundPair возвращает область с тёмным квадратом и однородную контрольную область.
func woundPair(size int, wound image.Rectangle) (entity.Region, entity.Region) {
	skin := color.RGBA{R: 120, G: 120, B: 120, A: 255}
	injury := uniformRGBA(size, size, skin)
	for y := wound.Min.Y; y < wound.Max.Y; y++ {
		for x := wound.Min.X; x < wound.Max.X; x++ {
			injury.SetRGBA(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
		}
	}
	control := uniformRGBA(size, size, skin)
	return entity.NewRegion(injury, entity.RegionInjury), entity.NewRegion(control, entity.RegionControl)
}

// fillMask помечает прямоугольник как передний план.
func fillMask(m entity.BinaryMask, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, true)
		}
	}
}
