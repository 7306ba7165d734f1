package vision

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"robodoc/internal/domain/entity"
)

// Compose рисует маску, контуры поверх оригинала, штриховку по плотности линий
// и общую панель. Оригинал не изменяется: все изображения создаются заново.
func Compose(original image.Image, mask entity.BinaryMask, contours entity.ContourSet, lineDensity int, opts Options) (*entity.CompositeResult, error) {
	b := original.Bounds()
	if b.Dx() != mask.Width || b.Dy() != mask.Height {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d", entity.ErrDimensionMismatch, b.Dx(), b.Dy(), mask.Width, mask.Height)
	}

	base := toRGBA(original)
	maskImage := mask.Image()

	overlay := cloneRGBA(base)
	dc := gg.NewContextForRGBA(overlay)
	dc.SetColor(opts.ContourColor)
	dc.SetLineWidth(opts.ContourWidth)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetLineCap(gg.LineCapRound)
	for _, c := range contours {
		strokeContour(dc, c.Points, opts.ContourWidth)
	}

	hatched := cloneRGBA(overlay)
	hatch(hatched, contours, entity.StrideFor(lineDensity), opts)

	panel := panelOf(opts, base, maskImage, overlay, hatched)

	return &entity.CompositeResult{
		Mask:      mask,
		MaskImage: maskImage,
		Overlay:   overlay,
		Hatched:   hatched,
		Panel:     panel,
		Contours:  contours,
	}, nil
}

// Cutout оставляет пиксели оригинала внутри контуров, остальное прозрачно.
func Cutout(original image.Image, contours entity.ContourSet) *image.NRGBA {
	b := original.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if len(contours) == 0 {
		return out
	}

	dc := gg.NewContext(b.Dx(), b.Dy())
	if !outline(dc, contours) {
		return out
	}
	dc.Clip()
	dc.DrawImage(toRGBA(original), 0, 0)

	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out
}

// strokeContour обводит замкнутую ломаную по центрам пикселей.
func strokeContour(dc *gg.Context, points []image.Point, width float64) {
	switch len(points) {
	case 0:
		return
	case 1:
		dc.DrawPoint(float64(points[0].X)+0.5, float64(points[0].Y)+0.5, width/2)
		dc.Fill()
		return
	}

	dc.MoveTo(float64(points[0].X)+0.5, float64(points[0].Y)+0.5)
	for _, p := range points[1:] {
		dc.LineTo(float64(p.X)+0.5, float64(p.Y)+0.5)
	}
	dc.ClosePath()
	dc.Stroke()
}

// outline строит один путь из всех полных границ, чтобы отсечение было их объединением.
func outline(dc *gg.Context, contours entity.ContourSet) bool {
	drawn := false
	for _, c := range contours {
		if len(c.Raw) < 3 {
			continue
		}
		dc.MoveTo(float64(c.Raw[0].X)+0.5, float64(c.Raw[0].Y)+0.5)
		for _, p := range c.Raw[1:] {
			dc.LineTo(float64(p.X)+0.5, float64(p.Y)+0.5)
		}
		dc.ClosePath()
		drawn = true
	}
	return drawn
}

// hatch проводит вертикальные линии внутри контуров через каждый stride-й столбец,
// в котором есть залитые пиксели. Пустые столбцы между областями шаг не сдвигают.
func hatch(dst *image.RGBA, contours entity.ContourSet, stride int, opts Options) {
	if len(contours) == 0 {
		return
	}

	dc := gg.NewContextForRGBA(dst)
	if !outline(dc, contours) {
		return
	}
	dc.Clip()

	area := image.Rectangle{}
	for _, c := range contours {
		area = area.Union(c.Bounds)
	}

	dc.SetColor(opts.HatchColor)
	dc.SetLineWidth(opts.HatchWidth)
	for _, x := range hatchColumns(contours, stride) {
		dc.DrawLine(float64(x)+0.5, float64(area.Min.Y), float64(x)+0.5, float64(area.Max.Y))
		dc.Stroke()
	}
	dc.ResetClip()
}

// hatchColumns возвращает каждый stride-й из столбцов, покрытых контурами.
// Связная область занимает все столбцы своего прямоугольника, поэтому
// покрытие равно объединению их диапазонов по X.
func hatchColumns(contours entity.ContourSet, stride int) []int {
	if stride < 1 {
		stride = 1
	}

	area := image.Rectangle{}
	for _, c := range contours {
		area = area.Union(c.Bounds)
	}
	covered := make([]bool, area.Dx())
	for _, c := range contours {
		for x := c.Bounds.Min.X; x < c.Bounds.Max.X; x++ {
			covered[x-area.Min.X] = true
		}
	}

	var cols []int
	n := 0
	for i, ok := range covered {
		if !ok {
			continue
		}
		if n%stride == 0 {
			cols = append(cols, area.Min.X+i)
		}
		n++
	}
	return cols
}

// panelOf располагает изображения слева направо с зазором.
func panelOf(opts Options, images ...image.Image) *image.RGBA {
	gap := opts.PanelGap
	if gap < 0 {
		gap = 0
	}

	width, height := 0, 0
	for i, img := range images {
		b := img.Bounds()
		width += b.Dx()
		if i > 0 {
			width += gap
		}
		height = max(height, b.Dy())
	}

	panel := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(panel, panel.Bounds(), image.NewUniform(opts.PanelBackground), image.Point{}, draw.Src)

	x := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(panel, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Src)
		x += b.Dx() + gap
	}
	return panel
}

// toRGBA копирует изображение в новый RGBA с началом координат в (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}
