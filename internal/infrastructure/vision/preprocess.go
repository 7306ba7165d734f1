package vision

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"robodoc/internal/domain/entity"
)

// Plane хранит одноканальную сетку интенсивностей в шкале 0..255.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

func newPlane(w, h int) *Plane {
	return &Plane{Width: w, Height: h, Pix: make([]float64, w*h)}
}

// At возвращает интенсивность с повтором краевых пикселей за границей.
func (p *Plane) At(x, y int) float64 {
	x = clamp(x, 0, p.Width-1)
	y = clamp(y, 0, p.Height-1)
	return p.Pix[y*p.Width+x]
}

// Prepare переводит фрагмент в оттенки серого и сглаживает гауссовым ядром.
// Одинаково применяется к области повреждения и к контрольной области.
func Prepare(region entity.Region, opts Options) (*Plane, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}

	gray := luma(region.Image)
	if opts.BlurKernel < 3 {
		return gray, nil
	}
	return gaussianBlur(gray, gaussianKernel(opts.BlurKernel/2, opts.sigma())), nil
}

// luma считает яркость по ITU-R 601, как cvtColor(BGR2GRAY).
func luma(img image.Image) *Plane {
	b := img.Bounds()
	p := newPlane(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < p.Height; y++ {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X):]
			for x := 0; x < p.Width; x++ {
				p.Pix[y*p.Width+x] = float64(row[x])
			}
		}
	case *image.RGBA:
		for y := 0; y < p.Height; y++ {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			for x := 0; x < p.Width; x++ {
				px := row[x*4 : x*4+3]
				p.Pix[y*p.Width+x] = 0.299*float64(px[0]) + 0.587*float64(px[1]) + 0.114*float64(px[2])
			}
		}
	default:
		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				p.Pix[y*p.Width+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 257
			}
		}
	}
	return p
}

// gaussianKernel строит нормированное одномерное ядро радиуса radius.
func gaussianKernel(radius int, sigma float64) []float64 {
	k := make([]float64, 2*radius+1)
	for i := range k {
		d := float64(i - radius)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// gaussianBlur выполняет сепарабельную свёртку с повтором краевых пикселей.
func gaussianBlur(src *Plane, kernel []float64) *Plane {
	radius := len(kernel) / 2
	tmp := newPlane(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var sum float64
			for i, w := range kernel {
				sum += w * src.At(x+i-radius, y)
			}
			tmp.Pix[y*src.Width+x] = sum
		}
	}

	out := newPlane(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var sum float64
			for i, w := range kernel {
				sum += w * tmp.At(x, y+i-radius)
			}
			out.Pix[y*src.Width+x] = sum
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
