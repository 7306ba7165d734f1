package vision

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"robodoc/internal/domain/entity"
)

// DifferenceMap хранит неотрицательную величину различия для каждого пикселя.
type DifferenceMap struct {
	Width  int
	Height int
	Pix    []float64
}

// Diff считает абсолютную разность сглаженных интенсивностей.
// Пространственного выравнивания нет: фрагменты считаются совмещёнными.
func Diff(a, b *Plane) (*DifferenceMap, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", entity.ErrDimensionMismatch, a.Width, a.Height, b.Width, b.Height)
	}

	m := &DifferenceMap{Width: a.Width, Height: a.Height, Pix: make([]float64, len(a.Pix))}
	for i := range a.Pix {
		m.Pix[i] = math.Abs(a.Pix[i] - b.Pix[i])
	}
	return m, nil
}

// Stats возвращает среднее, стандартное отклонение и максимум различий.
func (m *DifferenceMap) Stats() entity.DifferenceStats {
	if len(m.Pix) == 0 {
		return entity.DifferenceStats{}
	}

	mean, std := stat.MeanStdDev(m.Pix, nil)
	if len(m.Pix) < 2 || math.IsNaN(std) {
		std = 0
	}
	return entity.DifferenceStats{Mean: mean, StdDev: std, Max: floats.Max(m.Pix)}
}
