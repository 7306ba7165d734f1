package entity

import "image"

// Contour описывает замкнутую границу одной области повреждения.
// Последняя точка неявно соединяется с первой; самопересечения не исключены.
type Contour struct {
	Raw    []image.Point   // полная трассированная граница
	Points []image.Point   // прореженная по плотности линий ломаная
	Area   int             // площадь области в пикселях
	Bounds image.Rectangle // ограничивающий прямоугольник
}

// Center возвращает координаты центра ограничивающего прямоугольника.
func (c Contour) Center() (x, y int) {
	return c.Bounds.Min.X + c.Bounds.Dx()/2, c.Bounds.Min.Y + c.Bounds.Dy()/2
}

// ContourSet содержит контуры, упорядоченные по убыванию площади.
type ContourSet []Contour

// TotalArea возвращает суммарную площадь всех контуров.
func (s ContourSet) TotalArea() int {
	total := 0
	for _, c := range s {
		total += c.Area
	}
	return total
}

// PointCount возвращает число прореженных точек во всех контурах.
func (s ContourSet) PointCount() int {
	total := 0
	for _, c := range s {
		total += len(c.Points)
	}
	return total
}
