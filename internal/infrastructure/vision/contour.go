package vision

import (
	"fmt"
	"image"
	"sort"

	"robodoc/internal/domain/entity"
)

// Соседи по часовой стрелке в координатах изображения (ось Y вниз), начиная с востока.
var neighbours = [8]image.Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

// component описывает 8-связную область переднего плана.
type component struct {
	label  int32
	start  image.Point // первый пиксель в порядке развёртки
	area   int
	bounds image.Rectangle
}

// ExtractContours строит внешние границы областей маски, отбрасывает шумовые области
// и прореживает границы по плотности линий. Пустая маска даёт пустой набор без ошибки.
func ExtractContours(mask entity.BinaryMask, lineDensity int, opts Options) (entity.ContourSet, error) {
	if lineDensity < entity.MinLineDensity || lineDensity > entity.MaxLineDensity {
		return nil, fmt.Errorf("%w: line density %d", entity.ErrParameterOutOfRange, lineDensity)
	}

	labels, comps := labelComponents(mask)

	contours := make(entity.ContourSet, 0, len(comps))
	for _, c := range comps {
		if c.area < opts.MinContourArea {
			continue
		}
		contours = append(contours, entity.Contour{
			Raw:    traceBoundary(labels, mask.Width, mask.Height, c.label, c.start, c.area),
			Area:   c.area,
			Bounds: c.bounds,
		})
	}

	return finishContours(contours, lineDensity, opts.MaxContours), nil
}

// finishContours упорядочивает контуры по убыванию площади, ограничивает их число
// и строит прореженные ломаные.
func finishContours(contours entity.ContourSet, lineDensity, maxContours int) entity.ContourSet {
	sort.SliceStable(contours, func(i, j int) bool {
		a, b := contours[i], contours[j]
		if a.Area != b.Area {
			return a.Area > b.Area
		}
		if a.Bounds.Min.Y != b.Bounds.Min.Y {
			return a.Bounds.Min.Y < b.Bounds.Min.Y
		}
		return a.Bounds.Min.X < b.Bounds.Min.X
	})

	if maxContours > 0 && len(contours) > maxContours {
		contours = contours[:maxContours]
	}

	stride := entity.StrideFor(lineDensity)
	for i := range contours {
		contours[i].Points = SampleContour(contours[i].Raw, stride)
	}
	return contours
}

// SampleContour оставляет каждую stride-ю точку границы. Чтобы ломаная оставалась
// замкнутой фигурой, сохраняется не меньше min(len(raw), 3) точек.
func SampleContour(raw []image.Point, stride int) []image.Point {
	n := len(raw)
	if n == 0 {
		return nil
	}
	if stride < 1 {
		stride = 1
	}

	keep := 3
	if n < keep {
		keep = n
	}

	if (n+stride-1)/stride < keep {
		out := make([]image.Point, keep)
		for i := range out {
			out[i] = raw[i*n/keep]
		}
		return out
	}

	out := make([]image.Point, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		out = append(out, raw[i])
	}
	return out
}

// labelComponents размечает 8-связные области заливкой со стеком.
// Метки начинаются с 1, фон помечен нулём.
func labelComponents(mask entity.BinaryMask) ([]int32, []component) {
	w, h := mask.Width, mask.Height
	labels := make([]int32, w*h)

	var comps []component
	var stack []image.Point
	next := int32(1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask.Pix[idx] == 0 || labels[idx] != 0 {
				continue
			}

			c := component{label: next, start: image.Pt(x, y), bounds: image.Rect(x, y, x+1, y+1)}
			labels[idx] = next
			stack = append(stack[:0], c.start)

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				c.area++
				c.bounds = c.bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

				for _, d := range neighbours {
					q := p.Add(d)
					if q.X < 0 || q.Y < 0 || q.X >= w || q.Y >= h {
						continue
					}
					qi := q.Y*w + q.X
					if mask.Pix[qi] != 0 && labels[qi] == 0 {
						labels[qi] = next
						stack = append(stack, q)
					}
				}
			}

			comps = append(comps, c)
			next++
		}
	}
	return labels, comps
}

// traceBoundary обходит внешнюю границу области по Муру (8-связность, по часовой стрелке).
// Обход заканчивается, когда из стартового пикселя повторяется первый переход.
func traceBoundary(labels []int32, w, h int, label int32, start image.Point, area int) []image.Point {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == label
	}

	step := func(cur image.Point, back int) (image.Point, int, bool) {
		for i := 1; i <= 8; i++ {
			d := (back + i) % 8
			q := cur.Add(neighbours[d])
			if !inside(q) {
				continue
			}
			// Новое направление возврата указывает на последний проверенный фоновый пиксель.
			if d%2 == 0 {
				return q, (d + 6) % 8, true
			}
			return q, (d + 5) % 8, true
		}
		return cur, back, false
	}

	points := []image.Point{start}
	first, back, ok := step(start, 4) // слева от стартового пикселя всегда фон
	if !ok {
		return points
	}

	cur := first
	limit := 4*area + 16
	for i := 0; i < limit; i++ {
		points = append(points, cur)
		var nxt image.Point
		nxt, back, _ = step(cur, back)
		if cur == start && nxt == first {
			break
		}
		cur = nxt
	}

	if len(points) > 1 && points[len(points)-1] == start {
		points = points[:len(points)-1]
	}
	return points
}
