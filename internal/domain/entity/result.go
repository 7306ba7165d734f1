package entity

import (
	"image"
	"time"
)

// DifferenceStats содержит сводную статистику карты различий.
type DifferenceStats struct {
	Mean   float64
	StdDev float64
	Max    float64
}

// CompositeResult хранит итог анализа и отрисованные изображения.
// После возврата не изменяется и принадлежит вызывающей стороне.
type CompositeResult struct {
	RunID     string
	Params    Parameters
	Mask      BinaryMask
	MaskImage *image.Gray // маска для просмотра
	Overlay   *image.RGBA // оригинал с контурами
	Hatched   *image.RGBA // оригинал с контурами и штриховкой по плотности линий
	Panel     *image.RGBA // оригинал | маска | контуры | штриховка
	Contours  ContourSet
	Stats     DifferenceStats
	Elapsed   time.Duration
}

// HasInjury сообщает, найдена ли хотя бы одна область.
func (r *CompositeResult) HasInjury() bool {
	return len(r.Contours) > 0
}

// Description содержит текстовое описание результата анализа.
type Description struct {
	Text string
}
