package entity

import "fmt"

// Допустимые диапазоны параметров анализа.
const (
	MinThreshold   = 3
	MaxThreshold   = 190
	MinLineDensity = 1
	MaxLineDensity = 50
)

// Parameters содержит проверенный набор параметров одного запуска анализа.
type Parameters struct {
	Threshold   int // порог чувствительности (чем больше, тем консервативнее)
	LineDensity int // плотность линий визуализации контура
}

// DefaultParameters возвращает параметры новой сессии.
func DefaultParameters() Parameters {
	return Parameters{Threshold: DefaultThreshold, LineDensity: DefaultLineDensity}
}

// Validate проверяет параметры на границе ядра. Значения вне диапазона не обрезаются.
func (p Parameters) Validate() error {
	if p.Threshold < MinThreshold || p.Threshold > MaxThreshold {
		return fmt.Errorf("%w: threshold %d not in [%d, %d]", ErrParameterOutOfRange, p.Threshold, MinThreshold, MaxThreshold)
	}
	if p.LineDensity < MinLineDensity || p.LineDensity > MaxLineDensity {
		return fmt.Errorf("%w: line density %d not in [%d, %d]", ErrParameterOutOfRange, p.LineDensity, MinLineDensity, MaxLineDensity)
	}
	return nil
}

// Stride возвращает шаг прореживания точек контура: плотность 50 даёт каждую точку,
// плотность 1 оставляет каждую пятидесятую.
func (p Parameters) Stride() int {
	return StrideFor(p.LineDensity)
}

// StrideFor переводит плотность линий в шаг прореживания.
func StrideFor(lineDensity int) int {
	k := MaxLineDensity + 1 - lineDensity
	if k < 1 {
		return 1
	}
	return k
}
