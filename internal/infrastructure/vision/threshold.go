package vision

import (
	"fmt"

	"robodoc/internal/domain/entity"
)

// Threshold помечает передним планом пиксели, различие которых строго больше порога.
// Чем выше порог, тем меньше пикселей переднего плана.
func Threshold(m *DifferenceMap, sensitivity int) (entity.BinaryMask, error) {
	if sensitivity < entity.MinThreshold || sensitivity > entity.MaxThreshold {
		return entity.BinaryMask{}, fmt.Errorf("%w: threshold %d", entity.ErrParameterOutOfRange, sensitivity)
	}

	cutoff := float64(sensitivity)
	mask := entity.NewBinaryMask(m.Width, m.Height)
	for i, v := range m.Pix {
		if v > cutoff {
			mask.Pix[i] = 1
		}
	}
	return mask, nil
}
