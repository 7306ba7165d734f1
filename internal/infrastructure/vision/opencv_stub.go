//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
)

// OpenCVAvailable показывает, собран ли бинарник с OpenCV.
const OpenCVAvailable = false

// OpenCVAnalyzer заглушка для сборки без OpenCV.
type OpenCVAnalyzer struct {
	opts Options
}

// NewOpenCVAnalyzer создаёт анализатор-заглушку (без OpenCV).
func NewOpenCVAnalyzer(opts Options) *OpenCVAnalyzer {
	return &OpenCVAnalyzer{opts: opts}
}

// Run возвращает ошибку, если сборка без тега gocv.
func (a *OpenCVAnalyzer) Run(ctx context.Context, injury, control entity.Region, params entity.Parameters) (*entity.CompositeResult, error) {
	_ = ctx
	_ = injury
	_ = control
	_ = params
	return nil, ErrBackendUnavailable
}

// Проверка реализации интерфейса
var _ port.InjuryAnalyzer = (*OpenCVAnalyzer)(nil)
