package port

import (
	"context"

	"robodoc/internal/domain/entity"
)

// InjuryAnalyzer интерфейс ядра дифференциального анализа
type InjuryAnalyzer interface {
	// Run сравнивает область повреждения с контрольной и строит контур повреждения.
	// При любой ошибке частичный результат не возвращается.
	Run(ctx context.Context, injury, control entity.Region, params entity.Parameters) (*entity.CompositeResult, error)
}
