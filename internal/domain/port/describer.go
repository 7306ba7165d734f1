package port

import (
	"context"

	"robodoc/internal/domain/entity"
)

// ResultDescriber интерфейс описателя результата анализа
type ResultDescriber interface {
	// Describe генерирует текстовое описание найденных областей
	Describe(ctx context.Context, result *entity.CompositeResult) (*entity.Description, error)
}
