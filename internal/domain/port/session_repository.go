package port

import (
	"context"

	"robodoc/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	// Get возвращает сессию по ID, создаёт новую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.Session, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error

	// UpdateState обновляет состояние сессии
	UpdateState(ctx context.Context, userID int64, state entity.SessionState) error
}
