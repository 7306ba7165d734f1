package storage

import (
	"context"
	"sync"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
	defaults entity.Parameters
}

// NewMemorySessionRepository создаёт новое in-memory хранилище.
// Новые сессии получают параметры defaults.
func NewMemorySessionRepository(defaults entity.Parameters) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
		defaults: defaults,
	}
}

// Get возвращает копию сессии по ID, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[userID]
	r.mu.RUnlock()

	if exists {
		cp := *session
		return &cp, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Сессия могла появиться, пока блокировка была снята.
	if session, exists := r.sessions[userID]; exists {
		cp := *session
		return &cp, nil
	}

	newSession := entity.NewSessionWith(userID, chatID, r.defaults)
	r.sessions[userID] = newSession
	cp := *newSession
	return &cp, nil
}

// Save сохраняет копию сессии
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	cp := *session

	r.mu.Lock()
	r.sessions[session.ID] = &cp
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние сессии
func (r *MemorySessionRepository) UpdateState(ctx context.Context, userID int64, state entity.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[userID]; exists {
		session.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
