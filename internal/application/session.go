package app

import (
	"context"
	"image"
	"sync"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
)

// SessionService изменяет сессии. Изменения одного пользователя выполняются
// последовательно: анализ в отдельной горутине не затирает параметры, заданные командами.
type SessionService struct {
	repo port.SessionRepository

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{
		repo:  repo,
		locks: make(map[int64]*sync.Mutex),
	}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState меняет только состояние, остальные поля сессии в хранилище не перезаписываются.
func (s *SessionService) SetState(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.Session, error) {
	unlock := s.lock(userID)
	defer unlock()

	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}

	session.SetState(state)
	return session, nil
}

func (s *SessionService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.update(ctx, userID, chatID, func(session *entity.Session) error {
		session.ResetRegions()
		session.SetState(entity.StateAwaitingPhoto)
		return nil
	})
}

func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.update(ctx, userID, chatID, func(session *entity.Session) error {
		session.ResetRegions()
		session.SetState(entity.StateMainMenu)
		return nil
	})
}

// SetThreshold меняет порог чувствительности. Значение вне [3, 190] отклоняется, сессия не меняется.
func (s *SessionService) SetThreshold(ctx context.Context, userID, chatID int64, threshold int) (*entity.Session, error) {
	return s.update(ctx, userID, chatID, func(session *entity.Session) error {
		params := session.Params()
		params.Threshold = threshold
		if err := params.Validate(); err != nil {
			return err
		}
		session.Threshold = threshold
		return nil
	})
}

// SetLineDensity меняет плотность линий. Значение вне [1, 50] отклоняется, сессия не меняется.
func (s *SessionService) SetLineDensity(ctx context.Context, userID, chatID int64, density int) (*entity.Session, error) {
	return s.update(ctx, userID, chatID, func(session *entity.Session) error {
		params := session.Params()
		params.LineDensity = density
		if err := params.Validate(); err != nil {
			return err
		}
		session.LineDensity = density
		return nil
	})
}

// SetRegion запоминает выбранный прямоугольник области.
func (s *SessionService) SetRegion(ctx context.Context, userID, chatID int64, kind entity.RegionKind, rect image.Rectangle) (*entity.Session, error) {
	return s.update(ctx, userID, chatID, func(session *entity.Session) error {
		switch kind {
		case entity.RegionInjury:
			session.Injury = rect
		case entity.RegionControl:
			session.Control = rect
		default:
			return entity.ErrInvalidRegion
		}
		return nil
	})
}

func (s *SessionService) update(ctx context.Context, userID, chatID int64, fn func(*entity.Session) error) (*entity.Session, error) {
	unlock := s.lock(userID)
	defer unlock()

	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
