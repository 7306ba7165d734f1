package entity

import "image"

// SessionState состояние пользователя в диалоге
type SessionState string

const (
	StateMainMenu         SessionState = "main_menu"         // В главном меню
	StateAwaitingPhoto    SessionState = "awaiting_photo"    // Ожидание фото
	StateSelectingRegions SessionState = "selecting_regions" // Выбор областей повреждения и контроля
	StateProcessing       SessionState = "processing"        // Обработка изображения
)

// Значения параметров по умолчанию: порог 50 и шаг линий 10, как в исходном приложении.
const (
	DefaultThreshold   = 50
	DefaultLineDensity = 41
)

// Session хранит явный контекст пользователя вместо глобального «текущего изображения».
type Session struct {
	ID          int64           // Telegram User ID
	ChatID      int64           // Telegram Chat ID
	State       SessionState    // Текущее состояние
	Threshold   int             // Порог чувствительности
	LineDensity int             // Плотность линий
	Injury      image.Rectangle // Выбранная область повреждения
	Control     image.Rectangle // Выбранная контрольная область
}

// NewSession создаёт сессию с начальным состоянием и параметрами по умолчанию
func NewSession(userID, chatID int64) *Session {
	return NewSessionWith(userID, chatID, DefaultParameters())
}

// NewSessionWith создаёт сессию с заданными начальными параметрами
func NewSessionWith(userID, chatID int64, params Parameters) *Session {
	return &Session{
		ID:          userID,
		ChatID:      chatID,
		State:       StateMainMenu,
		Threshold:   params.Threshold,
		LineDensity: params.LineDensity,
	}
}

// SetState обновляет состояние
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Params возвращает параметры анализа сессии.
func (s *Session) Params() Parameters {
	return Parameters{Threshold: s.Threshold, LineDensity: s.LineDensity}
}

// RegionsSelected сообщает, выбраны ли обе области.
func (s *Session) RegionsSelected() bool {
	return !s.Injury.Empty() && !s.Control.Empty()
}

// ResetRegions сбрасывает выбор областей.
func (s *Session) ResetRegions() {
	s.Injury = image.Rectangle{}
	s.Control = image.Rectangle{}
}
