package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"

	_ "modernc.org/sqlite"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
)

// SQLiteSessionRepository хранит состояние и параметры сессий в SQLite.
// Результаты анализа не сохраняются.
type SQLiteSessionRepository struct {
	db       *sql.DB
	defaults entity.Parameters
}

// NewSQLiteSessionRepository открывает базу и выполняет миграции.
// Новые сессии получают параметры defaults.
func NewSQLiteSessionRepository(dbPath string, defaults entity.Parameters) (*SQLiteSessionRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	r := &SQLiteSessionRepository{db: db, defaults: defaults}
	if err := r.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return r, nil
}

// runMigrations создаёт таблицы, если их ещё нет.
func (r *SQLiteSessionRepository) runMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			user_id INTEGER PRIMARY KEY,
			chat_id INTEGER NOT NULL,
			state TEXT NOT NULL,
			threshold INTEGER NOT NULL,
			line_density INTEGER NOT NULL,
			injury_x0 INTEGER NOT NULL DEFAULT 0,
			injury_y0 INTEGER NOT NULL DEFAULT 0,
			injury_x1 INTEGER NOT NULL DEFAULT 0,
			injury_y1 INTEGER NOT NULL DEFAULT 0,
			control_x0 INTEGER NOT NULL DEFAULT 0,
			control_y0 INTEGER NOT NULL DEFAULT 0,
			control_x1 INTEGER NOT NULL DEFAULT 0,
			control_y1 INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// Close закрывает соединение с базой.
func (r *SQLiteSessionRepository) Close() error {
	return r.db.Close()
}

// Get возвращает сессию по ID, создаёт новую если не найдена
func (r *SQLiteSessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	var (
		s       entity.Session
		state   string
		inj, ct [4]int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, chat_id, state, threshold, line_density,
		        injury_x0, injury_y0, injury_x1, injury_y1,
		        control_x0, control_y0, control_x1, control_y1
		 FROM sessions WHERE user_id = ?`, userID,
	).Scan(&s.ID, &s.ChatID, &state, &s.Threshold, &s.LineDensity,
		&inj[0], &inj[1], &inj[2], &inj[3],
		&ct[0], &ct[1], &ct[2], &ct[3])

	if errors.Is(err, sql.ErrNoRows) {
		session := entity.NewSessionWith(userID, chatID, r.defaults)
		if err := r.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	s.State = entity.SessionState(state)
	s.Injury = image.Rect(inj[0], inj[1], inj[2], inj[3])
	s.Control = image.Rect(ct[0], ct[1], ct[2], ct[3])
	return &s, nil
}

// Save сохраняет сессию
func (r *SQLiteSessionRepository) Save(ctx context.Context, s *entity.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, chat_id, state, threshold, line_density,
		                       injury_x0, injury_y0, injury_x1, injury_y1,
		                       control_x0, control_y0, control_x1, control_y1, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id) DO UPDATE SET
		   chat_id = excluded.chat_id,
		   state = excluded.state,
		   threshold = excluded.threshold,
		   line_density = excluded.line_density,
		   injury_x0 = excluded.injury_x0, injury_y0 = excluded.injury_y0,
		   injury_x1 = excluded.injury_x1, injury_y1 = excluded.injury_y1,
		   control_x0 = excluded.control_x0, control_y0 = excluded.control_y0,
		   control_x1 = excluded.control_x1, control_y1 = excluded.control_y1,
		   updated_at = CURRENT_TIMESTAMP`,
		s.ID, s.ChatID, string(s.State), s.Threshold, s.LineDensity,
		s.Injury.Min.X, s.Injury.Min.Y, s.Injury.Max.X, s.Injury.Max.Y,
		s.Control.Min.X, s.Control.Min.Y, s.Control.Max.X, s.Control.Max.Y,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// UpdateState обновляет состояние сессии
func (r *SQLiteSessionRepository) UpdateState(ctx context.Context, userID int64, state entity.SessionState) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		string(state), userID)
	return err
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*SQLiteSessionRepository)(nil)
