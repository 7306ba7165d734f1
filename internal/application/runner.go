package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"robodoc/internal/domain/entity"
)

// ErrSuperseded возвращается запуску, который был вытеснен более новым запросом того же ключа.
var ErrSuperseded = errors.New("analysis superseded by a newer request")

// AnalyzeFunc выполняет один запуск анализа.
type AnalyzeFunc func(ctx context.Context) (*entity.CompositeResult, error)

type slot struct {
	token  string
	cancel context.CancelFunc
}

// LatestRunner гарантирует, что для каждого ключа виден только результат последнего запроса.
// Новый запрос отменяет контекст предыдущего; устаревший результат отбрасывается.
type LatestRunner struct {
	debounce time.Duration

	mu    sync.Mutex
	slots map[int64]slot
}

// NewLatestRunner создаёт раннер. При debounce > 0 запуск ждёт указанное время
// и не начинается, если за это время пришёл более новый запрос.
func NewLatestRunner(debounce time.Duration) *LatestRunner {
	return &LatestRunner{
		debounce: debounce,
		slots:    make(map[int64]slot),
	}
}

// Do выполняет fn как текущий запрос для key.
func (r *LatestRunner) Do(ctx context.Context, key int64, fn AnalyzeFunc) (*entity.CompositeResult, error) {
	runCtx, cancel := context.WithCancel(ctx)
	token := uuid.NewString()

	r.mu.Lock()
	if prev, ok := r.slots[key]; ok {
		prev.cancel()
	}
	r.slots[key] = slot{token: token, cancel: cancel}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if cur, ok := r.slots[key]; ok && cur.token == token {
			delete(r.slots, key)
		}
		r.mu.Unlock()
		cancel()
	}()

	if r.debounce > 0 {
		timer := time.NewTimer(r.debounce)
		select {
		case <-timer.C:
		case <-runCtx.Done():
			timer.Stop()
			return nil, r.stopped(ctx, key, token)
		}
	}

	result, err := fn(runCtx)
	if !r.current(key, token) {
		if perr := ctx.Err(); perr != nil {
			return nil, perr
		}
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel отменяет запрос, выполняющийся для key. Он завершится с ErrSuperseded.
func (r *LatestRunner) Cancel(key int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.slots[key]; ok {
		cur.cancel()
		delete(r.slots, key)
	}
}

// InFlight возвращает число ключей с активными запросами.
func (r *LatestRunner) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

func (r *LatestRunner) current(key int64, token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.slots[key]
	return ok && cur.token == token
}

func (r *LatestRunner) stopped(parent context.Context, key int64, token string) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if !r.current(key, token) {
		return ErrSuperseded
	}
	return context.Canceled
}
