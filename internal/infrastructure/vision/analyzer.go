package vision

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
)

// ErrBackendUnavailable возвращается бэкендом, собранным без нужного тега.
var ErrBackendUnavailable = errors.New("analysis backend is not available in this build")

// Analyzer реализует конвейер на чистом Go: подготовка, разность, порог, контуры, панель.
// Состояния между вызовами нет, поэтому один экземпляр можно вызывать конкурентно.
type Analyzer struct {
	opts Options
}

// NewAnalyzer создаёт конвейер с заданными настройками.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Run сравнивает область повреждения с контрольной. Все проверки входа выполняются
// до начала вычислений; при ошибке результата нет.
func (a *Analyzer) Run(ctx context.Context, injury, control entity.Region, params entity.Parameters) (*entity.CompositeResult, error) {
	started := time.Now()

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := entity.CheckPair(injury, control); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Подготовка двух фрагментов независима и выполняется параллельно.
	var (
		wg                 sync.WaitGroup
		injPlane, ctlPlane *Plane
		injErr, ctlErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		injPlane, injErr = Prepare(injury, a.opts)
	}()
	go func() {
		defer wg.Done()
		ctlPlane, ctlErr = Prepare(control, a.opts)
	}()
	wg.Wait()
	if err := errors.Join(injErr, ctlErr); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	diff, err := Diff(injPlane, ctlPlane)
	if err != nil {
		return nil, err
	}

	mask, err := Threshold(diff, params.Threshold)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contours, err := ExtractContours(mask, params.LineDensity, a.opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Compose(injury.Image, mask, contours, params.LineDensity, a.opts)
	if err != nil {
		return nil, err
	}

	result.RunID = uuid.NewString()
	result.Params = params
	result.Stats = diff.Stats()
	result.Elapsed = time.Since(started)
	return result, nil
}

// Проверка реализации интерфейса
var _ port.InjuryAnalyzer = (*Analyzer)(nil)
