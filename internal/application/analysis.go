package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
	"robodoc/internal/infrastructure/imageio"
)

var (
	// ErrNoSource: исходное фото ещё не загружено.
	ErrNoSource = errors.New("source photo is not loaded")
	// ErrRegionsNotSelected: не выбрана область повреждения или контрольная область.
	ErrRegionsNotSelected = errors.New("injury and control regions are not selected")
)

// DefaultMaxPhotoSide ограничивает наибольшую сторону панели, отправляемой пользователю.
const DefaultMaxPhotoSide = 2048

// Качество JPEG панели. Telegram всё равно пережимает фото в JPEG.
const panelQuality = 90

type AnalysisService struct {
	sessions     *SessionService
	analyzer     port.InjuryAnalyzer
	describer    port.ResultDescriber
	runner       *LatestRunner
	maxPhotoSide int
	sources      map[int64]image.Image
	mu           sync.RWMutex
}

// AnalysisOutput содержит результат анализа, панель в JPEG и описание.
type AnalysisOutput struct {
	Result      *entity.CompositeResult
	Panel       []byte
	Description *entity.Description
}

// NewAnalysisService создаёт сервис, который управляет выбором областей и запуском анализа.
func NewAnalysisService(sessions *SessionService, analyzer port.InjuryAnalyzer, describer port.ResultDescriber, runner *LatestRunner, maxPhotoSide int) *AnalysisService {
	if runner == nil {
		runner = NewLatestRunner(0)
	}
	if maxPhotoSide <= 0 {
		maxPhotoSide = DefaultMaxPhotoSide
	}
	return &AnalysisService{
		sessions:     sessions,
		analyzer:     analyzer,
		describer:    describer,
		runner:       runner,
		maxPhotoSide: maxPhotoSide,
		sources:      make(map[int64]image.Image),
	}
}

// AcceptSourcePhoto декодирует фото, запоминает его как источник областей
// и переводит пользователя к выбору областей.
func (s *AnalysisService) AcceptSourcePhoto(ctx context.Context, userID, chatID int64, photo []byte) (*entity.Session, error) {
	img, format, err := imageio.Decode(photo)
	if err != nil {
		return nil, err
	}
	log.Printf("User %d: source photo %s %dx%d", userID, format, img.Bounds().Dx(), img.Bounds().Dy())

	// Храним исходник в памяти, области вырезаются из него при каждом запуске.
	s.mu.Lock()
	s.sources[userID] = img
	s.mu.Unlock()

	s.runner.Cancel(userID)

	return s.sessions.update(ctx, userID, chatID, func(session *entity.Session) error {
		session.ResetRegions()
		session.SetState(entity.StateSelectingRegions)
		return nil
	})
}

// SourceSize возвращает размер исходного фото пользователя.
func (s *AnalysisService) SourceSize(userID int64) (image.Point, error) {
	img, err := s.source(userID)
	if err != nil {
		return image.Point{}, err
	}
	return img.Bounds().Size(), nil
}

// SelectRegion проверяет, что прямоугольник лежит внутри исходного фото, и сохраняет выбор.
func (s *AnalysisService) SelectRegion(ctx context.Context, userID, chatID int64, kind entity.RegionKind, rect image.Rectangle) (*entity.Session, error) {
	img, err := s.source(userID)
	if err != nil {
		return nil, err
	}
	if _, err := imageio.Crop(img, rect, kind); err != nil {
		return nil, err
	}
	return s.sessions.SetRegion(ctx, userID, chatID, kind, rect)
}

// Analyze вырезает обе области и запускает анализ с текущими параметрами сессии.
// Если пользователь запустил анализ повторно, предыдущий запуск возвращает ErrSuperseded.
func (s *AnalysisService) Analyze(ctx context.Context, userID, chatID int64) (*AnalysisOutput, error) {
	if s.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	img, err := s.source(userID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !session.RegionsSelected() {
		return nil, ErrRegionsNotSelected
	}

	injury, err := imageio.Crop(img, session.Injury, entity.RegionInjury)
	if err != nil {
		return nil, fmt.Errorf("injury region: %w", err)
	}
	control, err := imageio.Crop(img, session.Control, entity.RegionControl)
	if err != nil {
		return nil, fmt.Errorf("control region: %w", err)
	}
	params := session.Params()

	if _, err := s.sessions.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	result, err := s.runner.Do(ctx, userID, func(ctx context.Context) (*entity.CompositeResult, error) {
		return s.analyzer.Run(ctx, injury, control, params)
	})
	if errors.Is(err, ErrSuperseded) {
		// Состояние принадлежит более новому запуску.
		return nil, err
	}
	if _, serr := s.sessions.SetState(ctx, userID, chatID, entity.StateSelectingRegions); serr != nil {
		log.Printf("Error restoring state for user %d: %v", userID, serr)
	}
	if err != nil {
		return nil, err
	}

	panel, err := imageio.EncodeJPEG(imageio.Fit(result.Panel, s.maxPhotoSide), panelQuality)
	if err != nil {
		return nil, fmt.Errorf("encode panel: %w", err)
	}

	out := &AnalysisOutput{Result: result, Panel: panel}
	if s.describer != nil {
		desc, err := s.describer.Describe(ctx, result)
		if err != nil {
			log.Printf("Error describing result %s: %v", result.RunID, err)
		} else {
			out.Description = desc
		}
	}

	log.Printf("User %d: run %s found %d region(s) in %s", userID, result.RunID, len(result.Contours), result.Elapsed)
	return out, nil
}

// Forget отменяет запуск пользователя и удаляет исходное фото.
func (s *AnalysisService) Forget(userID int64) {
	s.runner.Cancel(userID)

	s.mu.Lock()
	delete(s.sources, userID)
	s.mu.Unlock()
}

func (s *AnalysisService) source(userID int64) (image.Image, error) {
	s.mu.RLock()
	img, ok := s.sources[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoSource
	}
	return img, nil
}
