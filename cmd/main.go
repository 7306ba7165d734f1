package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"robodoc/config"
	telegram "robodoc/internal/api"
	app "robodoc/internal/application"
	"robodoc/internal/container"
	"robodoc/internal/domain/entity"
	"robodoc/internal/domain/port"
	"robodoc/internal/infrastructure/report"
	"robodoc/internal/infrastructure/storage"
	"robodoc/internal/infrastructure/vision"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
	log.Println("Bot stopped")
}

// run собирает зависимости и крутит бота до отмены контекста.
// Ошибки возвращаются, чтобы отложенные закрытия ресурсов успели выполниться.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return fmt.Errorf("failed to load tuning: %w", err)
	}
	opts, err := tuning.Options()
	if err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}

	defaults := entity.Parameters{Threshold: cfg.Threshold, LineDensity: cfg.LineDensity}

	// Создаём хранилище сессий
	sessionRepo, closeRepo, err := openSessionRepository(cfg.DBPath, defaults)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Printf("Error closing session store: %v", err)
		}
	}()

	// Выбираем реализацию анализатора
	analyzer, err := newAnalyzer(cfg.Backend, opts)
	if err != nil {
		return err
	}
	log.Printf("Analyzer backend: %s", cfg.Backend)

	// Собираем сервисы приложения
	runner := app.NewLatestRunner(cfg.Debounce)
	appContainer := container.New(sessionRepo, analyzer, report.NewTextDescriber(), runner, tuning.Panel.MaxPhotoSide)

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		return fmt.Errorf("bot error: %w", err)
	}
	return nil
}

// openSessionRepository открывает SQLite, если задан путь, иначе хранит сессии в памяти.
func openSessionRepository(dbPath string, defaults entity.Parameters) (port.SessionRepository, func() error, error) {
	if dbPath == "" {
		return storage.NewMemorySessionRepository(defaults), func() error { return nil }, nil
	}

	repo, err := storage.NewSQLiteSessionRepository(dbPath, defaults)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}
	log.Printf("Sessions are stored in %s", dbPath)
	return repo, repo.Close, nil
}

func newAnalyzer(backend string, opts vision.Options) (port.InjuryAnalyzer, error) {
	switch backend {
	case config.BackendOpenCV:
		if !vision.OpenCVAvailable {
			return nil, errors.New("ROBODOC_BACKEND=opencv requires a build with -tags gocv")
		}
		return vision.NewOpenCVAnalyzer(opts), nil
	case config.BackendGo, "":
		return vision.NewAnalyzer(opts), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
