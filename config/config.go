package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"robodoc/internal/domain/entity"
)

// Поддерживаемые реализации анализатора.
const (
	BackendGo     = "go"
	BackendOpenCV = "opencv"
)

type Config struct {
	TelegramToken string
	Threshold     int           // порог по умолчанию для новых сессий
	LineDensity   int           // плотность линий по умолчанию для новых сессий
	DBPath        string        // если пусто, сессии хранятся в памяти
	Backend       string        // go или opencv
	Debounce      time.Duration // задержка перед запуском анализа
	TuningPath    string        // YAML с настройками отрисовки
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Threshold:     entity.DefaultThreshold,
		LineDensity:   entity.DefaultLineDensity,
		DBPath:        os.Getenv("ROBODOC_DB_PATH"),
		Backend:       BackendGo,
		TuningPath:    os.Getenv("ROBODOC_TUNING"),
	}

	var err error
	if cfg.Threshold, err = intEnv("ROBODOC_THRESHOLD", cfg.Threshold); err != nil {
		return nil, err
	}
	if cfg.LineDensity, err = intEnv("ROBODOC_LINE_DENSITY", cfg.LineDensity); err != nil {
		return nil, err
	}
	if err := (entity.Parameters{Threshold: cfg.Threshold, LineDensity: cfg.LineDensity}).Validate(); err != nil {
		return nil, fmt.Errorf("default parameters: %w", err)
	}

	if v := os.Getenv("ROBODOC_BACKEND"); v != "" {
		if v != BackendGo && v != BackendOpenCV {
			return nil, fmt.Errorf("ROBODOC_BACKEND: unknown backend %q", v)
		}
		cfg.Backend = v
	}

	if v := os.Getenv("ROBODOC_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ROBODOC_DEBOUNCE: %w", err)
		}
		cfg.Debounce = d
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
