package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"robodoc/config"
	"robodoc/internal/domain/entity"
	"robodoc/internal/infrastructure/storage"
	"robodoc/internal/infrastructure/vision"
)

func TestRun_MissingTokenReturnsError(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	err := run(context.Background())
	require.EqualError(t, err, "TELEGRAM_TOKEN is required")
}

func TestRun_ClosesStoreOnLaterError(t *testing.T) {
	if vision.OpenCVAvailable {
		t.Skip("opencv backend is available in this build")
	}
	path := filepath.Join(t.TempDir(), "sessions.db")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("ROBODOC_DB_PATH", path)
	t.Setenv("ROBODOC_BACKEND", config.BackendOpenCV)

	// Хранилище уже открыто, когда выбор анализатора завершается ошибкой.
	err := run(context.Background())
	require.ErrorContains(t, err, "requires a build with -tags gocv")

	repo, err := storage.NewSQLiteSessionRepository(path, entity.DefaultParameters())
	require.NoError(t, err)
	require.NoError(t, repo.Close())
}

func TestOpenSessionRepository(t *testing.T) {
	repo, closeRepo, err := openSessionRepository("", entity.DefaultParameters())
	require.NoError(t, err)
	require.IsType(t, &storage.MemorySessionRepository{}, repo)
	require.NoError(t, closeRepo())

	repo, closeRepo, err = openSessionRepository(filepath.Join(t.TempDir(), "s.db"), entity.DefaultParameters())
	require.NoError(t, err)
	require.IsType(t, &storage.SQLiteSessionRepository{}, repo)

	_, err = repo.Get(context.Background(), 1, 1)
	require.NoError(t, err)
	require.NoError(t, closeRepo())

	// Закрытая база больше не обслуживает запросы.
	_, err = repo.Get(context.Background(), 2, 2)
	require.Error(t, err)
}

func TestNewAnalyzer(t *testing.T) {
	a, err := newAnalyzer(config.BackendGo, vision.DefaultOptions())
	require.NoError(t, err)
	require.IsType(t, &vision.Analyzer{}, a)

	_, err = newAnalyzer("cuda", vision.DefaultOptions())
	require.Error(t, err)
}
