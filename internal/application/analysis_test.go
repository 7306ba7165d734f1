package app

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"robodoc/internal/domain/entity"
	"robodoc/internal/infrastructure/imageio"
	"robodoc/internal/infrastructure/report"
	"robodoc/internal/infrastructure/storage"
	"robodoc/internal/infrastructure/vision"
)

// sourcePhoto возвращает PNG 120×60: слева кожа с тёмным пятном, справа чистая кожа.
func sourcePhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			c := color.RGBA{R: 120, G: 120, B: 120, A: 255}
			if x >= 20 && x < 40 && y >= 20 && y < 40 {
				c = color.RGBA{R: 20, G: 20, B: 20, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	data, err := imageio.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func newAnalysisService() (*AnalysisService, *SessionService) {
	sessions := NewSessionService(storage.NewMemorySessionRepository(entity.DefaultParameters()))
	svc := NewAnalysisService(sessions, vision.NewAnalyzer(vision.DefaultOptions()), report.NewTextDescriber(), NewLatestRunner(0), 0)
	return svc, sessions
}

func TestAnalysisService_AcceptSourcePhoto(t *testing.T) {
	svc, _ := newAnalysisService()
	ctx := context.Background()

	session, err := svc.AcceptSourcePhoto(ctx, 1, 10, sourcePhoto(t))
	require.NoError(t, err)
	require.Equal(t, entity.StateSelectingRegions, session.State)

	size, err := svc.SourceSize(1)
	require.NoError(t, err)
	require.Equal(t, image.Pt(120, 60), size)
}

func TestAnalysisService_AcceptSourcePhotoRejectsGarbage(t *testing.T) {
	svc, _ := newAnalysisService()

	_, err := svc.AcceptSourcePhoto(context.Background(), 1, 10, []byte("not an image"))
	require.Error(t, err)

	_, err = svc.SourceSize(1)
	require.ErrorIs(t, err, ErrNoSource)
}

func TestAnalysisService_SelectRegion(t *testing.T) {
	svc, _ := newAnalysisService()
	ctx := context.Background()

	_, err := svc.SelectRegion(ctx, 1, 10, entity.RegionInjury, image.Rect(0, 0, 60, 60))
	require.ErrorIs(t, err, ErrNoSource)

	_, err = svc.AcceptSourcePhoto(ctx, 1, 10, sourcePhoto(t))
	require.NoError(t, err)

	_, err = svc.SelectRegion(ctx, 1, 10, entity.RegionInjury, image.Rect(100, 0, 160, 60))
	require.ErrorIs(t, err, entity.ErrInvalidRegion)

	session, err := svc.SelectRegion(ctx, 1, 10, entity.RegionInjury, image.Rect(0, 0, 60, 60))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 60, 60), session.Injury)
}

func TestAnalysisService_AnalyzeRequiresRegions(t *testing.T) {
	svc, _ := newAnalysisService()
	ctx := context.Background()

	_, err := svc.Analyze(ctx, 1, 10)
	require.ErrorIs(t, err, ErrNoSource)

	_, err = svc.AcceptSourcePhoto(ctx, 1, 10, sourcePhoto(t))
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, 1, 10)
	require.ErrorIs(t, err, ErrRegionsNotSelected)
}

func TestAnalysisService_AnalyzeFindsInjury(t *testing.T) {
	svc, _ := newAnalysisService()
	ctx := context.Background()

	_, err := svc.AcceptSourcePhoto(ctx, 1, 10, sourcePhoto(t))
	require.NoError(t, err)
	_, err = svc.SelectRegion(ctx, 1, 10, entity.RegionInjury, image.Rect(0, 0, 60, 60))
	require.NoError(t, err)
	_, err = svc.SelectRegion(ctx, 1, 10, entity.RegionControl, image.Rect(60, 0, 120, 60))
	require.NoError(t, err)

	out, err := svc.Analyze(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, out.Result.HasInjury())
	require.NotEmpty(t, out.Panel)
	require.NotNil(t, out.Description)
	require.Contains(t, out.Description.Text, "Найдено областей: 1")

	panel, format, err := imageio.Decode(out.Panel)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, out.Result.Panel.Bounds().Size(), panel.Bounds().Size())

	session, err := svc.sessions.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateSelectingRegions, session.State)
}

func TestAnalysisService_AnalyzeMismatchedRegions(t *testing.T) {
	svc, _ := newAnalysisService()
	ctx := context.Background()

	_, err := svc.AcceptSourcePhoto(ctx, 1, 10, sourcePhoto(t))
	require.NoError(t, err)
	_, err = svc.SelectRegion(ctx, 1, 10, entity.RegionInjury, image.Rect(0, 0, 60, 60))
	require.NoError(t, err)
	_, err = svc.SelectRegion(ctx, 1, 10, entity.RegionControl, image.Rect(60, 0, 90, 30))
	require.NoError(t, err)

	_, err = svc.Analyze(ctx, 1, 10)
	require.ErrorIs(t, err, entity.ErrDimensionMismatch)
}

func TestAnalysisService_AnalyzeUsesSessionParams(t *testing.T) {
	svc, sessions := newAnalysisService()
	ctx := context.Background()

	_, err := svc.AcceptSourcePhoto(ctx, 1, 10, sourcePhoto(t))
	require.NoError(t, err)
	_, err = svc.SelectRegion(ctx, 1, 10, entity.RegionInjury, image.Rect(0, 0, 60, 60))
	require.NoError(t, err)
	_, err = svc.SelectRegion(ctx, 1, 10, entity.RegionControl, image.Rect(60, 0, 120, 60))
	require.NoError(t, err)

	// Разница 100 не превышает порог 190.
	_, err = sessions.SetThreshold(ctx, 1, 10, 190)
	require.NoError(t, err)

	out, err := svc.Analyze(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 190, out.Result.Params.Threshold)
	require.False(t, out.Result.HasInjury())
}

func TestAnalysisService_Forget(t *testing.T) {
	svc, _ := newAnalysisService()
	ctx := context.Background()

	_, err := svc.AcceptSourcePhoto(ctx, 1, 10, sourcePhoto(t))
	require.NoError(t, err)

	svc.Forget(1)
	_, err = svc.SourceSize(1)
	require.ErrorIs(t, err, ErrNoSource)
}
