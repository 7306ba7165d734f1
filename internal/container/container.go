package container

import (
	app "robodoc/internal/application"
	"robodoc/internal/domain/port"
)

type Container struct {
	SessionService  *app.SessionService
	AnalysisService *app.AnalysisService
}

func New(sessionRepo port.SessionRepository, analyzer port.InjuryAnalyzer, describer port.ResultDescriber, runner *app.LatestRunner, maxPhotoSide int) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	analysisService := app.NewAnalysisService(sessionService, analyzer, describer, runner, maxPhotoSide)

	return &Container{
		SessionService:  sessionService,
		AnalysisService: analysisService,
	}
}
