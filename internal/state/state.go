package state

import (
	"mafia-mod-be/internal/backend"
	"mafia-mod-be/internal/config"
	"mafia-mod-be/internal/roster"
	"mafia-mod-be/internal/service"
)

type AppState struct {
	Cfg        *config.AppConfig
	SessionSvc *service.SessionService
	Roster     *roster.Roster
	Backend    *backend.Client
}

func NewAppState(
	cfg *config.AppConfig,
	sessionSvc *service.SessionService,
	rosterCache *roster.Roster,
	backendClient *backend.Client,
) *AppState {
	return &AppState{
		Cfg:        cfg,
		SessionSvc: sessionSvc,
		Roster:     rosterCache,
		Backend:    backendClient,
	}
}
