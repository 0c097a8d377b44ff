package server

import (
	"github.com/lorekeep/lorekeep/internal/server/auth"
	"github.com/lorekeep/lorekeep/internal/server/csvsvc"
	"github.com/lorekeep/lorekeep/internal/server/jobs"
	"github.com/lorekeep/lorekeep/internal/server/pages"
	"github.com/lorekeep/lorekeep/internal/server/reports"
)

// Services bundles the server's state for the route handlers.
type Services struct {
	Auth    *auth.AuthService
	Pages   *pages.Store
	CSV     *csvsvc.Service
	Engine  *jobs.Engine
	Reports *reports.Store
}

func NewServices(cfg *Config) (*Services, error) {
	pageStore := pages.NewStore(cfg.Pages.Seed...)
	csvSvc, err := csvsvc.New(pageStore)
	if err != nil {
		return nil, err
	}
	return &Services{
		Auth:    auth.New(cfg.Auth.AuthServiceConfig()),
		Pages:   pageStore,
		CSV:     csvSvc,
		Engine:  jobs.NewEngine(jobs.QueueImport, jobs.QueueIndex),
		Reports: reports.NewStore(),
	}, nil
}
