package main

import (
	"fmt"

	"github.com/capraCoder/mamadoc/internal/api"
	"github.com/capraCoder/mamadoc/internal/config"
	"github.com/capraCoder/mamadoc/internal/infrastructure"
	"github.com/capraCoder/mamadoc/internal/ingest"
)

// app bundles the started infrastructure and domain systems for one
// command invocation.
type app struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *api.Domain
}

// newApp loads configuration, starts infrastructure, and waits until the
// database and storage backends are ready.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(cfg, runtime)

	return &app{cfg: cfg, infra: infra, domain: domain}, nil
}

func (a *app) ingestRuntime() *ingest.Runtime {
	return api.NewIngestRuntime(a.cfg, a.infra, a.domain)
}

func (a *app) close() {
	if err := a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration()); err != nil {
		a.infra.Logger.Error("shutdown incomplete", "error", err)
	}
}
