// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/capraCoder/mamadoc/internal/config"
	"github.com/capraCoder/mamadoc/internal/infrastructure"
	"github.com/capraCoder/mamadoc/pkg/middleware"
	"github.com/capraCoder/mamadoc/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, cfg, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, domain, nil
}
