package api

import (
	"net/http"

	"github.com/capraCoder/mamadoc/internal/config"
	"github.com/capraCoder/mamadoc/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	cfg *config.Config,
	domain *Domain,
	runtime *Runtime,
) {
	artifacts := newArtifactHandler(runtime.Storage, runtime.Logger)
	uploads := newUploadHandler(cfg.Ingest.InboxDir, cfg.API.MaxUploadSizeBytes(), runtime.Logger)

	routes.Register(
		mux,
		domain.Issues.Handler().Routes(),
		domain.Documents.Handler().Routes(),
		domain.Actions.Handler().Routes(),
		domain.Tasks.Handler().Routes(),
		domain.Ask.Handler().Routes(),
		artifacts.routes(),
		uploads.routes(),
	)
}
