package ingest

import (
	"log/slog"

	"github.com/capraCoder/mamadoc/internal/config"
	"github.com/capraCoder/mamadoc/internal/documents"
	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/internal/issues"
	"github.com/capraCoder/mamadoc/pkg/storage"
)

// Runtime bundles the dependencies that pipeline nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Config    config.IngestConfig
	Gateway   extraction.Gateway
	Storage   storage.System
	Documents documents.System
	Issues    issues.System
	Logger    *slog.Logger
}
