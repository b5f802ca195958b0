package api

import (
	"github.com/capraCoder/mamadoc/internal/actions"
	"github.com/capraCoder/mamadoc/internal/ask"
	"github.com/capraCoder/mamadoc/internal/config"
	"github.com/capraCoder/mamadoc/internal/documents"
	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/internal/infrastructure"
	"github.com/capraCoder/mamadoc/internal/ingest"
	"github.com/capraCoder/mamadoc/internal/issues"
	"github.com/capraCoder/mamadoc/internal/tasks"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Gateway   extraction.Gateway
	Issues    issues.System
	Documents documents.System
	Actions   actions.System
	Tasks     tasks.System
	Ask       ask.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	gateway := extraction.NewGateway(cfg.Agent, runtime.Logger)

	issueSys := issues.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	documentSys := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		issueSys,
		runtime.Logger,
		runtime.Pagination,
	)

	actionSys := actions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	taskSys := tasks.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	askSys := ask.New(
		gateway,
		issueSys,
		documentSys,
		actionSys,
		taskSys,
		runtime.Logger,
	)

	return &Domain{
		Gateway:   gateway,
		Issues:    issueSys,
		Documents: documentSys,
		Actions:   actionSys,
		Tasks:     taskSys,
		Ask:       askSys,
	}
}

// NewIngestRuntime bundles the domain systems into the dependency set the
// ingestion pipeline and inbox watcher require.
func NewIngestRuntime(cfg *config.Config, infra *infrastructure.Infrastructure, domain *Domain) *ingest.Runtime {
	return &ingest.Runtime{
		Config:    cfg.Ingest,
		Gateway:   domain.Gateway,
		Storage:   infra.Storage,
		Documents: domain.Documents,
		Issues:    domain.Issues,
		Logger:    infra.Logger.With("module", "ingest"),
	}
}
