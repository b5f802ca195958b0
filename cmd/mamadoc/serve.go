package main

import (
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/capraCoder/mamadoc/internal/api"
	"github.com/capraCoder/mamadoc/internal/config"
	"github.com/capraCoder/mamadoc/internal/infrastructure"
	"github.com/capraCoder/mamadoc/internal/watcher"
	"github.com/capraCoder/mamadoc/pkg/module"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the inbox watcher",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveNoWatch bool

func init() {
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "serve the API without watching the inbox")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}

	apiModule, domain, err := api.NewModule(cfg, infra)
	if err != nil {
		return err
	}

	router := buildRouter(infra)
	router.Mount(apiModule)

	if err := infra.Start(); err != nil {
		return err
	}

	httpSrv := newHTTPServer(&cfg.Server, router, infra.Logger)
	if err := httpSrv.Start(infra.Lifecycle); err != nil {
		return err
	}

	var w *watcher.Watcher
	if !serveNoWatch {
		w, err = watcher.New(api.NewIngestRuntime(cfg, infra, domain))
		if err != nil {
			return err
		}
		if err := w.Start(infra.Lifecycle.Context()); err != nil {
			return err
		}
	}

	go func() {
		infra.Lifecycle.WaitForStartup()
		infra.Logger.Info("all subsystems ready",
			"addr", cfg.Server.Addr(),
			"version", cfg.Version,
			"env", cfg.Env())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if w != nil {
		w.Stop()
	}

	infra.Logger.Info("initiating shutdown")
	return infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
