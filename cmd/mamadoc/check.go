package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration, database, storage, and inbox",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.infra.Lifecycle.Ready() {
		return fmt.Errorf("infrastructure did not become ready")
	}

	fmt.Printf("config      ok (env: %s, version: %s)\n", a.cfg.Env(), a.cfg.Version)
	fmt.Printf("database    ok (%s)\n", a.cfg.Database.Driver)
	fmt.Printf("storage     ok (%s)\n", a.cfg.Storage.Backend)

	if info, err := os.Stat(a.cfg.Ingest.InboxDir); err != nil || !info.IsDir() {
		fmt.Printf("inbox       missing (%s), created on watch\n", a.cfg.Ingest.InboxDir)
	} else {
		fmt.Printf("inbox       ok (%s)\n", a.cfg.Ingest.InboxDir)
	}

	fmt.Printf("agent       %s / %s\n", a.cfg.Agent.Provider.Name, a.cfg.Agent.Model.Name)
	return nil
}
