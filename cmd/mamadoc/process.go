package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capraCoder/mamadoc/internal/ingest"
)

var processCmd = &cobra.Command{
	Use:   "process [pdf]",
	Short: "Process a single PDF, or every PDF in the inbox",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProcess,
}

var processForce bool

func init() {
	processCmd.Flags().BoolVar(&processForce, "force", false, "reprocess even when the file is unchanged")
}

func runProcess(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	rt := a.ingestRuntime()
	ctx := cmd.Context()

	if len(args) == 1 {
		result, err := ingest.Execute(ctx, rt, args[0], processForce)
		if err != nil {
			return err
		}
		return printJSON(result)
	}

	batch, err := ingest.ProcessInbox(ctx, rt, processForce)
	if err != nil {
		return err
	}
	if err := printJSON(batch); err != nil {
		return err
	}
	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", batch.Failed, len(batch.Outcomes))
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
