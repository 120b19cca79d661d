package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/gh-scout/internal/github"
)

func newProcessCmd() *cobra.Command {
	var (
		eventPath  string
		deliveryID string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a stored issue_comment webhook payload",
		Long: `Run the full assessment pipeline for one issue_comment payload read from disk,
as if it had just been delivered. Combine with --dry-run to print the report
instead of posting it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadValidConfig()
			if err != nil {
				return err
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			event, err := github.ParseEventFile(eventPath)
			if err != nil {
				return fmt.Errorf("failed to parse event: %w", err)
			}

			rt, err := newRuntime(cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, procErr := rt.processor.Process(context.Background(), event, deliveryID)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("failed to write result: %w", err)
				}
			} else {
				fmt.Print(renderResult(result))
			}

			if procErr != nil {
				return fmt.Errorf("processing failed: %w", procErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&eventPath, "event-path", "", "path to issue_comment event JSON file")
	cmd.Flags().StringVar(&deliveryID, "delivery-id", "local", "delivery ID recorded in logs")
	cmd.Flags().BoolVar(&asJSON, "json-output", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("event-path")

	return cmd
}
