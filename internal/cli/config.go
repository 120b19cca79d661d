package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/gh-scout/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := config.FindConfigPath(cfgFile)
			if cfgPath == "" {
				fmt.Println("No config file found, validating built-in defaults and environment")
			} else {
				fmt.Printf("Validating config: %s\n", cfgPath)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Println("\nValidation errors:")
				for _, e := range errs {
					fmt.Println(errorStyle.Render("  - " + e.Error()))
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Println(successStyle.Render("\nConfiguration is valid!"))
			fmt.Printf("  - Webhook: %s %s\n", cfg.Server.Addr, cfg.Server.WebhookPath)
			if cfg.Server.WebhookSecret == "" {
				fmt.Println(warnStyle.Render("  - Webhook secret: not set (deliveries will be rejected)"))
			}
			fmt.Printf("  - LLM: %s (%s)\n", cfg.LLM.Provider, orDefault(cfg.LLM.Model, "provider default"))
			fmt.Printf("  - Profile cache: %d entries, %s TTL\n", cfg.Cache.Capacity, cfg.CacheTTL())
			if len(cfg.Repositories) == 0 {
				fmt.Println("  - Repositories: all installations")
			} else {
				fmt.Printf("  - Repositories: %d configured\n", len(cfg.Repositories))
			}

			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" || output == "-" {
				_, err := os.Stdout.Write(config.DefaultTemplate())
				return err
			}

			if _, err := os.Stat(output); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", output)
			}

			if err := os.WriteFile(output, config.DefaultTemplate(), 0o644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println(successStyle.Render("Wrote " + output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "gh-scout.yaml", "destination path, - for stdout")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
