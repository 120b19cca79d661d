package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/config"
	"github.com/Kavirubc/gh-scout/internal/logger"
)

var (
	cfgFile string
	version = "dev"

	// v holds flag and GH_SCOUT_* overrides layered over the config file
	v = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "gh-scout",
	Short: "GitHub issue commenter assessment bot",
	Long: `gh-scout answers "I'd like to work on this" comments with a fitness report.

It scores the commenter against the issue's tech stack, the quality of their
plan, and their contribution history, then posts a tiered recommendation
for maintainers.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is the normal case in production.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Bool("dry-run", false, "build reports without posting comments")

	_ = v.BindPFlag("logging.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("logging.json", rootCmd.PersistentFlags().Lookup("json"))
	_ = v.BindPFlag("server.dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newProcessCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// loadConfig resolves the config file (or the built-in template) and applies
// flag and environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(config.FindConfigPath(cfgFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyOverrides(cfg, v)
	return cfg, nil
}

// loadValidConfig is loadConfig plus validation
func loadValidConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Println(errorStyle.Render("config error: " + e.Error()))
		}
		return nil, fmt.Errorf("invalid configuration")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gh-scout version %s\n", version)
		},
	}
}
