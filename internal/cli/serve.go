package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long: `Listen for GitHub issue_comment deliveries and answer each new comment
with an assessment report. Shuts down gracefully on SIGINT or SIGTERM.`,
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

			if cfg.Server.WebhookSecret == "" {
				log.Warn("webhook secret not configured: deliveries will be rejected with 500")
			}

			rt, err := newRuntime(cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()
			rt.startSweeper()

			if !cfg.Logging.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := server.New(cfg.Server, rt.processor, log.Named("server"))
			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				// Synchronous deliveries wait on GitHub and the LLM.
				WriteTimeout: 5 * time.Minute,
				IdleTimeout:  120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("http server starting",
					zap.String("addr", cfg.Server.Addr),
					zap.String("webhook_path", cfg.Server.WebhookPath),
					zap.Bool("async", cfg.Server.Async))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return fmt.Errorf("http server error: %w", err)
			case sig := <-quit:
				log.Info("shutting down...", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				log.Error("http server shutdown error", zap.Error(err))
			}
			srv.Wait()

			log.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().Bool("async", false, "acknowledge deliveries before processing them")
	_ = v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("server.async", cmd.Flags().Lookup("async"))

	return cmd
}
