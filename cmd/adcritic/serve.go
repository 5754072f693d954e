package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/httpapi"
	"github.com/kitbuilder587/ad-critic/internal/ratelimit"
)

const shutdownTimeout = 15 * time.Second

var serveAddrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "Listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: a.cfg.RateLimit.RequestsPerMinute})
	defer limiter.Stop()

	addr := a.cfg.HTTP.Addr
	if serveAddrFlag != "" {
		addr = serveAddrFlag
	}

	srv := &http.Server{
		Addr: addr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Critic:         a.critic,
			Batch:          a.batch,
			Orchestrator:   a.orchestrator,
			Brands:         a.brands,
			Approvals:      a.approvals,
			Limiter:        limiter,
			Logger:         a.logger,
			Metrics:        a.metrics,
			UploadDir:      a.cfg.Upload.Dir,
			MaxUploadBytes: a.cfg.Upload.MaxBytes,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("http server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	a.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("graceful shutdown failed", zap.Error(err))
		return err
	}
	a.logger.Info("http server stopped")
	return nil
}
