package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"github.com/example/meterdesk/internal/api"
	"github.com/example/meterdesk/internal/logging"
	"github.com/example/meterdesk/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := wire.Config()

		server := api.NewServer(
			wire.CycleService(),
			wire.AssignmentService(),
			wire.ProgressService(),
			wire.ExportService(),
		)
		router := api.NewRouter(server)

		handler := handlers.RecoveryHandler()(handlers.CompressHandler(router))

		srv := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logging.Log.WithField("addr", cfg.ListenAddr).Info("http server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("http server failed: %w", err)
		case sig := <-stop:
			logging.Log.WithField("signal", sig.String()).Info("shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
