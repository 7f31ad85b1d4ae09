package cmd

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

	"github.com/fmuoria/ai-recruiter/internal/agent"
	"github.com/fmuoria/ai-recruiter/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Process candidates in the background and serve the rankings over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		noRun, _ := cmd.Flags().GetBool("no-run")
		return serve(noRun)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("no-run", false, "only serve HTTP, do not process candidates")
}

func serve(noRun bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var server *api.Server
	if noRun {
		server = api.NewServer(agent.NewResultStore(), nil, log)
	} else {
		app, err := newApplication(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.task.Start(ctx); err != nil {
			return err
		}
		server = api.NewServer(app.store, app.task, log)
	}

	srv := server.HTTPServer(cfg.Server.Addr)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
