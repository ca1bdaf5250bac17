package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tdq/internal/repositories"
	"github.com/desertthunder/tdq/internal/server"
	"github.com/desertthunder/tdq/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: set todoist.api_key or %s", shared.ErrMissingCredentials, shared.APIKeyEnv)
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}

	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(
		cfg,
		server.NewTodoistHandler(r.retriever),
		repositories.NewSettingsRepository(db),
		r.defaultZone(),
		r.logger,
	)
	return srv.Run(ctx)
}
