package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/curator/internal/auth"
	"github.com/desertthunder/curator/internal/repositories"
	"github.com/desertthunder/curator/internal/server"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	"github.com/desertthunder/curator/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve builds the full service graph and runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}

	exchanger, err := auth.NewExchanger(config.Credentials.Spotify)
	if err != nil {
		return fmt.Errorf("failed to configure spotify credentials: %w", err)
	}

	catalog := services.NewSpotifyCatalog(r.httpClient)
	guard := auth.NewGuard(auth.ProbeFunc(func(ctx context.Context, accessToken string) error {
		_, err := catalog.Me(ctx, accessToken)
		return err
	}), exchanger, r.logger)

	generator, err := services.NewOpenAIGenerator(config.Credentials.OpenAI)
	if err != nil {
		return fmt.Errorf("failed to configure suggestion model: %w", err)
	}

	var cache tasks.ResolutionCache
	if !cmd.Bool("no-cache") {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			r.logger.Warn("track cache unavailable, continuing without it", "error", err)
		} else {
			defer db.Close()
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			if err := shared.RunMigrations(db); err != nil {
				r.logger.Warn("track cache migrations failed, continuing without cache", "error", err)
			} else {
				cache = repositories.NewResolutionRepository(db)
			}
		}
	}

	reconciler := tasks.NewReconciler(tasks.ReconcilerOpts{
		Workers:   config.Reconciler.Workers,
		RateLimit: config.Reconciler.RateLimit,
		Cache:     cache,
		Logger:    r.logger,
	})

	api := server.NewAPI(server.APIOpts{
		Exchanger:  exchanger,
		Guard:      guard,
		Catalog:    catalog,
		Generator:  generator,
		Reconciler: reconciler,
		Cookies:    auth.CookieWriter{Secure: config.Server.SecureCookies},
		AppURL:     config.Server.AppURL,
		Logger:     r.logger,
	})

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	api.Register(router)

	srv := &http.Server{
		Addr:              config.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("starting curator server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
