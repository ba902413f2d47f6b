package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/curator/internal/auth"
	"github.com/desertthunder/curator/internal/repositories"
	"github.com/desertthunder/curator/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login prints the Spotify consent URL for the configured application and
// opens it in the default browser. The callback is handled by a running
// `curator serve` instance.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	exchanger, err := auth.NewExchanger(r.config.Credentials.Spotify)
	if err != nil {
		return fmt.Errorf("failed to configure spotify credentials: %w", err)
	}

	url := exchanger.AuthURL(shared.GenerateID())

	r.writePlain("Open the following URL to authorize curator:\n\n%s\n", url)

	if cmd.Bool("no-browser") {
		return nil
	}

	if err := shared.OpenBrowser(url); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
	}
	return nil
}

// CacheStats reports how many track resolutions are cached.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewResolutionRepository(db)
	count, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count cached resolutions: %w", err)
	}

	return r.writeJSON(map[string]any{"cached_resolutions": count}, true)
}

// CacheClear deletes every cached track resolution.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewResolutionRepository(db)
	if err := repo.Purge(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("track resolution cache cleared")
	return r.writePlain("✓ Cache cleared\n")
}
