package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/likeshift/internal/migrate"
	"github.com/desertthunder/likeshift/internal/services"
	"github.com/desertthunder/likeshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// MigrateRun migrates liked songs into the destination playlist, resuming
// from the progress ledger.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	settings := r.config.Migration
	playlistName := cmd.String("playlist")
	if playlistName == "" {
		playlistName = settings.PlaylistName
	}
	ledgerPath := cmd.String("ledger")
	if ledgerPath == "" {
		ledgerPath = settings.LedgerPath
	}
	concurrency := int(cmd.Int("concurrency"))
	if concurrency <= 0 {
		concurrency = settings.Concurrency
	}

	tracks, err := r.likedTracks(ctx)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		r.writePlain("No liked songs found, nothing to migrate.\n")
		return nil
	}

	queries := make([]string, len(tracks))
	for i, track := range tracks {
		queries[i] = track.Query()
	}

	ledger := migrate.LoadLedger(ledgerPath, r.logger)

	if cmd.Bool("dry-run") {
		return r.printDryRun(queries, ledger)
	}

	youtube, err := r.youtubeService(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("resolving destination playlist", "name", playlistName)
	playlistID, err := youtube.GetOrCreatePlaylist(ctx, playlistName)
	if err != nil {
		return fmt.Errorf("failed to resolve destination playlist: %w", err)
	}

	engine := migrate.NewEngine(youtube, ledger, r.logger, migrate.Options{
		Concurrency: concurrency,
		MaxResults:  settings.SearchMaxResults,
	})

	progress := make(chan migrate.ProgressUpdate, 64)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			r.logger.Debug("progress", "phase", update.Phase, "step", update.Step, "total", update.Total, "message", update.Message)
		}
	}()

	result, err := engine.Run(ctx, queries, playlistID, progress)
	close(progress)
	<-drained
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	r.writePlainln("Migration finished")
	r.writePlain("  Total:          %d\n", result.Total)
	r.writePlain("  Already done:   %d\n", result.Skipped)
	r.writePlain("  Added:          %d\n", result.Added)
	r.writePlain("  Not found:      %d\n", result.NotFound)
	r.writePlain("  Failed to add:  %d\n", result.FailedToAdd)
	r.writePlain("  Quota exceeded: %d\n", result.QuotaExceeded)
	if result.Unrecorded > 0 {
		r.writePlain("  Errored (will retry next run): %d\n", result.Unrecorded)
	}
	if result.QuotaTripped {
		r.writePlain("\n⚠ The YouTube API quota ran out. Progress was saved; run 'likeshift migrate run' again later to resume.\n")
	}

	return nil
}

// MigrateStatus reports per-status counts from the progress ledger.
func (r *Runner) MigrateStatus(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	ledgerPath := cmd.String("ledger")
	if ledgerPath == "" {
		ledgerPath = r.config.Migration.LedgerPath
	}

	if _, err := os.Stat(ledgerPath); os.IsNotExist(err) {
		r.writePlain("No progress ledger at %s, nothing has been migrated yet.\n", ledgerPath)
		return nil
	}

	ledger := migrate.LoadLedger(ledgerPath, r.logger)
	counts := ledger.Counts()

	if cmd.Bool("json") {
		return r.writeJSON(counts, true)
	}

	stamp, err := migrate.LastUpdated(ledgerPath)
	if err != nil {
		stamp = "unknown"
	}

	r.writePlain("Progress ledger: %s\n", ledgerPath)
	r.writePlain("Last updated:    %s\n", stamp)
	r.writePlain("Processed:       %d\n", ledger.Len())
	r.writePlain("  added:          %d\n", counts[migrate.StatusAdded])
	r.writePlain("  not_found:      %d\n", counts[migrate.StatusNotFound])
	r.writePlain("  failed_to_add:  %d\n", counts[migrate.StatusFailedToAdd])
	r.writePlain("  quota_exceeded: %d\n", counts[migrate.StatusQuotaExceeded])

	return nil
}

// MigrateReset deletes the progress ledger so the next run starts from scratch.
func (r *Runner) MigrateReset(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	ledgerPath := cmd.String("ledger")
	if ledgerPath == "" {
		ledgerPath = r.config.Migration.LedgerPath
	}

	if err := os.Remove(ledgerPath); err != nil {
		if os.IsNotExist(err) {
			r.writePlain("No progress ledger at %s, nothing to reset.\n", ledgerPath)
			return nil
		}
		return fmt.Errorf("failed to remove ledger: %w", err)
	}

	r.logger.Info("removed progress ledger", "path", ledgerPath)
	r.writePlain("✓ Removed %s, the next run starts fresh.\n", ledgerPath)
	return nil
}

// printDryRun lists pending items without touching the destination.
func (r *Runner) printDryRun(queries []string, ledger *migrate.Ledger) error {
	pending := 0
	r.writePlain("Dry run, pending items:\n")
	for i, query := range queries {
		index := i + 1
		if ledger.Processed(index) {
			continue
		}
		pending++
		r.writePlain("%4d. %s\n", index, query)
	}
	r.writePlain("\n%d of %d pending, %d already processed.\n", pending, len(queries), len(queries)-pending)
	return nil
}

// youtubeService builds an authenticated YouTube service whose request client
// carries the retry, backoff, and rate-limit settings from the config.
func (r *Runner) youtubeService(ctx context.Context) (*services.YouTubeService, error) {
	oauth, err := services.NewYouTubeOAuth(r.config.Credentials.YouTube.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube OAuth config: %w", err)
	}

	token := r.config.Credentials.YouTube.Token()
	if token == nil {
		return nil, fmt.Errorf("%w: run 'likeshift auth youtube' first", shared.ErrNotAuthenticated)
	}

	settings := r.config.Migration
	client := services.NewRequestClient(services.RequestClientOpts{
		HTTPClient: r.httpClient,
		Tokens:     oauth.TokenSource(ctx, token),
		Attempts:   settings.RetryAttempts,
		BaseDelay:  settings.RetryDelay(),
		RateLimit:  settings.RateLimit,
		Logger:     r.logger,
	})

	return services.NewYouTubeService("", client), nil
}
