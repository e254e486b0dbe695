package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/likeshift/internal/services"
	"github.com/desertthunder/likeshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// SpotifyLiked lists the user's liked songs in migration order.
func (r *Runner) SpotifyLiked(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	tracks, err := r.likedTracks(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Liked songs (%d):\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%4d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return nil
}

// likedTracks builds an authenticated Spotify service from the stored token
// and fetches the full liked-songs library.
func (r *Runner) likedTracks(ctx context.Context) ([]services.Track, error) {
	spotifyService, err := services.NewSpotifyService(r.config.Credentials.Spotify.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token := r.config.Credentials.Spotify.Token()
	if token == nil {
		return nil, fmt.Errorf("%w: run 'likeshift auth spotify' first", shared.ErrNotAuthenticated)
	}

	if err := spotifyService.OAuthenticate(ctx, token); err != nil {
		return nil, err
	}

	r.logger.Info("fetching liked songs from Spotify")
	tracks, err := spotifyService.LikedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked songs: %w", err)
	}

	r.logger.Info("fetched liked songs", "count", len(tracks))
	return tracks, nil
}
