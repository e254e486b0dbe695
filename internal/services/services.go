package services

import (
	"golang.org/x/oauth2"
)

// Track represents a music track from the source library.
type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration int // Duration in seconds
}

// Query returns the free-text search string used to locate the track on the destination service.
func (t Track) Query() string {
	return t.Title + " " + t.Artist
}

// SearchResult represents one candidate match returned by the destination search endpoint.
type SearchResult struct {
	VideoID      string
	Title        string
	ChannelTitle string
}

// OAuthService is implemented by services that authenticate users via the OAuth2 authorization-code flow.
type OAuthService interface {
	// GetAuthURL returns the provider authorization URL for the given CSRF state token.
	GetAuthURL(state string) string

	// GetOAuthConfig returns the underlying OAuth2 configuration for code exchange.
	GetOAuthConfig() *oauth2.Config

	// Name returns the provider name (e.g., "Spotify", "YouTube")
	Name() string
}
