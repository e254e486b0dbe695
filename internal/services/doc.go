// Package services implements the HTTP clients for both sides of a migration.
//
// # Spotify (source)
//
// [SpotifyService] reads the authenticated user's liked-tracks library.
//
// It uses OAuth2 with automatic token refresh; [SpotifyService.LikedTracks]
// pages through /me/tracks fifty at a time and returns tracks in stable
// library order.
//
// # YouTube (destination)
//
// [YouTubeService] covers the three Data API v3 operations a migration needs:
// video search, playlist lookup/creation, and playlist item insertion.
//
// # Request Client
//
// Every YouTube call flows through [RequestClient], which owns the retry
// ladder, exponential backoff on 403/429, the requests-per-second limiter,
// and bearer-token injection from an [oauth2.TokenSource].
//
// # Error Handling
//
// Clients surface typed errors from the shared package:
//   - [shared.ErrQuotaExceeded] : rate/quota status persisted through the retry budget
//   - [shared.ErrRequestFailed] : permanent non-2xx failure or exhausted network retries
//   - [shared.ErrTokenExpired] : the token source could not supply a valid token
//   - [shared.ErrNotAuthenticated] : authorization flow never ran
package services
