// YouTube Data API v3 implementation of the destination playlist host
//
// All calls go through [RequestClient] so retries, backoff, rate limiting,
// and quota classification apply uniformly.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/likeshift/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	youtubeScope = "https://www.googleapis.com/auth/youtube.force-ssl"
)

type searchItemID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

type searchSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

type searchItem struct {
	ID      searchItemID  `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchListResponse struct {
	Items []searchItem `json:"items"`
}

type playlistSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type playlistListItem struct {
	ID      string          `json:"id"`
	Snippet playlistSnippet `json:"snippet"`
}

type playlistListResponse struct {
	Items         []playlistListItem `json:"items"`
	NextPageToken string             `json:"nextPageToken"`
}

// YouTubeService talks to the YouTube Data API v3 for search, playlist lookup,
// playlist creation, and playlist item insertion.
type YouTubeService struct {
	baseURL string
	client  *RequestClient
}

// NewYouTubeService creates a new YouTube service instance.
//
// An empty baseURL selects the production googleapis.com endpoint; tests
// point it at a local server.
func NewYouTubeService(baseURL string, client *RequestClient) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}

	return &YouTubeService{
		baseURL: baseURL,
		client:  client,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// NewYouTubeOAuth builds the Google OAuth2 configuration for the YouTube Data API.
func NewYouTubeOAuth(credentials map[string]string) (*YouTubeOAuth, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:8080/callback"
	}

	return &YouTubeOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{youtubeScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: googleTokenURL,
			},
		},
	}, nil
}

// YouTubeOAuth implements [OAuthService] for the Google authorization-code flow.
type YouTubeOAuth struct {
	config *oauth2.Config
}

func (o *YouTubeOAuth) Name() string {
	return "YouTube"
}

// GetAuthURL returns the Google authorization URL, requesting offline access
// so a refresh token is issued.
func (o *YouTubeOAuth) GetAuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// GetOAuthConfig returns the OAuth2 configuration for code exchange.
func (o *YouTubeOAuth) GetOAuthConfig() *oauth2.Config {
	return o.config
}

// TokenSource returns an auto-refreshing token source seeded with the stored token.
func (o *YouTubeOAuth) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return o.config.TokenSource(ctx, token)
}

// Search queries the destination for candidate video matches.
//
// Calls GET /search with q, maxResults, and type=video.
func (y *YouTubeService) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("type", "video")

	resp, err := y.client.Do(ctx, http.MethodGet, y.baseURL+"/search", params, nil)
	if err != nil {
		return nil, err
	}

	var list searchListResponse
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(list.Items))
	for _, item := range list.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, SearchResult{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}

	return results, nil
}

// InsertPlaylistItem adds a video to the destination playlist.
//
// Calls POST /playlistItems. A 409 conflict (video already in the playlist)
// is success; the client handles that classification.
func (y *YouTubeService) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	params := url.Values{}
	params.Set("part", "snippet")

	body := map[string]any{
		"snippet": map[string]any{
			"playlistId": playlistID,
			"resourceId": map[string]string{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	}

	_, err := y.client.Do(ctx, http.MethodPost, y.baseURL+"/playlistItems", params, body)
	return err
}

// GetOrCreatePlaylist finds an existing playlist by case-insensitive title
// match, or creates a new private one.
//
// Pages through GET /playlists?mine=true, then falls back to POST /playlists.
func (y *YouTubeService) GetOrCreatePlaylist(ctx context.Context, title string) (string, error) {
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("mine", "true")
		params.Set("maxResults", "50")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		resp, err := y.client.Do(ctx, http.MethodGet, y.baseURL+"/playlists", params, nil)
		if err != nil {
			return "", fmt.Errorf("failed to list playlists: %w", err)
		}

		var list playlistListResponse
		if err := json.Unmarshal(resp.Body, &list); err != nil {
			return "", fmt.Errorf("failed to decode playlist list: %w", err)
		}

		for _, item := range list.Items {
			if strings.EqualFold(strings.TrimSpace(item.Snippet.Title), strings.TrimSpace(title)) {
				return item.ID, nil
			}
		}

		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	return y.createPlaylist(ctx, title)
}

// createPlaylist creates a new private playlist and returns its ID.
func (y *YouTubeService) createPlaylist(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet,status")

	body := map[string]any{
		"snippet": map[string]string{
			"title":       title,
			"description": "Imported from Spotify liked songs",
		},
		"status": map[string]string{
			"privacyStatus": "private",
		},
	}

	resp, err := y.client.Do(ctx, http.MethodPost, y.baseURL+"/playlists", params, body)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: create playlist returned no id", shared.ErrRequestFailed)
	}

	return created.ID, nil
}
