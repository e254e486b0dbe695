package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/likeshift/internal/shared"
	"golang.org/x/oauth2"
)

func newSpotifyTestService(t *testing.T, baseURL string) *SpotifyService {
	t.Helper()
	svc, err := NewSpotifyService(map[string]string{
		"client_id":     "id",
		"client_secret": "secret",
		"redirect_uri":  "http://127.0.0.1:8080/callback",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.OAuthenticate(context.Background(), &oauth2.Token{AccessToken: "test-token"}); err != nil {
		t.Fatal(err)
	}
	svc.baseURL = baseURL
	return svc
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("requires client credentials", func(t *testing.T) {
		if _, err := NewSpotifyService(map[string]string{"client_secret": "s"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if _, err := NewSpotifyService(map[string]string{"client_id": "i"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("requires authentication before requests", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{"client_id": "i", "client_secret": "s"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.LikedTracks(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestSpotifyLikedTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("pages through the full library", func(t *testing.T) {
		var pages []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/tracks" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			offset := r.URL.Query().Get("offset")
			pages = append(pages, offset)

			if offset == "0" {
				fmt.Fprintf(w, `{
					"items": [
						{"track": {"id": "t1", "name": "First", "artists": [{"name": "Artist A"}], "album": {"name": "Album"}, "duration_ms": 200000}},
						{"track": {"id": "t2", "name": "Second", "artists": [{"name": "Artist B"}, {"name": "Feature"}], "duration_ms": 180000}}
					],
					"total": 3, "limit": 50, "offset": 0,
					"next": "%s/me/tracks?limit=50&offset=50"
				}`, r.Host)
				return
			}

			fmt.Fprint(w, `{
				"items": [
					{"track": {"id": "t3", "name": "Third", "artists": [{"name": "Artist C"}], "duration_ms": 240000}}
				],
				"total": 3, "limit": 50, "offset": 50,
				"next": null
			}`)
		}))
		defer server.Close()

		svc := newSpotifyTestService(t, server.URL)
		tracks, err := svc.LikedTracks(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}
		if len(pages) != 2 || pages[0] != "0" || pages[1] != "50" {
			t.Errorf("expected offsets [0 50], got %v", pages)
		}
		if tracks[0].Title != "First" || tracks[0].Artist != "Artist A" {
			t.Errorf("unexpected first track: %+v", tracks[0])
		}
		if tracks[1].Artist != "Artist B" {
			t.Errorf("expected the primary artist, got %q", tracks[1].Artist)
		}
		if got := tracks[0].Query(); got != "First Artist A" {
			t.Errorf("unexpected query: %q", got)
		}
	})

	t.Run("skips unplayable entries without a name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"items": [
					{"track": {"id": "t1", "name": ""}},
					{"track": {"id": "t2", "name": "Kept", "artists": [{"name": "Artist"}]}}
				],
				"total": 2, "limit": 50, "offset": 0, "next": null
			}`)
		}))
		defer server.Close()

		svc := newSpotifyTestService(t, server.URL)
		tracks, err := svc.LikedTracks(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 || tracks[0].Title != "Kept" {
			t.Errorf("unexpected tracks: %+v", tracks)
		}
	})

	t.Run("401 maps to token expiry", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		svc := newSpotifyTestService(t, server.URL)
		if _, err := svc.LikedTracks(ctx); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("other failures map to request failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc := newSpotifyTestService(t, server.URL)
		if _, err := svc.LikedTracks(ctx); !errors.Is(err, shared.ErrRequestFailed) {
			t.Errorf("expected ErrRequestFailed, got %v", err)
		}
	})
}
