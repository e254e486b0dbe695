package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestLoadConfig(t *testing.T) {
	t.Run("parses a full config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.spotify]
client_id = "spot-id"
client_secret = "spot-secret"
redirect_uri = "http://127.0.0.1:8080/callback"

[credentials.youtube]
client_id = "yt-id"
client_secret = "yt-secret"

[migration]
playlist_name = "My Import"
ledger_path = "state/progress.json"
concurrency = 4
retry_attempts = 2
retry_delay_seconds = 1
rate_limit = 2.5
search_max_results = 3

[server]
host = "localhost"
port = 9090
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "spot-id" {
			t.Errorf("unexpected spotify client id: %q", config.Credentials.Spotify.ClientID)
		}
		if config.Migration.PlaylistName != "My Import" {
			t.Errorf("unexpected playlist name: %q", config.Migration.PlaylistName)
		}
		if config.Migration.Concurrency != 4 {
			t.Errorf("unexpected concurrency: %d", config.Migration.Concurrency)
		}
		if config.Migration.RetryDelay() != time.Second {
			t.Errorf("unexpected retry delay: %v", config.Migration.RetryDelay())
		}
		if config.Server.Port != 9090 {
			t.Errorf("unexpected port: %d", config.Server.Port)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[[["), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for invalid toml")
		}
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("round trips tokens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "id"
		config.Credentials.Spotify.AccessToken = "access"
		config.Credentials.Spotify.RefreshToken = "refresh"

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		if loaded.Credentials.Spotify.AccessToken != "access" {
			t.Errorf("unexpected access token: %q", loaded.Credentials.Spotify.AccessToken)
		}
		if loaded.Credentials.Spotify.RefreshToken != "refresh" {
			t.Errorf("unexpected refresh token: %q", loaded.Credentials.Spotify.RefreshToken)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Migration.Concurrency != 10 {
		t.Errorf("expected default concurrency 10, got %d", config.Migration.Concurrency)
	}
	if config.Migration.RetryAttempts != 3 {
		t.Errorf("expected default retry attempts 3, got %d", config.Migration.RetryAttempts)
	}
	if config.Migration.RetryDelay() != 5*time.Second {
		t.Errorf("expected default retry delay 5s, got %v", config.Migration.RetryDelay())
	}
	if config.Migration.LedgerPath != "progress.json" {
		t.Errorf("unexpected ledger path: %q", config.Migration.LedgerPath)
	}
	if config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Server.Port)
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("creates from template", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := LoadConfig(path); err != nil {
			t.Errorf("created config does not parse: %v", err)
		}
	})

	t.Run("does not overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("# mine"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error for existing file")
		}
	})
}

func TestOAuthCredentials(t *testing.T) {
	t.Run("Map carries client settings", func(t *testing.T) {
		creds := OAuthCredentials{ClientID: "id", ClientSecret: "secret", RedirectURI: "uri"}
		m := creds.Map()
		if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "uri" {
			t.Errorf("unexpected map: %v", m)
		}
	})

	t.Run("Token is nil without stored tokens", func(t *testing.T) {
		creds := OAuthCredentials{ClientID: "id"}
		if creds.Token() != nil {
			t.Error("expected nil token")
		}
	})

	t.Run("Token reconstructs expiry", func(t *testing.T) {
		creds := OAuthCredentials{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       "2026-08-20T10:00:00Z",
		}
		token := creds.Token()
		if token == nil {
			t.Fatal("expected a token")
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("unexpected token: %+v", token)
		}
		if token.Expiry.IsZero() {
			t.Error("expected expiry to be parsed")
		}
	})

	t.Run("Update preserves refresh token when omitted", func(t *testing.T) {
		creds := OAuthCredentials{RefreshToken: "keep-me"}
		err := creds.Update(&oauth2.Token{
			AccessToken: "new-access",
			Expiry:      time.Now().Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if creds.AccessToken != "new-access" {
			t.Errorf("unexpected access token: %q", creds.AccessToken)
		}
		if creds.RefreshToken != "keep-me" {
			t.Errorf("expected refresh token to be preserved, got %q", creds.RefreshToken)
		}
		if creds.Expiry == "" {
			t.Error("expected expiry to be recorded")
		}
	})

	t.Run("Update rejects empty tokens", func(t *testing.T) {
		creds := OAuthCredentials{}
		if err := creds.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
		if err := creds.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty access token")
		}
	})
}
