// Package server provides the temporary local HTTP server used by CLI OAuth flows.
//
// When the user runs `likeshift auth spotify` or `likeshift auth youtube`, a
// short-lived server starts on the configured host/port, receives the
// provider's redirect on /callback, exchanges the authorization code, and
// shuts down after delivering exactly one [OAuthResult].
//
// [BasicRouter] wraps [http.ServeMux] with a small middleware stack;
// [Logging] is the only middleware the CLI installs. [OAuthHandler] validates
// the CSRF state parameter and refuses replayed callbacks.
package server
