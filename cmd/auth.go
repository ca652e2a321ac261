package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mwilde/topho/internal/server"
	"github.com/mwilde/topho/internal/shared"
)

// OAuth scopes: read the Drive tree, append media and manage app-created
// albums in Photos.
var googleScopes = []string{
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/photoslibrary.appendonly",
	"https://www.googleapis.com/auth/photoslibrary.edit.appcreateddata",
	"https://www.googleapis.com/auth/photoslibrary.readonly.appcreateddata",
}

// authTimeout bounds how long the login flow waits for the browser callback.
const authTimeout = 2 * time.Minute

// oauthConfig builds the Google OAuth2 config from credentials config.
func (r *Runner) oauthConfig() (*oauth2.Config, error) {
	creds := r.config.Credentials.Google
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client_id and client_secret must be set in config", shared.ErrMissingCredentials)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = fmt.Sprintf("http://%s:%d/callback", r.config.Server.Host, r.config.Server.Port)
	}

	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       googleScopes,
		Endpoint:     google.Endpoint,
	}, nil
}

// AuthLogin runs the OAuth2 authorization-code flow with a local callback
// server and saves the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	oauthCfg, err := r.oauthConfig()
	if err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	callback := server.NewCallback(oauthCfg, state, addr, r.logger)
	callback.Start()

	authURL := oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)

	r.writePlain("→ Opening browser for Google authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%v timeout)...\n", authTimeout)

	token, err := callback.Wait(ctx, authTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.saveToken(token); err != nil {
		return err
	}

	r.logger.Info("authentication successful")
	r.writePlain("✓ Authentication successful\n")
	r.writePlain("Token saved to: %s\n", r.tokenPath())
	return nil
}

// AuthStatus reports whether a saved token exists and whether it is still
// valid.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	token, err := r.loadToken()
	if err != nil {
		r.writePlain("✗ Not authenticated: %v\n", err)
		r.writePlain("Run 'topho auth login' to connect your Google account.\n")
		return nil
	}

	r.writePlain("✓ Token found at %s\n", r.tokenPath())
	if token.Valid() {
		r.writePlain("Status: valid until %s\n", token.Expiry.Format(time.RFC1123))
		return nil
	}

	if token.RefreshToken != "" {
		r.writePlain("Status: expired, will refresh automatically on next use\n")
		return nil
	}

	r.writePlain("Status: expired with no refresh token, run 'topho auth login' again\n")
	return nil
}

func (r *Runner) tokenPath() string {
	path := r.config.Credentials.Google.TokenPath
	if path == "" {
		path = "token.json"
	}
	return path
}

func (r *Runner) saveToken(token *oauth2.Token) error {
	path := r.tokenPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := shared.MarshalJSON(token, true)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *Runner) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(r.tokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: no saved token", shared.ErrNotAuthenticated)
	}

	var token oauth2.Token
	if err := shared.UnmarshalJSON(data, &token); err != nil {
		return nil, fmt.Errorf("%w: saved token is not valid JSON", shared.ErrNotAuthenticated)
	}
	return &token, nil
}

// googleClient builds an http.Client that injects and refreshes the saved
// token on every request.
func googleClient(ctx context.Context, config *shared.Config, token *oauth2.Token) *http.Client {
	creds := config.Credentials.Google
	oauthCfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Scopes:       googleScopes,
		Endpoint:     google.Endpoint,
	}
	return oauthCfg.Client(ctx, token)
}
