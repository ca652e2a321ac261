package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/mwilde/topho/internal/shared"
)

// Callback is the short-lived HTTP server that waits for one OAuth redirect.
type Callback struct {
	handler *OAuthHandler
	server  *http.Server
	logger  *log.Logger
	errs    chan error
}

// NewCallback builds a callback server listening on addr for the flow
// identified by state.
func NewCallback(config *oauth2.Config, state, addr string, logger *log.Logger) *Callback {
	handler := NewOAuthHandler(config, state)
	router := NewBasicRouter()
	router.Use(RequestLogger(logger))
	router.Handler(handler)

	return &Callback{
		handler: handler,
		server:  &http.Server{Addr: addr, Handler: router},
		logger:  logger,
		errs:    make(chan error, 1),
	}
}

// Start begins serving in the background.
func (c *Callback) Start() {
	go func() {
		c.logger.Infof("OAuth callback server listening at %v", c.server.Addr)
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.errs <- err
		}
	}()
}

// Wait blocks until the callback delivers a token, the server fails, the
// timeout elapses, or ctx is cancelled. The server is shut down before
// returning.
func (c *Callback) Wait(ctx context.Context, timeout time.Duration) (*oauth2.Token, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	defer c.shutdown()

	var result OAuthResult
	select {
	case result = <-c.handler.Result():
	case err := <-c.errs:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, result.Error()
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

func (c *Callback) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.server.Shutdown(ctx); err != nil {
		c.logger.Warn("error shutting down callback server", "error", err)
	}
}
