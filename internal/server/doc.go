// Package server runs the temporary localhost HTTP server that receives the
// Google OAuth2 authorization callback.
//
// # Callback Flow
//
// When the user runs `topho auth login`, a [Callback] server starts on the
// configured host and port, the browser opens Google's consent page, and the
// [OAuthHandler] receives the redirect. The handler validates the state
// parameter, exchanges the authorization code for tokens, and delivers the
// result through a one-shot channel. The server shuts down as soon as one
// callback has been processed or the flow times out.
//
// # Routing
//
// [BasicRouter] is a small [http.ServeMux] wrapper with a middleware stack.
// Handlers implement [Handler] to register their own routes.
package server
