// Package http exposes the addon framework over a small REST surface.
//
// Endpoints:
//   - Health: /health
//   - Discovery: /addons, /addons/:name
//   - Config: /addons/:name/config
//   - Tokens: /addons/:name/tokens, /addons/:name/tokens/validate
//   - Cache: /addons/:name/cache (GET lists, DELETE purges)
//   - Assets: /addons/:name/assets/*file
//
// Handlers run inside the session middleware so token and cookie operations
// act on the visitor's session.
//
// Example Usage:
//
//	handlers := http.NewHandlers(factory, sessions, metrics, logger)
//	handlers.Register(router.Group("/addons"))
//	router.GET("/health", handlers.Health)
package http
