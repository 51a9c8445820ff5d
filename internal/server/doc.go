// Package server hosts the calgrid web UI and the shared server context
// used by the web UI and the MCP tools.
//
// # Key Components
//
// ServerContext owns the configuration, the derived theme and the
// calendar clients. Clients for stored accounts (MCP, CLI) are created
// lazily from the token provider and cached per account.
//
// WebServer serves:
//   - GET / : the calendar grid page, with ?date=YYYY-MM-DD&view=1|3|7
//   - GET /theme.css and POST /theme/toggle : the stylesheet and the
//     dark mode cookie (isDarkMode)
//   - /api/grid, /api/theme, /api/events : the JSON API
//   - /auth/login, /auth/callback, /auth/logout : Google sign-in
//   - /healthz, /readyz, /healthz/detailed : probes
//
// Browser sessions live in SessionStore, in memory, keyed by a random
// cookie value, and expire after the configured TTL.
//
// MetricsServer exposes Prometheus metrics on a separate address.
package server
