package middleware

import (
	"net/http"
	"strings"
)

// GateAll is the policy entry that gates every route except the open ones.
const GateAll = "*"

// openRoutes stay reachable without a token even under GateAll; nobody could
// obtain a token otherwise.
var openRoutes = map[string]bool{
	"POST /signup": true,
	"POST /signin": true,
	"GET /health":  true,
}

// Gate decides per route whether RequireToken applies.
// Entries look like "PUT /movies".
type Gate struct {
	all     bool
	routes  map[string]bool
	require func(http.Handler) http.Handler
}

func NewGate(entries []string, tokens TokenVerifier) *Gate {
	g := &Gate{routes: map[string]bool{}, require: RequireToken(tokens)}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == GateAll {
			g.all = true
			continue
		}
		method, pattern, _ := strings.Cut(e, " ")
		g.routes[routeKey(method, pattern)] = true
	}
	return g
}

func routeKey(method, pattern string) string {
	return strings.ToUpper(strings.TrimSpace(method)) + " " + strings.TrimSpace(pattern)
}

// Gated reports whether method+pattern requires a token.
func (g *Gate) Gated(method, pattern string) bool {
	key := routeKey(method, pattern)
	if openRoutes[key] {
		return false
	}
	return g.all || g.routes[key]
}

// For returns the middleware for one route: RequireToken when gated,
// a pass-through otherwise.
func (g *Gate) For(method, pattern string) func(http.Handler) http.Handler {
	if g.Gated(method, pattern) {
		return g.require
	}
	return func(next http.Handler) http.Handler { return next }
}
