package middleware

import (
	"strings"
)

var publicRoutes = []string{
	"/",
	"/health",
	"/api/auth/login",
}

// IsPublicRoute reports whether path is served without a session. Only
// login is public under /api/auth; me and logout need a session.
func IsPublicRoute(path string) bool {
	if strings.HasPrefix(path, "/api/docs/") || path == "/api/docs" {
		return true
	}
	for _, route := range publicRoutes {
		if path == route {
			return true
		}
	}
	return false
}
