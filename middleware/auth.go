package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"school-admin/auth"
)

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
	}
}

// AuthMiddleware checks the bearer token and puts the session into the request context.
func (am *AuthMiddleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || IsPublicRoute(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ No authorization header for %s %s", r.Method, r.URL.Path)
			writeError(w, "Oturum açmanız gerekiyor.", http.StatusUnauthorized)
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" || bearerToken[1] == "" {
			log.Printf("❌ Invalid authorization format for %s %s", r.Method, r.URL.Path)
			writeError(w, "Geçersiz yetkilendirme başlığı.", http.StatusUnauthorized)
			return
		}

		session, err := am.authenticator.Authenticate(r.Context(), bearerToken[1])
		if err != nil {
			log.Printf("❌ Invalid session for %s %s: %v", r.Method, r.URL.Path, err)
			writeError(w, "Oturumunuz geçersiz veya süresi dolmuş.", http.StatusUnauthorized)
			return
		}

		r = r.WithContext(auth.WithSession(r.Context(), session))
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
