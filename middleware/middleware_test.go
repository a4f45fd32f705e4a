package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-admin/auth"
)

type fakeAuthenticator struct {
	sessions map[string]*auth.Session
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*auth.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, errors.New("unknown token")
}

func sessionEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := auth.SessionFromContext(r.Context()); s != nil {
			w.Write([]byte(s.Email))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func TestAuthMiddleware(t *testing.T) {
	am := NewAuthMiddleware(&fakeAuthenticator{sessions: map[string]*auth.Session{
		"good": {ID: "s1", UserID: "u1", Email: "admin@example.com"},
	}})
	handler := am.AuthMiddleware(sessionEcho())

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"public health", "/health", "", http.StatusOK, "anonymous"},
		{"public login", "/api/auth/login", "", http.StatusOK, "anonymous"},
		{"public docs", "/api/docs/", "", http.StatusOK, "anonymous"},
		{"missing header", "/api/classes", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/api/classes", "Basic abc", http.StatusUnauthorized, ""},
		{"empty token", "/api/classes", "Bearer ", http.StatusUnauthorized, ""},
		{"unknown token", "/api/classes", "Bearer bad", http.StatusUnauthorized, ""},
		{"valid token", "/api/classes", "Bearer good", http.StatusOK, "admin@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestWriteErrorEscapesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, `"Sabah" grubu \ kapalı`, http.StatusTooManyRequests)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `"Sabah" grubu \ kapalı`, body.Error)
}

func TestCORSAnswersPreflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/classes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/classes", nil))
	assert.True(t, called)
}

func TestLoggingKeepsStatus(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestLoginRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter, err := NewLoginRateLimiter(client, 2, nil)
	require.NoError(t, err)
	limiter.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1235"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1236"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))

	key := limiter.key("10.0.0.1")
	ttl := mr.TTL(key)
	assert.Equal(t, time.Minute, ttl)

	limiter.now = func() time.Time { return time.Unix(1_700_000_000+60, 0) }
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1237"))
}

func TestLoginRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	limiter, err := NewLoginRateLimiter(client, 1, nil)
	require.NoError(t, err)
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRateLimiterIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter, err := NewLoginRateLimiter(client, 2, nil)
	require.NoError(t, err)
	limiter.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	blocked := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4444"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			blocked++
		}
	}
	assert.Equal(t, 18, blocked)
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "::ffff:127.0.0.1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		remote  string
		xff     string
		trusted bool
		want    string
	}{
		{"remote only", "192.168.1.5:5555", "", false, "192.168.1.5"},
		{"forwarded for from untrusted peer", "203.0.113.9:4444", "198.51.100.1", true, "203.0.113.9"},
		{"no proxies configured", "10.0.0.5:80", "198.51.100.1", false, "10.0.0.5"},
		{"trusted proxy", "10.0.0.5:80", " 203.0.113.7 , 10.0.0.1", true, "203.0.113.7"},
		{"spoofed left entry", "10.0.0.5:80", "198.51.100.1, 203.0.113.7", true, "203.0.113.7"},
		{"mapped address", "127.0.0.1:80", "::ffff:203.0.113.8", true, "203.0.113.8"},
		{"hop with port", "10.0.0.5:80", "203.0.113.7:5000", true, "203.0.113.7"},
		{"trusted proxy without header", "10.0.0.5:80", "", true, "10.0.0.5"},
		{"malformed hop", "10.0.0.5:80", "garbage, 10.0.0.2", true, "10.0.0.2"},
		{"ipv6 remote", "[::1]:8080", "", false, "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			var proxies []netip.Prefix
			if tt.trusted {
				proxies = trusted
			}
			assert.Equal(t, tt.want, ClientIP(req, proxies))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"10.1.2.3/8", " 192.168.0.1 ", "", "fd00::/8"})
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.0.1/32"),
		netip.MustParsePrefix("fd00::/8"),
	}, prefixes)

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestIsPublicRoute(t *testing.T) {
	for path, want := range map[string]bool{
		"/":                      true,
		"/health":                true,
		"/api/auth/login":        true,
		"/api/docs/":             true,
		"/api/docs/openapi.yaml": true,
		"/api/auth/me":           false,
		"/api/auth/logout":       false,
		"/api/docsx":             false,
		"/api/classes":           false,
	} {
		assert.Equal(t, want, IsPublicRoute(path), path)
	}
}
