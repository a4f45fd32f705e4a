package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-admin/database/dbtest"
	"school-admin/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 2)
	user := &models.User{ID: "u1", Email: "admin@example.com"}
	now := time.Now()

	token, expiresAt, err := svc.GenerateToken(user, "session-1", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(2*time.Hour), expiresAt, time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "session-1", claims.SessionID())
}

func TestJWTRejections(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	user := &models.User{ID: "u1", Email: "admin@example.com"}

	expired, _, err := svc.GenerateToken(user, "s", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	otherKey, _, err := NewJWTService("other-secret", 1).GenerateToken(user, "s", time.Now())
	require.NoError(t, err)
	_, err = svc.ValidateToken(otherKey)
	assert.Error(t, err)

	noSession, _, err := svc.GenerateToken(user, "", time.Now())
	require.NoError(t, err)
	_, err = svc.ValidateToken(noSession)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.Error(t, err)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisSessionStore(t *testing.T) {
	mr, client := newRedis(t)
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	session := &Session{ID: "abc", UserID: "u1", Email: "admin@example.com", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Create(ctx, session, time.Hour))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded.UserID)
	assert.Equal(t, "admin@example.com", loaded.Email)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Create(ctx, session, time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionContext(t *testing.T) {
	assert.Nil(t, SessionFromContext(context.Background()))

	s := &Session{ID: "x"}
	assert.Same(t, s, SessionFromContext(WithSession(context.Background(), s)))
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	backend := dbtest.New(t)
	mr, client := newRedis(t)
	svc := NewService(backend.DB, NewJWTService("test-secret", 24), NewRedisSessionStore(client))

	_, err := svc.CreateUser(context.Background(), " Admin@Example.com ", "secret123")
	require.NoError(t, err)
	return svc, mr
}

func TestSignInAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, session, err := svc.SignIn(ctx, "ADMIN@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, session.ExpiresAt, resp.ExpiresAt)

	authenticated, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, authenticated.ID)
	assert.Equal(t, resp.User.ID, authenticated.UserID)

	user, err := svc.CurrentUser(WithSession(ctx, authenticated))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)

	_, err = svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.SignIn(ctx, "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutInvalidatesToken(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	resp, session, err := svc.SignIn(ctx, "admin@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+session.ID))

	require.NoError(t, svc.SignOut(ctx, session.ID))
	assert.False(t, mr.Exists("session:"+session.ID))

	_, err = svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	assert.ErrorIs(t, svc.SignOut(ctx, ""), ErrNotSignedIn)
}

func TestAuthenticateRejectsForeignSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, session, err := svc.SignIn(ctx, "admin@example.com", "secret123")
	require.NoError(t, err)

	// A token for another user that reuses a live session id.
	forged, _, err := svc.jwt.GenerateToken(&models.User{ID: "someone-else", Email: "x@example.com"}, session.ID, time.Now())
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
