package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-admin/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotSignedIn        = errors.New("not signed in")
)

// Service signs console users in and out.
type Service struct {
	db       *gorm.DB
	jwt      *JWTService
	sessions SessionStore
	now      func() time.Time
}

func NewService(db *gorm.DB, jwtService *JWTService, sessions SessionStore) *Service {
	return &Service{
		db:       db,
		jwt:      jwtService,
		sessions: sessions,
		now:      time.Now,
	}
}

// SignIn checks the password and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.LoginResponse, *Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("❌ User not found: %s", email)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !CheckPassword(password, user.Password) {
		log.Printf("❌ Invalid password for user: %s", email)
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
	}

	token, expiresAt, err := s.jwt.GenerateToken(&user, session.ID, now)
	if err != nil {
		return nil, nil, err
	}
	session.ExpiresAt = expiresAt

	if err := s.sessions.Create(ctx, session, s.jwt.Expiry()); err != nil {
		return nil, nil, err
	}

	log.Printf("✅ User signed in: %s", user.Email)
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, session, nil
}

// SignOut ends the session; tokens bound to it stop working.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrNotSignedIn
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	log.Printf("👋 Session %s signed out", sessionID)
	return nil
}

// Authenticate resolves a bearer token to a live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, ErrNotSignedIn
	}
	return session, nil
}

// CurrentUser loads the user behind the session in ctx.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	session := SessionFromContext(ctx)
	if session == nil {
		return nil, ErrNotSignedIn
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", session.UserID).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// CreateUser adds a console user; used by cmd/add_user.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: strings.ToLower(strings.TrimSpace(email)), Password: hashed}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}
