package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
)

var (
	// ErrSessionNotFound indicates the provided refresh token does not map to an active session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRefreshTokenExpired indicates the refresh token has expired and cannot be used.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	// ErrInvalidToken indicates a token that is malformed, forged or expired.
	ErrInvalidToken = errors.New("invalid token")
)

// SessionStore persists the refresh token currently issued to each user.
// A user holds at most one refresh token; issuing a new one replaces it.
// Rotate swaps oldToken for newToken atomically and returns ErrSessionNotFound
// when oldToken is no longer the stored one.
type SessionStore interface {
	Save(ctx context.Context, userID, refreshToken string) error
	Rotate(ctx context.Context, userID, oldToken, newToken string) error
	Find(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// Claims are carried by both access and refresh tokens. The subject is the user id.
type Claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Manager issues, verifies, rotates and revokes signed session tokens.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	store SessionStore

	NowFunc func() time.Time
}

// NewManager constructs a Manager that signs access and refresh tokens with separate secrets.
func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, store SessionStore) *Manager {
	if store == nil {
		panic("auth: session store must not be nil")
	}
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		store:         store,
		NowFunc:       time.Now,
	}
}

func (m *Manager) now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc().UTC()
	}
	return time.Now().UTC()
}

// Issue creates a new pair of access and refresh tokens for the provided user identifier
// and records the refresh token as the user's only valid one.
func (m *Manager) Issue(ctx context.Context, userID string) (models.SessionTokens, error) {
	if userID == "" {
		return models.SessionTokens{}, errors.New("user id must be provided")
	}

	tokens, err := m.mint(userID)
	if err != nil {
		return models.SessionTokens{}, err
	}
	if err := m.store.Save(ctx, userID, tokens.RefreshToken); err != nil {
		return models.SessionTokens{}, fmt.Errorf("store refresh token: %w", err)
	}
	return tokens, nil
}

func (m *Manager) mint(userID string) (models.SessionTokens, error) {
	now := m.now()
	tokens := models.SessionTokens{
		AccessExpiresAt:  now.Add(m.accessTTL),
		RefreshExpiresAt: now.Add(m.refreshTTL),
	}

	var err error
	tokens.AccessToken, err = m.sign(userID, tokenKindAccess, now, tokens.AccessExpiresAt, m.accessSecret)
	if err != nil {
		return models.SessionTokens{}, err
	}
	tokens.RefreshToken, err = m.sign(userID, tokenKindRefresh, now, tokens.RefreshExpiresAt, m.refreshSecret)
	if err != nil {
		return models.SessionTokens{}, err
	}
	return tokens, nil
}

// Refresh exchanges a refresh token for a new session token pair. The token must
// match the one stored for its user and is swapped out atomically, so every refresh
// token is single use even under concurrent requests.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	if refreshToken == "" {
		return models.SessionTokens{}, ErrSessionNotFound
	}

	claims, err := m.parse(refreshToken, tokenKindRefresh, m.refreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.SessionTokens{}, ErrRefreshTokenExpired
		}
		return models.SessionTokens{}, ErrInvalidToken
	}

	tokens, err := m.mint(claims.Subject)
	if err != nil {
		return models.SessionTokens{}, err
	}
	if err := m.store.Rotate(ctx, claims.Subject, refreshToken, tokens.RefreshToken); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return models.SessionTokens{}, ErrSessionNotFound
		}
		return models.SessionTokens{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	return tokens, nil
}

// Verify validates an access token and returns the user id it was issued to.
func (m *Manager) Verify(accessToken string) (string, error) {
	claims, err := m.parse(accessToken, tokenKindAccess, m.accessSecret)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Revoke removes the refresh token stored for the user.
func (m *Manager) Revoke(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return m.store.Delete(ctx, userID)
}

func (m *Manager) sign(userID, kind string, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (m *Manager) parse(token, kind string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
