package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"

	"baseline_academy/internal/common"
)

// Claims is the identity carried inside a session token.
type Claims struct {
	UserID    int64
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256 session tokens.
type TokenCodec struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

// WithClock returns a copy of the codec that stamps tokens using now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// JWTAuth exposes the underlying verifier for jwtauth middleware.
func (c *TokenCodec) JWTAuth() *jwtauth.JWTAuth { return c.auth }

func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue mints a token for the given identity.
func (c *TokenCodec) Issue(userID int64, username, role string) (string, error) {
	issued := c.now()
	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"role":     role,
	}
	jwtauth.SetIssuedAt(claims, issued)
	jwtauth.SetExpiry(claims, issued.Add(c.ttl))

	_, tokenString, err := c.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("encoding token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Every failure is reported as common.ErrInvalidToken.
func (c *TokenCodec) Verify(ctx context.Context, tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(c.auth, tokenString)
	if err != nil || token == nil {
		return Claims{}, common.ErrInvalidToken
	}
	m, err := token.AsMap(ctx)
	if err != nil {
		return Claims{}, common.ErrInvalidToken
	}
	return ClaimsFromMap(m)
}

// ClaimsFromMap reads the identity claims out of a decoded token map,
// as produced by jwtauth.FromContext.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	id, err := int64Claim(m["id"])
	if err != nil {
		return Claims{}, common.ErrInvalidToken
	}
	username, ok := m["username"].(string)
	if !ok || username == "" {
		return Claims{}, common.ErrInvalidToken
	}
	role, _ := m["role"].(string)

	return Claims{
		UserID:    id,
		Username:  username,
		Role:      role,
		IssuedAt:  timeClaim(m["iat"]),
		ExpiresAt: timeClaim(m["exp"]),
	}, nil
}

func int64Claim(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, errors.New("id claim is missing or not a number")
	}
}

func timeClaim(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case float64:
		return time.Unix(int64(t), 0)
	case int64:
		return time.Unix(t, 0)
	}
	return time.Time{}
}
