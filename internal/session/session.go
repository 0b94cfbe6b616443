// Package session issues and validates the signed, time-bounded session
// tokens carried in the session cookie.
//
// Tokens are HS256 JWTs holding the user id (sub), the display attributes at
// issue time (email, name), iat, exp and a token id (jti). Nothing is stored
// server-side except the optional revocation list consulted on validation.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
)

var (
	ErrMalformed = errors.New("malformed session token")
	ErrExpired   = errors.New("session expired")
	ErrRevoked   = errors.New("session revoked")
)

// MinSecretLength is the shortest accepted HMAC-SHA256 key.
const MinSecretLength = 32

// Clock returns the current time.
type Clock func() time.Time

type Config struct {
	Secret []byte
	// MaxAge is the lifetime of a token from its issued-at time.
	MaxAge time.Duration
	// UpdateAge is how old a token may get before validation re-issues it.
	UpdateAge time.Duration
}

// Claims is the signed claim set of a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.Subject, Email: c.Email, Name: c.Name}
}

// Token is a freshly signed session token.
type Token struct {
	Value     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Validation is the outcome of a successful Validate. Refreshed is set when
// the token was past UpdateAge and a replacement was issued.
type Validation struct {
	Identity  models.Identity
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Refreshed *Token
}

// RevocationList records token ids invalidated before their natural expiry.
type RevocationList interface {
	Revoke(tokenID string, until time.Time)
	IsRevoked(tokenID string) bool
}

type Sessions struct {
	secret    []byte
	maxAge    time.Duration
	updateAge time.Duration
	now       Clock
	revoked   RevocationList
	parser    *jwt.Parser
}

// NewSessions builds an issuer/validator. now defaults to time.Now; revoked
// may be nil, in which case logout only clears the client cookie.
func NewSessions(cfg Config, now Clock, revoked RevocationList) (*Sessions, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	}
	if cfg.MaxAge <= 0 {
		return nil, errors.New("session max age must be greater than 0")
	}
	if cfg.UpdateAge < 0 || cfg.UpdateAge > cfg.MaxAge {
		return nil, errors.New("session update age must be between 0 and the max age")
	}
	if now == nil {
		now = time.Now
	}

	return &Sessions{
		secret:    cfg.Secret,
		maxAge:    cfg.MaxAge,
		updateAge: cfg.UpdateAge,
		now:       now,
		revoked:   revoked,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(time.Second),
			jwt.WithTimeFunc(now),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// Issue signs a new token for identity, valid for MaxAge from now.
func (s *Sessions) Issue(identity models.Identity) (Token, error) {
	if identity.ID == "" {
		return Token{}, errors.New("identity has no id")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Token{}, fmt.Errorf("failed to generate token id: %w", err)
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
		Email: identity.Email,
		Name:  identity.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return Token{
		Value:     signed,
		ID:        claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate checks the signature and expiry of raw and returns the identity it
// carries. The signature is verified before expiry, so a forged token reports
// ErrMalformed even when its claimed expiry has passed.
func (s *Sessions) Validate(raw string) (Validation, error) {
	if raw == "" {
		return Validation{}, ErrMalformed
	}

	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Validation{}, ErrExpired
		}
		return Validation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// The parser's leeway keeps exp itself valid; anything past it has expired.
	if s.now().After(claims.ExpiresAt.Time) {
		return Validation{}, ErrExpired
	}

	if claims.Subject == "" || claims.IssuedAt == nil {
		return Validation{}, fmt.Errorf("%w: missing subject or issued-at", ErrMalformed)
	}

	if s.revoked != nil && claims.ID != "" && s.revoked.IsRevoked(claims.ID) {
		return Validation{}, ErrRevoked
	}

	v := Validation{
		Identity:  claims.Identity(),
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	if s.now().Sub(v.IssuedAt) > s.updateAge {
		tok, err := s.Issue(v.Identity)
		if err != nil {
			return Validation{}, err
		}
		v.Refreshed = &tok
	}

	return v, nil
}

// Revoke invalidates a token id until its expiry. It is a no-op without a
// revocation list.
func (s *Sessions) Revoke(tokenID string, expiresAt time.Time) {
	if s.revoked == nil || tokenID == "" {
		return
	}
	s.revoked.Revoke(tokenID, expiresAt)
}

func (s *Sessions) MaxAge() time.Duration { return s.maxAge }
