package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/session"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newSessions(t *testing.T, clock *fakeClock, revoked session.RevocationList) *session.Sessions {
	t.Helper()
	s, err := session.NewSessions(session.Config{
		Secret:    testSecret,
		MaxAge:    30 * 24 * time.Hour,
		UpdateAge: 24 * time.Hour,
	}, clock.Now, revoked)
	require.NoError(t, err)
	return s
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

var alice = models.Identity{ID: "u1", Email: "a@x.io", Name: "Alice"}

// corrupt flips one character in the middle of the payload segment.
func corrupt(token string) string {
	parts := strings.Split(token, ".")
	p := []byte(parts[1])
	i := len(p) / 2
	if p[i] == 'A' {
		p[i] = 'B'
	} else {
		p[i] = 'A'
	}
	parts[1] = string(p)
	return strings.Join(parts, ".")
}

func TestNewSessions_RejectsShortSecret(t *testing.T) {
	_, err := session.NewSessions(session.Config{
		Secret: []byte("short"),
		MaxAge: time.Hour,
	}, nil, nil)
	require.Error(t, err)
}

func TestNewSessions_RejectsUpdateAgeBeyondMaxAge(t *testing.T) {
	_, err := session.NewSessions(session.Config{
		Secret:    testSecret,
		MaxAge:    time.Hour,
		UpdateAge: 2 * time.Hour,
	}, nil, nil)
	require.Error(t, err)
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)

	tok, err := s.Issue(alice)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.Equal(t, clock.Now().Add(30*24*time.Hour), tok.ExpiresAt)

	v, err := s.Validate(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, alice, v.Identity)
	assert.Equal(t, tok.ID, v.TokenID)
	assert.Nil(t, v.Refreshed)
}

func TestIssue_RequiresIdentityID(t *testing.T) {
	s := newSessions(t, newClock(), nil)
	_, err := s.Issue(models.Identity{Email: "a@x.io"})
	require.Error(t, err)
}

func TestValidate_Malformed(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	other, err := session.NewSessions(session.Config{
		Secret:    []byte("fedcba9876543210fedcba9876543210"),
		MaxAge:    time.Hour,
		UpdateAge: time.Minute,
	}, clock.Now, nil)
	require.NoError(t, err)
	foreign, err := other.Issue(alice)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"corrupted":      corrupt(tok.Value),
		"foreign secret": foreign.Value,
		"alg none":       "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ1MSJ9.",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Validate(raw)
			require.ErrorIs(t, err, session.ErrMalformed)
		})
	}
}

func TestValidate_Expired(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	clock.Advance(31 * 24 * time.Hour)

	_, err = s.Validate(tok.Value)
	require.ErrorIs(t, err, session.ErrExpired)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	clock.t = tok.ExpiresAt
	v, err := s.Validate(tok.Value)
	require.NoError(t, err, "a token is still valid at its expiry instant")
	assert.Equal(t, alice.ID, v.Identity.ID)

	clock.Advance(time.Nanosecond)
	_, err = s.Validate(tok.Value)
	require.ErrorIs(t, err, session.ErrExpired)

	clock.t = tok.ExpiresAt.Add(time.Second)
	_, err = s.Validate(tok.Value)
	require.ErrorIs(t, err, session.ErrExpired)
}

func TestValidate_ForgedExpiredTokenIsMalformed(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	clock.Advance(31 * 24 * time.Hour)

	_, err = s.Validate(corrupt(tok.Value))
	require.ErrorIs(t, err, session.ErrMalformed)
}

func TestValidate_NoRefreshWithinUpdateAge(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)

	v, err := s.Validate(tok.Value)
	require.NoError(t, err)
	assert.Nil(t, v.Refreshed)
}

func TestValidate_RefreshesPastUpdateAge(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	v, err := s.Validate(tok.Value)
	require.NoError(t, err)
	require.NotNil(t, v.Refreshed)
	assert.Equal(t, alice, v.Identity)
	assert.NotEqual(t, tok.Value, v.Refreshed.Value)
	assert.True(t, v.Refreshed.ExpiresAt.After(tok.ExpiresAt))
	assert.Equal(t, clock.Now().Add(30*24*time.Hour), v.Refreshed.ExpiresAt)

	refreshed, err := s.Validate(v.Refreshed.Value)
	require.NoError(t, err)
	assert.Equal(t, alice, refreshed.Identity)
	assert.Nil(t, refreshed.Refreshed)

	// The superseded token keeps working until its own expiry.
	again, err := s.Validate(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, alice, again.Identity)
}

func TestValidate_Revoked(t *testing.T) {
	clock := newClock()
	revocations := session.NewRevocations(clock.Now)
	s := newSessions(t, clock, revocations)

	tok, err := s.Issue(alice)
	require.NoError(t, err)
	other, err := s.Issue(alice)
	require.NoError(t, err)

	s.Revoke(tok.ID, tok.ExpiresAt)

	_, err = s.Validate(tok.Value)
	require.ErrorIs(t, err, session.ErrRevoked)

	_, err = s.Validate(other.Value)
	require.NoError(t, err)
}

func TestRevoke_WithoutListIsNoop(t *testing.T) {
	s := newSessions(t, newClock(), nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	s.Revoke(tok.ID, tok.ExpiresAt)

	_, err = s.Validate(tok.Value)
	require.NoError(t, err)
}

func TestValidate_AnySingleCharacterMutationIsMalformed(t *testing.T) {
	clock := newClock()
	s := newSessions(t, clock, nil)
	tok, err := s.Issue(alice)
	require.NoError(t, err)

	for i := 0; i < len(tok.Value); i++ {
		if tok.Value[i] == '.' {
			continue
		}
		b := []byte(tok.Value)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, err := s.Validate(string(b))
		require.ErrorIs(t, err, session.ErrMalformed, "mutation at %d", i)
	}
}
