package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/EmpoweredVote/EV-Todo/internal/auth"
)

var hasher = auth.BcryptHasher{Cost: bcrypt.MinCost}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	require.NoError(t, hasher.Compare(hash, "s3cret"))
	require.ErrorIs(t, hasher.Compare(hash, "S3cret"), auth.ErrInvalidCredentials)
}

func TestBcryptHasher_TooLong(t *testing.T) {
	_, err := hasher.Hash(strings.Repeat("x", 73))
	require.ErrorIs(t, err, auth.ErrPasswordTooLong)
}

func TestBcryptHasher_CorruptHash(t *testing.T) {
	err := hasher.Compare("not-a-bcrypt-hash", "s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
