package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

// fallbackDummyHash is a cost-10 bcrypt hash used when the configured hasher
// cannot produce the decoy itself.
const fallbackDummyHash = "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Verifier checks an email/password pair against the user store.
type Verifier struct {
	users  UserFinder
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewVerifier(users UserFinder, hasher PasswordHasher) *Verifier {
	return &Verifier{users: users, hasher: hasher}
}

// Verify returns the identity of the user owning email when password matches
// the stored hash. Email is matched exactly. Failures are ErrNoSuchUser,
// ErrInvalidCredentials or ErrInfrastructureUnavailable.
func (v *Verifier) Verify(ctx context.Context, email, password string) (models.Identity, error) {
	log := zerolog.Ctx(ctx)

	if email == "" || password == "" {
		return models.Identity{}, ErrInvalidCredentials
	}

	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a comparable amount of time so unknown emails are not
			// distinguishable by latency.
			_ = v.hasher.Compare(v.dummy(log), password)
			log.Debug().Msg("login for unknown email")
			return models.Identity{}, ErrNoSuchUser
		}
		log.Error().Err(err).Msg("user lookup failed")
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInfrastructureUnavailable, err)
	}

	if err := v.hasher.Compare(user.PasswordHash, password); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			log.Warn().Err(err).Str("user_id", user.UserID).Msg("stored password hash is unusable")
		}
		return models.Identity{}, ErrInvalidCredentials
	}

	return user.Identity(), nil
}

func (v *Verifier) dummy(log *zerolog.Logger) string {
	v.dummyOnce.Do(func() {
		h, err := v.hasher.Hash("not-a-real-password")
		if err != nil {
			log.Warn().Err(err).Msg("failed to hash decoy password, using built-in hash")
			h = fallbackDummyHash
		}
		v.dummyHash = h
	})
	return v.dummyHash
}
