// Package seeds loads demo data into any configured store.
package seeds

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/EmpoweredVote/EV-Todo/internal/auth"
	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

//go:embed data/todos.csv
var defaultTodos string

type DemoUser struct {
	Name     string
	Email    string
	Password string
}

// SeedAll creates the demo user and its todos. An existing user with the same
// email is left untouched and no todos are added.
func SeedAll(ctx context.Context, stores store.Stores, hasher auth.PasswordHasher, user DemoUser, todos []models.Todo) error {
	userID, created, err := SeedUser(ctx, stores.Users, hasher, user)
	if err != nil {
		return err
	}
	if !created {
		zerolog.Ctx(ctx).Warn().Str("email", user.Email).Msg("user exists, skipping todos")
		return nil
	}
	return SeedTodos(ctx, stores.Todos, userID, todos)
}

func SeedUser(ctx context.Context, users store.UserStore, hasher auth.PasswordHasher, u DemoUser) (string, bool, error) {
	existing, err := users.FindByEmail(ctx, u.Email)
	if err == nil {
		return existing.UserID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", false, fmt.Errorf("DB error on user %s: %w", u.Email, err)
	}

	hash, err := hasher.Hash(u.Password)
	if err != nil {
		return "", false, err
	}

	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()).String(),
		Email:        u.Email,
		Name:         strings.TrimSpace(u.Name),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		return "", false, fmt.Errorf("failed to create user %s: %w", u.Email, err)
	}

	zerolog.Ctx(ctx).Info().Str("email", u.Email).Msg("seeded user")
	return user.UserID, true, nil
}

func SeedTodos(ctx context.Context, todos store.TodoStore, userID string, items []models.Todo) error {
	base := time.Now().UTC()
	// Rows are listed newest first, so the first row gets the latest timestamp.
	for i := range items {
		t := items[i]
		t.TodoID = uuid.Must(uuid.NewV7()).String()
		t.UserID = userID
		t.CreatedAt = base.Add(-time.Duration(i) * time.Second)
		if err := todos.Create(ctx, &t); err != nil {
			return fmt.Errorf("failed to create todo %q: %w", t.Content, err)
		}
	}

	zerolog.Ctx(ctx).Info().Int("count", len(items)).Msg("seeded todos")
	return nil
}

// DefaultTodos returns the bundled demo todos.
func DefaultTodos() ([]models.Todo, error) {
	return ParseTodosCSV(strings.NewReader(defaultTodos))
}
