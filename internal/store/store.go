package store

import (
	"context"
	"errors"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
)

// Sentinel errors shared by every backend.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnavailable    = errors.New("store unavailable")
	ErrConflict       = errors.New("record already exists")
)

// UsersEmailIndex names the unique index on the user email in every backend.
// Only a collision on it is reported as ErrDuplicateEmail; other unique keys
// yield ErrConflict.
const UsersEmailIndex = "idx_users_email"

type UserStore interface {
	// Create inserts a user. It returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

// TodoStore scopes every read and write to the owning user. A todo owned by
// someone else is reported as ErrNotFound.
type TodoStore interface {
	Create(ctx context.Context, todo *models.Todo) error
	List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error)
	Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
}

// Stores groups the backends the server needs.
type Stores struct {
	Users UserStore
	Todos TodoStore
	Close func(ctx context.Context) error
}
