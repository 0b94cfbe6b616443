// Package memory provides in-memory store backends for tests and local development.
package memory

import (
	"context"

	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

func New() store.Stores {
	return store.Stores{
		Users: NewUserStore(),
		Todos: NewTodoStore(),
		Close: func(context.Context) error { return nil },
	}
}
