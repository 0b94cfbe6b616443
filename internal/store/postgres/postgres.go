// Package postgres implements the record stores on top of gorm and Postgres.
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/EV-Todo/internal/db"
	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

const Schema = "app_todo"

// Migrate creates the schema and tables. It is idempotent.
func Migrate(d *gorm.DB) error {
	if err := db.EnsureSchema(d, Schema); err != nil {
		return fmt.Errorf("failed to ensure schema %s: %w", Schema, err)
	}

	if err := d.AutoMigrate(&models.User{}, &models.Todo{}); err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}
	return nil
}

func New(d *gorm.DB) store.Stores {
	return store.Stores{
		Users: NewUserStore(d),
		Todos: NewTodoStore(d),
		Close: func(context.Context) error { return db.Close(d) },
	}
}
