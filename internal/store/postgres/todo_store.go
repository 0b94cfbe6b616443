package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

type TodoStore struct {
	db *gorm.DB
}

func NewTodoStore(d *gorm.DB) *TodoStore {
	return &TodoStore{db: d}
}

func (s *TodoStore) Create(ctx context.Context, todo *models.Todo) error {
	return mapError(s.db.WithContext(ctx).Create(todo).Error)
}

func (s *TodoStore) List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	switch filter {
	case models.FilterPending:
		q = q.Where("task_done = ?", false)
	case models.FilterImportant:
		q = q.Where("important = ?", true)
	}

	todos := []models.Todo{}
	if err := q.Order("created_at DESC, todo_id DESC").Find(&todos).Error; err != nil {
		return nil, mapError(err)
	}
	return todos, nil
}

func (s *TodoStore) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (*models.Todo, error) {
	updates := map[string]any{}
	if patch.Important != nil {
		updates["important"] = *patch.Important
	}
	if patch.Done != nil {
		updates["task_done"] = *patch.Done
	}

	var todo models.Todo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&models.Todo{}).
				Where("todo_id = ? AND user_id = ?", todoID, userID).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return store.ErrNotFound
			}
		}
		return tx.First(&todo, "todo_id = ? AND user_id = ?", todoID, userID).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &todo, nil
}

func (s *TodoStore) Delete(ctx context.Context, userID, todoID string) error {
	res := s.db.WithContext(ctx).
		Where("todo_id = ? AND user_id = ?", todoID, userID).
		Delete(&models.Todo{})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
