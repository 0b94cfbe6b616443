package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

// TodoStore implements store.TodoStore in memory. Data is lost on restart.
type TodoStore struct {
	mu sync.RWMutex

	todos map[string]*models.Todo // todo_id -> Todo
}

func NewTodoStore() *TodoStore {
	return &TodoStore{todos: make(map[string]*models.Todo)}
}

func (s *TodoStore) Create(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *todo
	s.todos[todo.TodoID] = &clone
	return nil
}

func (s *TodoStore) List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Todo{}
	for _, t := range s.todos {
		if t.UserID == userID && filter.Matches(t) {
			out = append(out, *t)
		}
	}

	// newest first, id as tie-breaker for a stable order
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TodoID > out[j].TodoID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *TodoStore) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[todoID]
	if !ok || t.UserID != userID {
		return nil, store.ErrNotFound
	}

	patch.Apply(t)
	clone := *t
	return &clone, nil
}

func (s *TodoStore) Delete(ctx context.Context, userID, todoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[todoID]
	if !ok || t.UserID != userID {
		return store.ErrNotFound
	}

	delete(s.todos, todoID)
	return nil
}
