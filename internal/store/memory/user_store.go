package memory

import (
	"context"
	"sync"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

// UserStore implements store.UserStore in memory. Data is lost on restart.
type UserStore struct {
	mu sync.RWMutex

	users   map[string]*models.User // user_id -> User
	byEmail map[string]string       // email -> user_id
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return store.ErrDuplicateEmail
	}

	clone := *user
	s.users[user.UserID] = &clone
	s.byEmail[user.Email] = user.UserID

	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}

	clone := *s.users[id]
	return &clone, nil
}

func (s *UserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}

	clone := *user
	return &clone, nil
}

// Delete removes a user. Only tests call it.
func (s *UserStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		delete(s.byEmail, user.Email)
		delete(s.users, userID)
	}
}
