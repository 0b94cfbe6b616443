package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(d *gorm.DB) *UserStore {
	return &UserStore{db: d}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return mapError(s.db.WithContext(ctx).Create(user).Error)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}
