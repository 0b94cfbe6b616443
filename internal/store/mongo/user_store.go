package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
)

type UserStore struct {
	users *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{users: db.Collection(usersCollection)}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	return mapError(err)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *UserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: userID}})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}
