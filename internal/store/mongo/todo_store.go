package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
)

type TodoStore struct {
	todos *mongo.Collection
}

func NewTodoStore(db *mongo.Database) *TodoStore {
	return &TodoStore{todos: db.Collection(todosCollection)}
}

func (s *TodoStore) Create(ctx context.Context, todo *models.Todo) error {
	_, err := s.todos.InsertOne(ctx, todo)
	return mapError(err)
}

func (s *TodoStore) List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	q := bson.D{{Key: "user_id", Value: userID}}
	switch filter {
	case models.FilterPending:
		q = append(q, bson.E{Key: "task_done", Value: false})
	case models.FilterImportant:
		q = append(q, bson.E{Key: "important", Value: true})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.todos.Find(ctx, q, opts)
	if err != nil {
		return nil, mapError(err)
	}

	todos := []models.Todo{}
	if err := cur.All(ctx, &todos); err != nil {
		return nil, mapError(err)
	}
	return todos, nil
}

func (s *TodoStore) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (*models.Todo, error) {
	filter := ownedBy(userID, todoID)

	set := bson.D{}
	if patch.Important != nil {
		set = append(set, bson.E{Key: "important", Value: *patch.Important})
	}
	if patch.Done != nil {
		set = append(set, bson.E{Key: "task_done", Value: *patch.Done})
	}

	var todo models.Todo
	if len(set) == 0 {
		if err := s.todos.FindOne(ctx, filter).Decode(&todo); err != nil {
			return nil, mapError(err)
		}
		return &todo, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.todos.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&todo)
	if err != nil {
		return nil, mapError(err)
	}
	return &todo, nil
}

func (s *TodoStore) Delete(ctx context.Context, userID, todoID string) error {
	res, err := s.todos.DeleteOne(ctx, ownedBy(userID, todoID))
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func ownedBy(userID, todoID string) bson.D {
	return bson.D{{Key: "_id", Value: todoID}, {Key: "user_id", Value: userID}}
}
