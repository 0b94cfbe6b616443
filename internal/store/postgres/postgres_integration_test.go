package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/EV-Todo/internal/db"
	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
	"github.com/EmpoweredVote/EV-Todo/internal/store/postgres"
)

// testDB is nil when DATABASE_URL is not set.
var testDB *gorm.DB

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../../.env.local")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	d, err := db.Connect(dsn, zerolog.Nop())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := postgres.Migrate(d); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testDB = d

	code := m.Run()
	_ = db.Close(d)
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
}

func createUser(t *testing.T, users *postgres.UserStore) *models.User {
	t.Helper()
	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()).String(),
		Email:        fmt.Sprintf("it_%s@example.com", uuid.New().String()[:8]),
		Name:         "Integration",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.Create(context.Background(), user))
	t.Cleanup(func() {
		testDB.Where("user_id = ?", user.UserID).Delete(&models.Todo{})
		testDB.Where("user_id = ?", user.UserID).Delete(&models.User{})
	})
	return user
}

func TestUserStore_DuplicateEmailRejected(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	users := postgres.NewUserStore(testDB)

	user := createUser(t, users)

	dup := &models.User{UserID: uuid.Must(uuid.NewV7()).String(), Email: user.Email, PasswordHash: "x"}
	require.ErrorIs(t, users.Create(ctx, dup), store.ErrDuplicateEmail)

	got, err := users.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.UserID, got.UserID)
}

func TestUserStore_NotFound(t *testing.T) {
	requireDB(t)
	users := postgres.NewUserStore(testDB)

	_, err := users.FindByEmail(context.Background(), "missing-"+uuid.New().String()+"@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTodoStore_Lifecycle(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	users := postgres.NewUserStore(testDB)
	todos := postgres.NewTodoStore(testDB)

	owner := createUser(t, users)
	other := createUser(t, users)

	todo := &models.Todo{
		TodoID:    uuid.Must(uuid.NewV7()).String(),
		UserID:    owner.UserID,
		Content:   "write tests",
		CreatedAt: time.Now(),
	}
	require.NoError(t, todos.Create(ctx, todo))

	important := true
	_, err := todos.Update(ctx, other.UserID, todo.TodoID, models.TodoPatch{Important: &important})
	require.ErrorIs(t, err, store.ErrNotFound)

	updated, err := todos.Update(ctx, owner.UserID, todo.TodoID, models.TodoPatch{Important: &important})
	require.NoError(t, err)
	require.True(t, updated.Important)

	list, err := todos.List(ctx, owner.UserID, models.FilterImportant)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = todos.List(ctx, other.UserID, models.FilterAll)
	require.NoError(t, err)
	require.Empty(t, list)

	require.ErrorIs(t, todos.Delete(ctx, other.UserID, todo.TodoID), store.ErrNotFound)
	require.NoError(t, todos.Delete(ctx, owner.UserID, todo.TodoID))
}
