package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/EmpoweredVote/EV-Todo/internal/auth"
	"github.com/EmpoweredVote/EV-Todo/internal/config"
	"github.com/EmpoweredVote/EV-Todo/internal/logger"
	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/seeds"
	"github.com/EmpoweredVote/EV-Todo/internal/server"
)

// CLI flags
var (
	configPath = flag.String("config", "", "Path to a YAML config file")
	csvPath    = flag.String("csv", "", "CSV of todos to seed (default: bundled demo todos)")
	email      = flag.String("email", "demo@example.com", "Demo user email")
	password   = flag.String("password", "demo123", "Demo user password")
	name       = flag.String("name", "Demo User", "Demo user display name")
)

var errMemoryStore = errors.New("the memory store does not outlive this process; set STORE_TYPE to postgres or mongo")

func main() {
	flag.Parse()
	_ = godotenv.Load(".env.local")

	log := logger.Setup(true)
	if err := run(log.WithContext(context.Background())); err != nil {
		log.Error().Err(err).Msg("seeding failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	user := seeds.DemoUser{Name: *name, Email: *email, Password: *password}
	return seed(ctx, cfg, *csvPath, user)
}

func seed(ctx context.Context, cfg config.Config, csv string, user seeds.DemoUser) error {
	if cfg.Store.Type == config.StoreMemory {
		return errMemoryStore
	}

	todos, err := loadTodos(csv)
	if err != nil {
		return fmt.Errorf("reading todos: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	stores, err := server.OpenStores(ctx, cfg, *zerolog.Ctx(ctx))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = stores.Close(context.Background()) }()

	return seeds.SeedAll(ctx, stores, auth.BcryptHasher{Cost: cfg.BcryptCost}, user, todos)
}

func loadTodos(path string) ([]models.Todo, error) {
	if path == "" {
		return seeds.DefaultTodos()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seeds.ParseTodosCSV(f)
}
