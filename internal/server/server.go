// Package server wires configuration, stores and HTTP routes into the
// todo API handler.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/EmpoweredVote/EV-Todo/internal/auth"
	"github.com/EmpoweredVote/EV-Todo/internal/config"
	"github.com/EmpoweredVote/EV-Todo/internal/db"
	"github.com/EmpoweredVote/EV-Todo/internal/logger"
	"github.com/EmpoweredVote/EV-Todo/internal/middleware"
	"github.com/EmpoweredVote/EV-Todo/internal/session"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
	"github.com/EmpoweredVote/EV-Todo/internal/store/memory"
	mongostore "github.com/EmpoweredVote/EV-Todo/internal/store/mongo"
	"github.com/EmpoweredVote/EV-Todo/internal/store/postgres"
	"github.com/EmpoweredVote/EV-Todo/internal/todos"
	"github.com/EmpoweredVote/EV-Todo/internal/utils"
)

const requestTimeout = 30 * time.Second

// OpenStores connects the backend selected by cfg.Store.Type.
func OpenStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (store.Stores, error) {
	switch cfg.Store.Type {
	case config.StorePostgres:
		d, err := db.Connect(cfg.Store.DatabaseURL, log)
		if err != nil {
			return store.Stores{}, err
		}
		if err := postgres.Migrate(d); err != nil {
			_ = db.Close(d)
			return store.Stores{}, err
		}
		return postgres.New(d), nil
	case config.StoreMongo:
		return mongostore.Open(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	return store.Stores{}, fmt.Errorf("unknown store type %q", cfg.Store.Type)
}

// Options overrides collaborators for tests.
type Options struct {
	Now func() time.Time
}

// New builds the API handler.
func New(cfg config.Config, stores store.Stores, log zerolog.Logger, opts Options) (http.Handler, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var revocations session.RevocationList
	if cfg.Session.RevokeOnLogout {
		revocations = session.NewRevocations(now)
	}

	sessions, err := session.NewSessions(session.Config{
		Secret:    []byte(cfg.Session.Secret),
		MaxAge:    cfg.Session.MaxAge,
		UpdateAge: cfg.Session.UpdateAge,
	}, now, revocations)
	if err != nil {
		return nil, err
	}
	cookies := session.Cookies{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie,
		Now:    now,
	}

	csrf, err := middleware.CSRF(cfg.CORSOrigins)
	if err != nil {
		return nil, err
	}

	authHandler := auth.NewHandler(auth.HandlerConfig{
		Users:           stores.Users,
		Hasher:          auth.BcryptHasher{Cost: cfg.BcryptCost},
		Sessions:        sessions,
		Cookies:         cookies,
		RevokeOnLogout:  cfg.Session.RevokeOnLogout,
		ResolveIdentity: cfg.Session.ResolveIdentity,
		Now:             now,
	})
	todoHandler := todos.NewHandler(stores.Todos, now)
	limiter := middleware.NewLoginLimiter(cfg.Login.Rate, cfg.Login.Burst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(logger.HTTPRequests(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(csrf)

	r.Get("/", RootHandler)
	r.Mount("/auth", auth.SetupRoutes(authHandler, limiter))
	r.Mount("/api/todos", todos.SetupRoutes(todoHandler, sessions, cookies))

	return r, nil
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "Server is up!"})
}
