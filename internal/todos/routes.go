package todos

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/EV-Todo/internal/middleware"
	"github.com/EmpoweredVote/EV-Todo/internal/session"
)

func SetupRoutes(h *Handler, validator middleware.SessionValidator, cookies session.Cookies) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(validator, cookies))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
