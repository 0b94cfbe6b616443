package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/EV-Todo/internal/middleware"
)

// SetupRoutes mounts register, login, logout and me. limiter may be nil.
func SetupRoutes(h *Handler, limiter *middleware.LoginLimiter) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/signup", h.Register)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Handler)
		}
		r.Post("/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(h.sessions, h.cookies))
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	return r
}
