package middleware

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/EmpoweredVote/EV-Todo/internal/session"
	"github.com/EmpoweredVote/EV-Todo/internal/utils"
)

type SessionValidator interface {
	Validate(token string) (session.Validation, error)
}

// SessionMiddleware rejects requests without a valid session cookie and puts
// the session's identity in the request context. When the validator re-issues
// the token, the fresh cookie is written before the handler runs.
func SessionMiddleware(validator SessionValidator, cookies session.Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := cookies.Read(r)
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Couldn't find cookie")
				return
			}

			v, err := validator.Validate(raw)
			if err != nil {
				cookies.Clear(w)
				if errors.Is(err, session.ErrExpired) {
					utils.WriteError(w, http.StatusUnauthorized, "Session expired")
					return
				}
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected session token")
				utils.WriteError(w, http.StatusUnauthorized, "Invalid session")
				return
			}

			data := utils.SessionData{
				Identity:  v.Identity,
				TokenID:   v.TokenID,
				ExpiresAt: v.ExpiresAt,
			}
			if v.Refreshed != nil {
				cookies.Set(w, *v.Refreshed)
				data.SupersededID = v.TokenID
				data.SupersededExpiresAt = v.ExpiresAt
				data.TokenID = v.Refreshed.ID
				data.ExpiresAt = v.Refreshed.ExpiresAt
			}

			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", v.Identity.ID)
			})

			next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), data)))
		})
	}
}
