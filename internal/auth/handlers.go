package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/unicode/norm"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/session"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
	"github.com/EmpoweredVote/EV-Todo/internal/utils"
)

const MinPasswordLength = 6

type Handler struct {
	users    store.UserStore
	verifier *Verifier
	hasher   PasswordHasher
	sessions *session.Sessions
	cookies  session.Cookies

	revokeOnLogout  bool
	resolveIdentity bool
	now             func() time.Time
}

type HandlerConfig struct {
	Users    store.UserStore
	Hasher   PasswordHasher
	Sessions *session.Sessions
	Cookies  session.Cookies

	// RevokeOnLogout denylists the token id at logout in addition to
	// clearing the cookie.
	RevokeOnLogout bool
	// ResolveIdentity makes /me re-read the user instead of trusting the
	// claims embedded at issue time.
	ResolveIdentity bool
	Now             func() time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		users:           cfg.Users,
		verifier:        NewVerifier(cfg.Users, cfg.Hasher),
		hasher:          cfg.Hasher,
		sessions:        cfg.Sessions,
		cookies:         cfg.Cookies,
		revokeOnLogout:  cfg.RevokeOnLogout,
		resolveIdentity: cfg.ResolveIdentity,
		now:             now,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	models.Identity
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	email := strings.TrimSpace(req.Email)
	name := norm.NFC.String(strings.TrimSpace(req.Name))
	if name == "" || email == "" || req.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if len(req.Password) < MinPasswordLength {
		utils.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			utils.WriteError(w, http.StatusBadRequest, "Password must be at most 72 bytes")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("hashing password")
		utils.WriteError(w, http.StatusInternalServerError, "Server error hashing password")
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := &models.User{
		UserID:       id.String(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		CreatedAt:    h.now().UTC(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			utils.WriteError(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, store.ErrUnavailable):
			hlog.FromRequest(r).Error().Err(err).Msg("registering user")
			utils.WriteError(w, http.StatusServiceUnavailable, "service unavailable")
		default:
			hlog.FromRequest(r).Error().Err(err).Msg("registering user")
			utils.WriteError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", user.UserID).Msg("user registered")
	utils.WriteJSON(w, http.StatusCreated, user.Identity())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}

	tok, err := h.sessions.Issue(identity)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("issuing session")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.cookies.Set(w, tok)
	utils.WriteJSON(w, http.StatusOK, LoginResponse{Identity: identity, ExpiresAt: tok.ExpiresAt})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := utils.SessionFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Couldn't find session")
		return
	}

	if h.revokeOnLogout {
		h.sessions.Revoke(s.TokenID, s.ExpiresAt)
		h.sessions.Revoke(s.SupersededID, s.SupersededExpiresAt)
	}
	h.cookies.Clear(w)

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Couldn't find session")
		return
	}

	if h.resolveIdentity {
		user, err := h.users.FindByID(r.Context(), identity.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.cookies.Clear(w)
				utils.WriteError(w, http.StatusUnauthorized, "Invalid session")
				return
			}
			hlog.FromRequest(r).Error().Err(err).Msg("resolving identity")
			utils.WriteError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		identity = user.Identity()
	}

	utils.WriteJSON(w, http.StatusOK, identity)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsCredentialFailure(err):
		hlog.FromRequest(r).Debug().Err(err).Msg("login rejected")
		utils.WriteError(w, http.StatusUnauthorized, CredentialFailureMessage)
	case errors.Is(err, ErrInfrastructureUnavailable):
		utils.WriteError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("login failed")
		utils.WriteError(w, http.StatusInternalServerError, "login failed")
	}
}
