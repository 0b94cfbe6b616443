// Package todos serves the signed-in user's todo list.
package todos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/store"
	"github.com/EmpoweredVote/EV-Todo/internal/utils"
)

type Handler struct {
	todos store.TodoStore
	now   func() time.Time
}

func NewHandler(todos store.TodoStore, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{todos: todos, now: now}
}

type CreateRequest struct {
	Content string `json:"content"`
}

type CreateResponse struct {
	Message string       `json:"message"`
	Todo    *models.Todo `json:"todo"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Couldn't find session")
		return
	}

	filter, ok := models.ParseTodoFilter(r.URL.Query().Get("filter"))
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "filter must be one of all, pending, important")
		return
	}

	todos, err := h.todos.List(r.Context(), userID, filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, todos)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Couldn't find session")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.WriteError(w, http.StatusBadRequest, "Content is required")
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create todo")
		return
	}

	todo := &models.Todo{
		TodoID:    id.String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: h.now().UTC(),
	}
	if err := h.todos.Create(r.Context(), todo); err != nil {
		writeStoreError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, CreateResponse{Message: "OK", Todo: todo})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Couldn't find session")
		return
	}

	var patch models.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if patch.Empty() {
		utils.WriteError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	todo, err := h.todos.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, todo)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Couldn't find session")
		return
	}

	if err := h.todos.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Todo not found")
	case errors.Is(err, store.ErrUnavailable):
		hlog.FromRequest(r).Error().Err(err).Msg("todo store unavailable")
		utils.WriteError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("todo store failure")
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
