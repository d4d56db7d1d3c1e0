package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilsahu/tasklist-api/internal/middleware"
	"github.com/nikhilsahu/tasklist-api/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds task HTTP handlers.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// principal returns the authenticated user injected by RequireAuth.
// All task routes sit behind that middleware, so a missing principal is
// a wiring bug; answer 401 anyway rather than panic.
func principal(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"could not validate credentials"}`, http.StatusUnauthorized)
	}
	return user, ok
}

// taskID parses the {id} route parameter.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeServiceError maps service errors onto HTTP responses. Ownership
// violations answer 401, matching the original API (the service keeps
// them distinct from not-found, so remapping to 403 is a local change).
func writeServiceError(w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("task with id %d not found", id),
		})
	case errors.Is(err, ErrNotOwner):
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "the user doesn't have access to this task",
		})
	default:
		log.Printf("task store error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
	}
}

// List returns all tasks of the current user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), user)
	if err != nil {
		log.Printf("list tasks error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Task{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Create adds a task owned by the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Task == "" {
		http.Error(w, `{"error":"task is required"}`, http.StatusBadRequest)
		return
	}

	task, err := h.service.Create(r.Context(), user, req.Task)
	if err != nil {
		log.Printf("create task error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Get returns a single task of the current user.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), id, user)
	if err != nil {
		writeServiceError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update replaces the text of a task of the current user.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Task == "" {
		http.Error(w, `{"error":"task is required"}`, http.StatusBadRequest)
		return
	}

	task, err := h.service.Update(r.Context(), id, user, req.Task)
	if err != nil {
		writeServiceError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete removes a task of the current user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	msg, err := h.service.Delete(r.Context(), id, user)
	if err != nil {
		writeServiceError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
