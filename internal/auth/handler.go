package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/nikhilsahu/tasklist-api/internal/middleware"
	"github.com/nikhilsahu/tasklist-api/internal/models"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenService
}

func NewHandler(users UserStore, tokens *TokenService) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// Signup creates a new user. The password is hashed before the store is
// touched, so a failed insert leaves no partial state behind.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, `{"error":"username and password are required"}`, http.StatusBadRequest)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, hashed)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			http.Error(w, `{"error":"username already exists"}`, http.StatusConflict)
			return
		}
		log.Printf("create user error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(fmt.Sprintf("Successfully created User %s with id %d.", user.Username, user.ID))
}

// Login authenticates a user from form fields and issues a bearer
// token. Unknown username and wrong password answer identically.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, `{"error":"invalid form body"}`, http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil || user == nil || !VerifyPassword(password, user.Password) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusBadRequest)
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		log.Printf("issue token error: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Index returns the currently authenticated user and the token that
// authenticated this request.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"could not validate credentials"}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"current_user": user.Username,
		"token":        middleware.TokenFrom(r.Context()),
	})
}
