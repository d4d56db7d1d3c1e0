package auth

import (
	"context"
	"errors"

	"github.com/nikhilsahu/tasklist-api/internal/models"
)

// ErrUnauthenticated covers every identity failure: missing token,
// invalid or expired token, and tokens whose subject no longer exists.
// Callers cannot tell the causes apart.
var ErrUnauthenticated = errors.New("could not validate credentials")

// ErrUsernameTaken is returned by UserStore.CreateUser when the
// username is already registered.
var ErrUsernameTaken = errors.New("username already exists")

// UserStore defines the interface for user persistence. Lookups return
// (nil, nil) when no such user exists; a non-nil error means the store
// itself failed.
type UserStore interface {
	CreateUser(ctx context.Context, username, hashedPw string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Resolver turns bearer tokens into authenticated principals.
type Resolver struct {
	tokens *TokenService
	users  UserStore
}

func NewResolver(tokens *TokenService, users UserStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve validates the token and loads the principal it names. A token
// whose user has since been deleted fails here, which is what makes
// deleting a user invalidate their outstanding tokens.
func (r *Resolver) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}
	subject, err := r.tokens.Validate(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := r.users.GetUserByUsername(ctx, subject)
	if err != nil || user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
