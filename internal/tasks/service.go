package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikhilsahu/tasklist-api/internal/models"
)

var (
	// ErrTaskNotFound is returned when no task with the given id exists.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotOwner is returned when the task exists but belongs to a
	// different user.
	ErrNotOwner = errors.New("task belongs to another user")
)

// TaskStore defines the interface for task persistence. GetTaskByID
// returns ErrTaskNotFound for a missing id regardless of owner.
type TaskStore interface {
	InsertTask(ctx context.Context, userID int64, text string) (*models.Task, error)
	ListTasksByUser(ctx context.Context, userID int64) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)
	UpdateTaskText(ctx context.Context, id int64, text string) error
	DeleteTask(ctx context.Context, id int64) error
}

// Service implements the access-controlled task operations. Every call
// acts on behalf of a principal; existence is checked before ownership,
// so a missing id and someone else's id fail with different errors.
type Service struct {
	store TaskStore
}

func NewService(store TaskStore) *Service {
	return &Service{store: store}
}

// List returns the principal's tasks in insertion order.
func (s *Service) List(ctx context.Context, principal *models.User) ([]models.Task, error) {
	return s.store.ListTasksByUser(ctx, principal.ID)
}

// Create adds a new task owned by the principal.
func (s *Service) Create(ctx context.Context, principal *models.User, text string) (*models.Task, error) {
	return s.store.InsertTask(ctx, principal.ID, text)
}

// owned loads the task and enforces ownership, in that order.
func (s *Service) owned(ctx context.Context, id int64, principal *models.User) (*models.Task, error) {
	task, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != principal.ID {
		return nil, ErrNotOwner
	}
	return task, nil
}

// Get returns the task if it exists and the principal owns it.
func (s *Service) Get(ctx context.Context, id int64, principal *models.User) (*models.Task, error) {
	return s.owned(ctx, id, principal)
}

// Update replaces the task text and returns the updated task.
func (s *Service) Update(ctx context.Context, id int64, principal *models.User, text string) (*models.Task, error) {
	task, err := s.owned(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateTaskText(ctx, id, text); err != nil {
		return nil, err
	}
	task.Task = text
	return task, nil
}

// Delete removes the task permanently and returns a confirmation
// message rather than the deleted task.
func (s *Service) Delete(ctx context.Context, id int64, principal *models.User) (string, error) {
	if _, err := s.owned(ctx, id, principal); err != nil {
		return "", err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Task %d deleted successfully!", id), nil
}
