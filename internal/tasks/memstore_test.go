package tasks_test

import (
	"context"
	"sync"

	"github.com/nikhilsahu/tasklist-api/internal/auth"
	"github.com/nikhilsahu/tasklist-api/internal/models"
	"github.com/nikhilsahu/tasklist-api/internal/tasks"
)

// memStore is an in-memory stand-in for the Postgres store. It
// implements both auth.UserStore and tasks.TaskStore.
type memStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	tasks   map[int64]*models.Task
	order   []int64
	nextUID int64
	nextTID int64
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*models.User),
		tasks: make(map[int64]*models.Task),
	}
}

func (s *memStore) CreateUser(_ context.Context, username, hashedPw string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return nil, auth.ErrUsernameTaken
	}
	s.nextUID++
	u := &models.User{ID: s.nextUID, Username: username, Password: hashedPw}
	s.users[username] = u
	return u, nil
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[username], nil
}

// DeleteUser removes the user and cascades to their tasks, mirroring
// the transactional delete in the Postgres store.
func (s *memStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, u := range s.users {
		if u.ID == id {
			delete(s.users, name)
		}
	}
	kept := s.order[:0]
	for _, tid := range s.order {
		if s.tasks[tid].UserID == id {
			delete(s.tasks, tid)
			continue
		}
		kept = append(kept, tid)
	}
	s.order = kept
	return nil
}

func (s *memStore) InsertTask(_ context.Context, userID int64, text string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTID++
	t := &models.Task{ID: s.nextTID, Task: text, UserID: userID}
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	return t, nil
}

func (s *memStore) ListTasksByUser(_ context.Context, userID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Task
	for _, id := range s.order {
		if t := s.tasks[id]; t.UserID == userID {
			list = append(list, *t)
		}
	}
	return list, nil
}

func (s *memStore) GetTaskByID(_ context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, tasks.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (s *memStore) UpdateTaskText(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return tasks.ErrTaskNotFound
	}
	t.Task = text
	return nil
}

func (s *memStore) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return tasks.ErrTaskNotFound
	}
	delete(s.tasks, id)
	for i, tid := range s.order {
		if tid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
