package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilsahu/tasklist-api/internal/auth"
	"github.com/nikhilsahu/tasklist-api/internal/models"
	"github.com/nikhilsahu/tasklist-api/internal/tasks"
)

// PostgresStore handles user and task CRUD against PostgreSQL. Each
// call checks a connection out of the pool and returns it on every exit
// path; mutating operations commit exactly once.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users and tasks tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id       BIGSERIAL    PRIMARY KEY,
			username VARCHAR(256) UNIQUE NOT NULL,
			password VARCHAR(256) NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id      BIGSERIAL    PRIMARY KEY,
			task    VARCHAR(512) NOT NULL,
			user_id BIGINT       NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)
	`)
	return err
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password)
		 VALUES ($1, $2)
		 RETURNING id, username`,
		username, hashedPassword,
	).Scan(&u.ID, &u.Username)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, auth.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// DeleteUser removes a user and all their tasks in one transaction.
// The tasks FK also cascades at the schema level; deleting explicitly
// keeps the integrity guarantee even if the constraint is relaxed.
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete user tasks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) InsertTask(ctx context.Context, userID int64, text string) (*models.Task, error) {
	var t models.Task
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (task, user_id)
		 VALUES ($1, $2)
		 RETURNING id, task, user_id`,
		text, userID,
	).Scan(&t.ID, &t.Task, &t.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTasksByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, task, user_id FROM tasks WHERE user_id = $1 ORDER BY id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var list []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Task, &t.UserID); err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	err := s.pool.QueryRow(ctx,
		`SELECT id, task, user_id FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.Task, &t.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tasks.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) UpdateTaskText(ctx context.Context, id int64, text string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET task = $1 WHERE id = $2`, text, id,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}
	return nil
}
