package models

// Task represents a row in the PostgreSQL tasks table. Every task
// belongs to exactly one user, fixed at creation.
type Task struct {
	ID     int64  `json:"id"`
	Task   string `json:"task"`
	UserID int64  `json:"-"`
}

// TaskRequest is the JSON body for POST /task and PUT /task/{id}.
type TaskRequest struct {
	Task string `json:"task"`
}
