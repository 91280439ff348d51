package domain

import (
	"context"
	"time"
)

// TaskRow represents a task record returned from the database.
type TaskRow struct {
	ID        int
	UserID    int
	Title     string
	IsDone    bool
	CreatedAt time.Time
}

// TaskRepository defines the data-access contract for task operations.
type TaskRepository interface {
	// ListByUser returns the user's tasks ordered by id.
	ListByUser(ctx context.Context, userID int) ([]TaskRow, error)
}
