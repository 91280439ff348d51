package repository

import (
	"context"
	"fmt"

	"github.com/okorotenko/tasklist/internal/core/domain"
)

// PgxTaskRepository implements domain.TaskRepository using pgx.
type PgxTaskRepository struct {
	db DB
}

// NewTaskRepository creates a new PgxTaskRepository.
func NewTaskRepository(db DB) *PgxTaskRepository {
	return &PgxTaskRepository{db: db}
}

// ListByUser returns the user's tasks ordered by id.
func (r *PgxTaskRepository) ListByUser(ctx context.Context, userID int) ([]domain.TaskRow, error) {
	query := `
		SELECT id, user_id, title, is_done, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.TaskRow
	for rows.Next() {
		var row domain.TaskRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Title, &row.IsDone, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}
