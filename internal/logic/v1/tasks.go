package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/okorotenko/tasklist/internal/core/domain"
	"github.com/okorotenko/tasklist/middleware"
)

// TaskService implements task business rules.
type TaskService struct {
	tasks domain.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// ListTasks returns the user's tasks ordered by id.
func (s *TaskService) ListTasks(ctx context.Context, userID int) ([]domain.TaskOut, error) {
	ctx, span := middleware.StartSpan(ctx, "tasks.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("user.id", userID),
	))
	defer span.End()

	rows, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	out := make([]domain.TaskOut, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TaskOut{ID: row.ID, Title: row.Title, IsDone: row.IsDone})
	}

	span.SetAttributes(attribute.Int("tasks.count", len(out)))
	return out, nil
}
