package repository

import (
	"context"

	"github.com/fastygo/careflow/domain"
)

const (
	DefaultTaskLimit = 20
	MaxTaskLimit     = 1000
)

// Sortable task fields as accepted by the list endpoint.
const (
	SortByTaskNumber = "taskNumber"
	SortByDeadline   = "deadline"
	SortByStatus     = "status"
	SortByCategory   = "category"
)

type TaskFilter struct {
	Category domain.Category
	Status   domain.Status
	// Assignee is matched as a case-sensitive substring of assignee names.
	Assignee string
}

type TaskSort struct {
	By   string
	Desc bool
}

type Page struct {
	Limit  int
	Offset int
}

// Normalize applies the default window for missing or out-of-range values.
func (p Page) Normalize() Page {
	if p.Limit <= 0 || p.Limit > MaxTaskLimit {
		p.Limit = DefaultTaskLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type TaskRepository interface {
	// GetByID returns the task aggregate including causes, actions and assignees.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter, sort TaskSort, page Page) ([]domain.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
	Delete(ctx context.Context, id string) (bool, error)

	CreateCauses(ctx context.Context, taskID string, causes []string) ([]domain.Cause, error)
	CreateActions(ctx context.Context, taskID string, actions []string) ([]domain.Action, error)
	CreateAssignees(ctx context.Context, taskID string, assignees []domain.AssigneeInput) ([]domain.Assignee, error)
	DeleteCauses(ctx context.Context, taskID string) error
	DeleteActions(ctx context.Context, taskID string) error
	DeleteAssignees(ctx context.Context, taskID string) error
}
