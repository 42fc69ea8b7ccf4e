package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
	"github.com/fastygo/careflow/usecase"
)

// ListQuery bundles the list endpoint parameters.
type ListQuery struct {
	Filter repository.TaskFilter
	Sort   repository.TaskSort
	Page   repository.Page
}

// ListResult is one page of tasks plus the unpaged total.
type ListResult struct {
	Tasks  []domain.Task `json:"tasks"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type UseCase struct {
	tasks    repository.TaskRepository
	activity usecase.ActivityRecorder
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, activity usecase.ActivityRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		activity: activity,
		logger:   logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, query ListQuery) (*ListResult, error) {
	page := query.Page.Normalize()

	tasks, err := uc.tasks.List(ctx, query.Filter, query.Sort, page)
	if err != nil {
		return nil, err
	}
	total, err := uc.tasks.Count(ctx, query.Filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Tasks: tasks, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// CreateTask persists the row and then each child collection. A child insert
// failure leaves the task row in place.
func (uc *UseCase) CreateTask(ctx context.Context, creatorID string, input domain.TaskInput) (*domain.Task, error) {
	task := &domain.Task{
		Category:        input.Category,
		Problem:         input.Problem,
		Status:          input.Status,
		Deadline:        input.Deadline,
		RelatedBusiness: input.RelatedBusiness,
		BusinessContent: input.BusinessContent,
		Organization:    input.Organization,
		Importance:      input.Importance,
		Urgency:         input.Urgency,
		CreatedBy:       creatorID,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	if len(input.Causes) > 0 {
		if created.Causes, err = uc.tasks.CreateCauses(ctx, created.ID, input.Causes); err != nil {
			return nil, uc.partialWrite(created.ID, "causes", err)
		}
	}
	if len(input.Actions) > 0 {
		if created.Actions, err = uc.tasks.CreateActions(ctx, created.ID, input.Actions); err != nil {
			return nil, uc.partialWrite(created.ID, "actions", err)
		}
	}
	if len(input.Assignees) > 0 {
		if created.Assignees, err = uc.tasks.CreateAssignees(ctx, created.ID, input.Assignees); err != nil {
			return nil, uc.partialWrite(created.ID, "assignees", err)
		}
	}
	created.EnsureCollections()

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityTask, domain.ActionCreate, created.ID, creatorID)
	return created, nil
}

// UpdateTask applies patch and fully replaces every child collection the
// patch supplies, even an empty one.
func (uc *UseCase) UpdateTask(ctx context.Context, actorID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if _, err := uc.tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.TouchesRow() {
		if err := uc.tasks.Update(ctx, id, patch); err != nil {
			return nil, err
		}
	}

	if patch.Causes != nil {
		if err := uc.tasks.DeleteCauses(ctx, id); err != nil {
			return nil, err
		}
		if len(*patch.Causes) > 0 {
			if _, err := uc.tasks.CreateCauses(ctx, id, *patch.Causes); err != nil {
				return nil, uc.partialWrite(id, "causes", err)
			}
		}
	}
	if patch.Actions != nil {
		if err := uc.tasks.DeleteActions(ctx, id); err != nil {
			return nil, err
		}
		if len(*patch.Actions) > 0 {
			if _, err := uc.tasks.CreateActions(ctx, id, *patch.Actions); err != nil {
				return nil, uc.partialWrite(id, "actions", err)
			}
		}
	}
	if patch.Assignees != nil {
		if err := uc.tasks.DeleteAssignees(ctx, id); err != nil {
			return nil, err
		}
		if len(*patch.Assignees) > 0 {
			if _, err := uc.tasks.CreateAssignees(ctx, id, *patch.Assignees); err != nil {
				return nil, uc.partialWrite(id, "assignees", err)
			}
		}
	}

	updated, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityTask, domain.ActionUpdate, id, actorID)
	return updated, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, actorID, id string) error {
	deleted, err := uc.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrTaskNotFound
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityTask, domain.ActionDelete, id, actorID)
	return nil
}

func (uc *UseCase) partialWrite(taskID, collection string, err error) error {
	uc.logger.Error("task child write failed",
		zap.String("task_id", taskID),
		zap.String("collection", collection),
		zap.Error(err),
	)
	return domain.WrapError(domain.ErrCodeInternal, "failed to save task "+collection, err)
}
