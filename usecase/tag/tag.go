package tag

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
	"github.com/fastygo/careflow/usecase"
)

type UseCase struct {
	tags     repository.TagRepository
	tasks    repository.TaskRepository
	activity usecase.ActivityRecorder
	logger   *zap.Logger
}

func New(tags repository.TagRepository, tasks repository.TaskRepository, activity usecase.ActivityRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tags:     tags,
		tasks:    tasks,
		activity: activity,
		logger:   logger,
	}
}

// GetOrCreate returns the tag named exactly name, creating it when absent.
func (uc *UseCase) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	existing, err := uc.tags.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrTagNotFound) {
		return nil, err
	}

	created := &domain.Tag{Name: name}
	if err := uc.tags.Create(ctx, created); err != nil {
		// Lost a race with a concurrent insert of the same name.
		if errors.Is(err, domain.ErrTagExists) {
			return uc.tags.GetByName(ctx, name)
		}
		return nil, err
	}
	return created, nil
}

// AddToTask attaches the named tag to a task. Attaching a tag twice is not an
// error and returns the existing tag.
func (uc *UseCase) AddToTask(ctx context.Context, actorID, taskID, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("tag name is required")
	}
	if _, err := uc.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	tag, err := uc.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := uc.tags.Link(ctx, taskID, tag.ID); err != nil {
		if errors.Is(err, domain.ErrTagAlreadyLinked) {
			return tag, nil
		}
		return nil, err
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityTag, domain.ActionLink, tag.ID, actorID)
	return tag, nil
}

func (uc *UseCase) RemoveFromTask(ctx context.Context, actorID, taskID, tagID string) error {
	if err := uc.tags.Unlink(ctx, taskID, tagID); err != nil {
		return err
	}
	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityTag, domain.ActionUnlink, tagID, actorID)
	return nil
}

// Search matches query case-insensitively; a blank query lists every tag.
func (uc *UseCase) Search(ctx context.Context, query string) ([]domain.Tag, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.tags.All(ctx)
	}
	return uc.tags.Search(ctx, query)
}

func (uc *UseCase) TaskTags(ctx context.Context, taskID string) ([]domain.Tag, error) {
	if _, err := uc.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return uc.tags.ForTask(ctx, taskID)
}
