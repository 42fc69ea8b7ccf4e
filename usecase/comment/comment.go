package comment

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
	"github.com/fastygo/careflow/usecase"
)

// ListResult is every comment of a task, newest first.
type ListResult struct {
	Comments []domain.Comment `json:"comments"`
	Total    int              `json:"total"`
}

type UseCase struct {
	comments repository.CommentRepository
	tasks    repository.TaskRepository
	activity usecase.ActivityRecorder
	logger   *zap.Logger
}

func New(comments repository.CommentRepository, tasks repository.TaskRepository, activity usecase.ActivityRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		comments: comments,
		tasks:    tasks,
		activity: activity,
		logger:   logger,
	}
}

func (uc *UseCase) List(ctx context.Context, taskID string) (*ListResult, error) {
	if _, err := uc.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	comments, err := uc.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	total, err := uc.comments.CountByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Comments: comments, Total: total}, nil
}

func (uc *UseCase) Create(ctx context.Context, taskID, authorID, content string) (*domain.Comment, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := uc.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	created := &domain.Comment{TaskID: taskID, UserID: authorID, Content: content}
	if err := uc.comments.Create(ctx, created); err != nil {
		return nil, err
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityComment, domain.ActionCreate, created.ID, authorID)
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, commentID, authorID, content string) (*domain.Comment, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := uc.authored(ctx, commentID, authorID); err != nil {
		return nil, err
	}
	if err := uc.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}

	updated, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityComment, domain.ActionUpdate, commentID, authorID)
	return updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, commentID, authorID string) error {
	if _, err := uc.authored(ctx, commentID, authorID); err != nil {
		return err
	}
	if err := uc.comments.Delete(ctx, commentID); err != nil {
		return err
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityComment, domain.ActionDelete, commentID, authorID)
	return nil
}

// authored loads the comment and checks that authorID wrote it.
func (uc *UseCase) authored(ctx context.Context, commentID, authorID string) (*domain.Comment, error) {
	c, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != authorID {
		return nil, domain.ErrNotCommentAuthor
	}
	return c, nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.Invalid("comment content is required")
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return "", domain.Invalid("comment content must be at most 10000 characters")
	}
	return content, nil
}
