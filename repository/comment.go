package repository

import (
	"context"

	"github.com/fastygo/careflow/domain"
)

type CommentRepository interface {
	// ListByTask returns comments newest first, with the author's email as UserName.
	ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error)
	CountByTask(ctx context.Context, taskID string) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) error
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}
