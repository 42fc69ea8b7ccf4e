package repository

import (
	"context"

	"github.com/fastygo/careflow/domain"
)

type TagRepository interface {
	All(ctx context.Context) ([]domain.Tag, error)
	// Search matches query as a case-insensitive substring of tag names.
	Search(ctx context.Context, query string) ([]domain.Tag, error)
	// GetByName is an exact, case-sensitive lookup.
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	Create(ctx context.Context, tag *domain.Tag) error
	// Link returns domain.ErrTagAlreadyLinked when the pair already exists.
	Link(ctx context.Context, taskID, tagID string) error
	Unlink(ctx context.Context, taskID, tagID string) error
	ForTask(ctx context.Context, taskID string) ([]domain.Tag, error)
}
