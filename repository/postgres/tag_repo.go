package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

type tagRepository struct {
	db DB
}

func NewTagRepository(db DB) repository.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) All(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectTags(rows)
}

func (r *tagRepository) Search(ctx context.Context, query string) ([]domain.Tag, error) {
	const sql = `SELECT id, name, created_at FROM tags WHERE name ILIKE $1 ORDER BY name`
	rows, err := r.db.Query(ctx, sql, containsPattern(query))
	if err != nil {
		return nil, err
	}
	return collectTags(rows)
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	const query = `SELECT id, name, created_at FROM tags WHERE name = $1 LIMIT 1`
	var tag domain.Tag
	if err := r.db.QueryRow(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if tag == nil || tag.Name == "" {
		return domain.ErrInvalidPayload
	}
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	const query = `INSERT INTO tags (id, name) VALUES ($1, $2) RETURNING created_at`
	if err := r.db.QueryRow(ctx, query, tag.ID, tag.Name).Scan(&tag.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTagExists
		}
		return err
	}
	return nil
}

func (r *tagRepository) Link(ctx context.Context, taskID, tagID string) error {
	const query = `INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)`
	if _, err := r.db.Exec(ctx, query, taskID, tagID); err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrTagAlreadyLinked
		case isForeignKeyViolation(err), isMalformedID(err):
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *tagRepository) Unlink(ctx context.Context, taskID, tagID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1 AND tag_id = $2`, taskID, tagID)
	if isMalformedID(err) {
		return nil
	}
	return err
}

func (r *tagRepository) ForTask(ctx context.Context, taskID string) ([]domain.Tag, error) {
	const query = `
	SELECT t.id, t.name, t.created_at
	FROM task_tags tt
	JOIN tags t ON t.id = tt.tag_id
	WHERE tt.task_id = $1
	ORDER BY t.name
	`
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		if isMalformedID(err) {
			return []domain.Tag{}, nil
		}
		return nil, err
	}
	tags, err := collectTags(rows)
	if isMalformedID(err) {
		return []domain.Tag{}, nil
	}
	return tags, err
}

func collectTags(rows pgx.Rows) ([]domain.Tag, error) {
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
