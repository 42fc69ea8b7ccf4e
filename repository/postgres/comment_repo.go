package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

type commentRepository struct {
	db DB
}

func NewCommentRepository(db DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	const query = `
	SELECT c.id, c.task_id, c.user_id, u.email, c.content, c.created_at, c.updated_at
	FROM comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.task_id = $1
	ORDER BY c.created_at DESC
	`
	comments := []domain.Comment{}
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		if isMalformedID(err) {
			return comments, nil
		}
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil && !isMalformedID(err) {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByTask(ctx context.Context, taskID string) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE task_id = $1`, taskID).Scan(&total); err != nil {
		if isMalformedID(err) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `
	SELECT c.id, c.task_id, c.user_id, u.email, c.content, c.created_at, c.updated_at
	FROM comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.id = $1
	`
	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrCommentNotFound)
	}
	return comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if comment == nil {
		return domain.ErrInvalidPayload
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}

	const query = `
	WITH inserted AS (
		INSERT INTO comments (id, task_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, task_id, user_id, content, created_at, updated_at
	)
	SELECT i.id, i.task_id, i.user_id, u.email, i.content, i.created_at, i.updated_at
	FROM inserted i
	JOIN users u ON u.id = i.user_id
	`

	created, err := scanComment(r.db.QueryRow(ctx, query, comment.ID, comment.TaskID, comment.UserID, comment.Content))
	if err != nil {
		if isForeignKeyViolation(err) || isMalformedID(err) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	*comment = *created
	return nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) error {
	const query = `UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, content)
	if err != nil {
		return notFound(err, domain.ErrCommentNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if isMalformedID(err) {
		return nil
	}
	return err
}

func scanComment(row scanner) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}
