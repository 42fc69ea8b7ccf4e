package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

type commentRepository struct {
	store *Store
}

func NewCommentRepository(store *Store) repository.CommentRepository {
	return &commentRepository{store: store}
}

func (r *commentRepository) ListByTask(_ context.Context, taskID string) ([]domain.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	comments := []domain.Comment{}
	for _, c := range r.store.comments {
		if c.TaskID == taskID {
			comments = append(comments, r.store.withAuthorLocked(c))
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *commentRepository) CountByTask(_ context.Context, taskID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := 0
	for _, c := range r.store.comments {
		if c.TaskID == taskID {
			total++
		}
	}
	return total, nil
}

func (r *commentRepository) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	c = r.store.withAuthorLocked(c)
	return &c, nil
}

func (r *commentRepository) Create(_ context.Context, comment *domain.Comment) error {
	if comment == nil {
		return domain.ErrInvalidPayload
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[comment.TaskID]; !ok {
		return domain.ErrTaskNotFound
	}
	if _, ok := r.store.users[comment.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := r.store.now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.UserName = ""
	r.store.comments[comment.ID] = *comment

	*comment = r.store.withAuthorLocked(*comment)
	return nil
}

func (r *commentRepository) UpdateContent(_ context.Context, id, content string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = r.store.now()
	r.store.comments[id] = c
	return nil
}

func (r *commentRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.comments, id)
	return nil
}

func (s *Store) withAuthorLocked(c domain.Comment) domain.Comment {
	if user, ok := s.users[c.UserID]; ok {
		c.UserName = user.Email
	}
	return c
}
