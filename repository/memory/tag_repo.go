package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

type tagRepository struct {
	store *Store
}

func NewTagRepository(store *Store) repository.TagRepository {
	return &tagRepository{store: store}
}

func (r *tagRepository) All(_ context.Context) ([]domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tags := make([]domain.Tag, 0, len(r.store.tags))
	for _, tag := range r.store.tags {
		tags = append(tags, tag)
	}
	sortTags(tags)
	return tags, nil
}

func (r *tagRepository) Search(_ context.Context, query string) ([]domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	needle := strings.ToLower(query)
	tags := []domain.Tag{}
	for _, tag := range r.store.tags {
		if strings.Contains(strings.ToLower(tag.Name), needle) {
			tags = append(tags, tag)
		}
	}
	sortTags(tags)
	return tags, nil
}

func (r *tagRepository) GetByName(_ context.Context, name string) (*domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, tag := range r.store.tags {
		if tag.Name == name {
			t := tag
			return &t, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

func (r *tagRepository) Create(_ context.Context, tag *domain.Tag) error {
	if tag == nil || tag.Name == "" {
		return domain.ErrInvalidPayload
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.tags {
		if existing.Name == tag.Name {
			return domain.ErrTagExists
		}
	}
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}
	tag.CreatedAt = r.store.now()
	r.store.tags[tag.ID] = *tag
	return nil
}

func (r *tagRepository) Link(_ context.Context, taskID, tagID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[taskID]; !ok {
		return domain.ErrTaskNotFound
	}
	if _, ok := r.store.tags[tagID]; !ok {
		return domain.ErrTagNotFound
	}
	key := taskTagKey{taskID: taskID, tagID: tagID}
	if _, ok := r.store.taskTags[key]; ok {
		return domain.ErrTagAlreadyLinked
	}
	r.store.taskTags[key] = struct{}{}
	return nil
}

func (r *tagRepository) Unlink(_ context.Context, taskID, tagID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.taskTags, taskTagKey{taskID: taskID, tagID: tagID})
	return nil
}

func (r *tagRepository) ForTask(_ context.Context, taskID string) ([]domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tags := []domain.Tag{}
	for key := range r.store.taskTags {
		if key.taskID != taskID {
			continue
		}
		if tag, ok := r.store.tags[key.tagID]; ok {
			tags = append(tags, tag)
		}
	}
	sortTags(tags)
	return tags, nil
}

func sortTags(tags []domain.Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}
