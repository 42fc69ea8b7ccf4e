// Package memory provides process-local repositories backed by a single
// mutex-guarded store. Relations between entities (cascading task deletes,
// unique emails and tag names, the task number sequence) behave the way the
// PostgreSQL schema enforces them.
package memory

import (
	"sync"
	"time"

	"github.com/fastygo/careflow/domain"
)

// Store holds every entity kept in memory. Repositories obtained from the same
// store see each other's writes.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users     map[string]domain.User
	tasks     map[string]domain.Task
	taskSeq   int64
	causes    []domain.Cause
	actions   []domain.Action
	assignees []domain.Assignee
	tags      map[string]domain.Tag
	taskTags  map[taskTagKey]struct{}
	comments  map[string]domain.Comment
	attempts  map[string]attempt
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[string]domain.User),
		tasks:    make(map[string]domain.Task),
		tags:     make(map[string]domain.Tag),
		taskTags: make(map[taskTagKey]struct{}),
		comments: make(map[string]domain.Comment),
		attempts: make(map[string]attempt),
	}
}

// WithClock replaces the time source, mainly for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
	return s
}

type taskTagKey struct {
	taskID string
	tagID  string
}

type attempt struct {
	count   int
	expires time.Time
}

// deleteTaskLocked removes a task and everything the schema cascades from it.
func (s *Store) deleteTaskLocked(id string) {
	delete(s.tasks, id)

	s.causes = filterSlice(s.causes, func(c domain.Cause) bool { return c.TaskID != id })
	s.actions = filterSlice(s.actions, func(a domain.Action) bool { return a.TaskID != id })
	s.assignees = filterSlice(s.assignees, func(a domain.Assignee) bool { return a.TaskID != id })

	for key := range s.taskTags {
		if key.taskID == id {
			delete(s.taskTags, key)
		}
	}
	for commentID, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, commentID)
		}
	}
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
