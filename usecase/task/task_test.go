package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
	"github.com/fastygo/careflow/repository/memory"
)

type failingActions struct {
	repository.TaskRepository
}

func (failingActions) CreateActions(context.Context, string, []string) ([]domain.Action, error) {
	return nil, errors.New("insert failed")
}

func newStore(t *testing.T) (*memory.Store, string) {
	t.Helper()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore().WithClock(func() time.Time {
		current = current.Add(time.Second)
		return current
	})
	user := &domain.User{Email: "staff@example.com", PasswordHash: "hash"}
	require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), user))
	return store, user.ID
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	store, userID := newStore(t)
	repo := memory.NewTaskRepository(store)
	uc := New(repo, nil, nil)

	created, err := uc.CreateTask(ctx, userID, domain.TaskInput{
		Category:  "system",
		Problem:   "E2Eテスト課題",
		Status:    domain.StatusNotStarted,
		Causes:    []string{"cause one"},
		Actions:   []string{"action one"},
		Assignees: []domain.AssigneeInput{{Name: "Sato", Organization: "Center"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.TaskNumber)
	assert.Len(t, created.Causes, 1)
	assert.Len(t, created.Assignees, 1)

	list, err := uc.ListTasks(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, created.ID, list.Tasks[0].ID)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, repository.DefaultTaskLimit, list.Limit)

	fetched, err := uc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "E2Eテスト課題", fetched.Problem)
	assert.Equal(t, domain.Category("system"), fetched.Category)

	completed := domain.StatusCompleted
	updated, err := uc.UpdateTask(ctx, userID, created.ID, domain.TaskPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Len(t, updated.Causes, 1, "omitted collections are untouched")

	require.NoError(t, uc.DeleteTask(ctx, userID, created.ID))
	_, err = uc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	total, err := repo.Count(ctx, repository.TaskFilter{Assignee: "Sato"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateReplacesCollections(t *testing.T) {
	ctx := context.Background()
	store, userID := newStore(t)
	uc := New(memory.NewTaskRepository(store), nil, nil)

	created, err := uc.CreateTask(ctx, userID, domain.TaskInput{
		Category: domain.CategoryWelfare,
		Problem:  "problem",
		Status:   domain.StatusNotStarted,
		Causes:   []string{"old 1", "old 2", "old 3"},
		Actions:  []string{"keep"},
	})
	require.NoError(t, err)

	causes := []string{"new 1", "new 2"}
	empty := []string{}
	updated, err := uc.UpdateTask(ctx, userID, created.ID, domain.TaskPatch{Causes: &causes, Actions: &empty})
	require.NoError(t, err)

	require.Len(t, updated.Causes, 2)
	assert.Equal(t, "new 1", updated.Causes[0].Cause)
	assert.Equal(t, "new 2", updated.Causes[1].Cause)
	assert.Empty(t, updated.Actions)
	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt, "collection-only updates leave the row untouched")
}

func TestUpdateMissingTask(t *testing.T) {
	store, userID := newStore(t)
	uc := New(memory.NewTaskRepository(store), nil, nil)

	status := domain.StatusCompleted
	_, err := uc.UpdateTask(context.Background(), userID, "missing", domain.TaskPatch{Status: &status})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteMissingTask(t *testing.T) {
	store, userID := newStore(t)
	uc := New(memory.NewTaskRepository(store), nil, nil)

	err := uc.DeleteTask(context.Background(), userID, "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCreateLeavesParentOnChildFailure(t *testing.T) {
	ctx := context.Background()
	store, userID := newStore(t)
	repo := memory.NewTaskRepository(store)
	uc := New(failingActions{repo}, nil, nil)

	_, err := uc.CreateTask(ctx, userID, domain.TaskInput{
		Category: domain.CategoryOther,
		Problem:  "problem",
		Status:   domain.StatusNotStarted,
		Causes:   []string{"c"},
		Actions:  []string{"a"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))

	total, err := repo.Count(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestListNormalizesPage(t *testing.T) {
	store, _ := newStore(t)
	uc := New(memory.NewTaskRepository(store), nil, nil)

	list, err := uc.ListTasks(context.Background(), ListQuery{Page: repository.Page{Limit: 5000, Offset: -3}})
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultTaskLimit, list.Limit)
	assert.Zero(t, list.Offset)
	assert.NotNil(t, list.Tasks)
}
