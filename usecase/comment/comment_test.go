package comment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository/memory"
)

type fixture struct {
	uc     *UseCase
	author string
	other  string
	taskID string
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore().WithClock(func() time.Time {
		current = current.Add(time.Second)
		return current
	})

	users := memory.NewUserRepository(store)
	author := &domain.User{Email: "author@example.com", PasswordHash: "hash"}
	other := &domain.User{Email: "other@example.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, author))
	require.NoError(t, users.Create(ctx, other))

	tasks := memory.NewTaskRepository(store)
	task, err := tasks.Create(ctx, &domain.Task{
		Category:  domain.CategoryOther,
		Problem:   "p",
		Status:    domain.StatusNotStarted,
		CreatedBy: author.ID,
	})
	require.NoError(t, err)

	return fixture{
		uc:     New(memory.NewCommentRepository(store), tasks, nil, nil),
		author: author.ID,
		other:  other.ID,
		taskID: task.ID,
	}
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.uc.Create(ctx, f.taskID, f.author, "  first  ")
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, f.taskID, f.other, "second")
	require.NoError(t, err)

	list, err := f.uc.List(ctx, f.taskID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Comments, 2)
	assert.Equal(t, "second", list.Comments[0].Content)
	assert.Equal(t, "other@example.com", list.Comments[0].UserName)
	assert.Equal(t, "first", list.Comments[1].Content)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.uc.Create(ctx, f.taskID, f.author, "   ")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = f.uc.Create(ctx, f.taskID, f.author, strings.Repeat("あ", domain.MaxCommentLength+1))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = f.uc.Create(ctx, f.taskID, f.author, strings.Repeat("あ", domain.MaxCommentLength))
	assert.NoError(t, err)

	_, err = f.uc.Create(ctx, "missing", f.author, "hello")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestOnlyAuthorMayModify(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.uc.Create(ctx, f.taskID, f.author, "draft")
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, created.ID, f.other, "hijack")
	assert.ErrorIs(t, err, domain.ErrNotCommentAuthor)
	assert.ErrorIs(t, f.uc.Delete(ctx, created.ID, f.other), domain.ErrNotCommentAuthor)

	updated, err := f.uc.Update(ctx, created.ID, f.author, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	require.NoError(t, f.uc.Delete(ctx, created.ID, f.author))
	_, err = f.uc.Update(ctx, created.ID, f.author, "again")
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)

	listed, err := f.uc.List(ctx, f.taskID)
	require.NoError(t, err)
	assert.Zero(t, listed.Total)
	assert.Empty(t, listed.Comments)
}
