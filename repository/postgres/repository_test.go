package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns timestamps", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(pgxmock.AnyArg(), "a@example.com", "hash", nil).
			WillReturnRows(mock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		user := &domain.User{Email: "a@example.com", PasswordHash: "hash"}
		require.NoError(t, NewUserRepository(mock).Create(ctx, user))
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, now, user.CreatedAt)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: codeUniqueViolation})

		err := NewUserRepository(mock).Create(ctx, &domain.User{Email: "a@example.com", PasswordHash: "hash"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock := newMock(t)
	mock.ExpectQuery(`FROM users`).
		WithArgs("a@example.com").
		WillReturnRows(mock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("u1", "a@example.com", "hash", now, now))
	mock.ExpectQuery(`FROM users`).
		WithArgs("b@example.com").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)
	user, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "hash", user.PasswordHash)

	_, err = repo.GetByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepositoryUpdatePasswordMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs("u1", "hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewUserRepository(mock).UpdatePassword(context.Background(), "u1", "hash")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTaskRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("assigns number", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO tasks`).
			WithArgs(pgxmock.AnyArg(), "school", "problem", "not_started", nil, nil, nil, nil, nil, nil, "u1").
			WillReturnRows(mock.NewRows([]string{"task_number", "created_at", "updated_at"}).AddRow(int64(7), now, now))

		task, err := NewTaskRepository(mock).Create(ctx, &domain.Task{
			Category:  domain.CategorySchool,
			Problem:   "problem",
			Status:    domain.StatusNotStarted,
			CreatedBy: "u1",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), task.TaskNumber)
		assert.NotNil(t, task.Causes)
	})

	t.Run("unknown creator", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

		_, err := NewTaskRepository(mock).Create(ctx, &domain.Task{CreatedBy: "ghost"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestTaskRepositoryUpdateMissing(t *testing.T) {
	mock := newMock(t)
	status := domain.StatusCompleted
	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs("t1", nil, nil, "completed", nil, nil, nil, nil, nil, nil).
		WillReturnError(pgx.ErrNoRows)

	err := NewTaskRepository(mock).Update(context.Background(), "t1", domain.TaskPatch{Status: &status})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepositoryDelete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM tasks`).WithArgs("t1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM tasks`).WithArgs("t2").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewTaskRepository(mock)
	deleted, err := repo.Delete(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "t2")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTaskRepositoryCreateCausesOnMissingTask(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO causes`).
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

	_, err := NewTaskRepository(mock).CreateCauses(context.Background(), "t1", []string{"c"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepositoryCount(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("school", "").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(3))

	total, err := NewTaskRepository(mock).Count(context.Background(), repository.TaskFilter{Category: domain.CategorySchool})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		name string
		sort repository.TaskSort
		want string
	}{
		{"default", repository.TaskSort{}, "task_number ASC"},
		{"number desc", repository.TaskSort{By: repository.SortByTaskNumber, Desc: true}, "task_number DESC"},
		{"deadline", repository.TaskSort{By: repository.SortByDeadline}, "deadline ASC, task_number ASC"},
		{"status desc", repository.TaskSort{By: repository.SortByStatus, Desc: true}, "status DESC, task_number ASC"},
		{"unknown column", repository.TaskSort{By: "created_by; DROP TABLE tasks"}, "task_number ASC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, orderClause(tc.sort))
		})
	}
}

func TestTagRepositoryLink(t *testing.T) {
	ctx := context.Background()

	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO task_tags`).WithArgs("t1", "g1").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO task_tags`).WithArgs("t1", "g1").WillReturnError(&pgconn.PgError{Code: codeUniqueViolation})
	mock.ExpectExec(`INSERT INTO task_tags`).WithArgs("t9", "g1").WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

	repo := NewTagRepository(mock)
	require.NoError(t, repo.Link(ctx, "t1", "g1"))
	assert.ErrorIs(t, repo.Link(ctx, "t1", "g1"), domain.ErrTagAlreadyLinked)
	assert.ErrorIs(t, repo.Link(ctx, "t9", "g1"), domain.ErrTaskNotFound)
}

func TestTagRepositorySearchEscapesWildcards(t *testing.T) {
	now := time.Now()
	mock := newMock(t)
	mock.ExpectQuery(`FROM tags WHERE name ILIKE`).
		WithArgs(`%100\%%`).
		WillReturnRows(mock.NewRows([]string{"id", "name", "created_at"}).AddRow("g1", "100% done", now))

	tags, err := NewTagRepository(mock).Search(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "100% done", tags[0].Name)
}

func TestCommentRepositoryList(t *testing.T) {
	now := time.Now()
	mock := newMock(t)
	mock.ExpectQuery(`FROM comments c`).
		WithArgs("t1").
		WillReturnRows(mock.NewRows([]string{"id", "task_id", "user_id", "email", "content", "created_at", "updated_at"}).
			AddRow("c2", "t1", "u1", "a@example.com", "second", now, now).
			AddRow("c1", "t1", "u1", "a@example.com", "first", now.Add(-time.Minute), now))

	comments, err := NewCommentRepository(mock).ListByTask(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "a@example.com", comments[0].UserName)
	assert.Equal(t, "second", comments[0].Content)
}

func TestCommentRepositoryUpdateMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE comments`).WithArgs("c1", "text").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewCommentRepository(mock).UpdateContent(context.Background(), "c1", "text")
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
}

func TestDashboardRepositoryMatrix(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`GROUP BY importance, urgency`).
		WillReturnRows(mock.NewRows([]string{"importance", "urgency", "count"}).
			AddRow("high", "high", 2).
			AddRow("low", "medium", 1))
	mock.ExpectQuery(`FILTER`).
		WillReturnRows(mock.NewRows([]string{"unset", "total"}).AddRow(4, 7))

	matrix, err := NewDashboardRepository(mock).Matrix(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, matrix.UnsetCount)
	assert.Equal(t, 7, matrix.TotalTasks)
	assert.Equal(t, []domain.MatrixCell{
		{Importance: domain.LevelHigh, Urgency: domain.LevelHigh, Count: 2},
		{Importance: domain.LevelLow, Urgency: domain.LevelMedium, Count: 1},
	}, matrix.Cells)
}

func TestDashboardRepositoryOverdueSkipsCompleted(t *testing.T) {
	dayStart := time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local)
	mock := newMock(t)
	mock.ExpectQuery(`WHERE deadline <`).
		WithArgs(dayStart, "completed").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(2))

	count, err := NewDashboardRepository(mock).OverdueCount(context.Background(), dayStart)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	ctx := context.Background()
	badID := &pgconn.PgError{Code: codeInvalidText, Message: `invalid input syntax for type uuid: "abc"`}
	status := domain.StatusCompleted

	t.Run("task get", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM tasks WHERE id`).WithArgs("abc").WillReturnError(badID)

		_, err := NewTaskRepository(mock).GetByID(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.Equal(t, domain.ErrCodeNotFound, domain.CodeOf(err))
	})

	t.Run("task update", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`UPDATE tasks`).WillReturnError(badID)

		err := NewTaskRepository(mock).Update(ctx, "abc", domain.TaskPatch{Status: &status})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("task delete", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`DELETE FROM tasks`).WithArgs("abc").WillReturnError(badID)

		deleted, err := NewTaskRepository(mock).Delete(ctx, "abc")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("task children", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO actions`).WillReturnError(badID)

		_, err := NewTaskRepository(mock).CreateActions(ctx, "abc", []string{"call"})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("comment get", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM comments c`).WithArgs("abc").WillReturnError(badID)

		_, err := NewCommentRepository(mock).GetByID(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	})

	t.Run("comment update", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE comments`).WillReturnError(badID)

		err := NewCommentRepository(mock).UpdateContent(ctx, "abc", "text")
		assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	})

	t.Run("comment create on malformed task", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO comments`).WillReturnError(badID)

		err := NewCommentRepository(mock).Create(ctx, &domain.Comment{TaskID: "abc", UserID: "u1", Content: "hi"})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("comment list", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM comments c`).WithArgs("abc").WillReturnError(badID)
		mock.ExpectQuery(`SELECT COUNT`).WithArgs("abc").WillReturnError(badID)

		repo := NewCommentRepository(mock)
		comments, err := repo.ListByTask(ctx, "abc")
		require.NoError(t, err)
		assert.Empty(t, comments)

		total, err := repo.CountByTask(ctx, "abc")
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("tag link and unlink", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`INSERT INTO task_tags`).WillReturnError(badID)
		mock.ExpectExec(`DELETE FROM task_tags`).WillReturnError(badID)
		mock.ExpectQuery(`FROM task_tags tt`).WillReturnError(badID)

		repo := NewTagRepository(mock)
		assert.ErrorIs(t, repo.Link(ctx, "abc", "g1"), domain.ErrTaskNotFound)
		assert.NoError(t, repo.Unlink(ctx, "abc", "xyz"))

		tags, err := repo.ForTask(ctx, "abc")
		require.NoError(t, err)
		assert.Empty(t, tags)
	})

	t.Run("user", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM users`).WithArgs("abc").WillReturnError(badID)
		mock.ExpectExec(`UPDATE users SET password_hash`).WillReturnError(badID)

		repo := NewUserRepository(mock)
		_, err := repo.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.ErrorIs(t, repo.UpdatePassword(ctx, "abc", "hash"), domain.ErrUserNotFound)
	})
}
