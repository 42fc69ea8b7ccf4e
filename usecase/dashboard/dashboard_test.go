package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository/memory"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	user := &domain.User{Email: "staff@example.com", PasswordHash: "hash"}
	require.NoError(t, memory.NewUserRepository(store).Create(ctx, user))
	tasks := memory.NewTaskRepository(store)

	yesterday := domain.NewDate(2025, time.March, 9)
	today := domain.NewDate(2025, time.March, 10)
	seed := func(status domain.Status, deadline *domain.Date) {
		_, err := tasks.Create(ctx, &domain.Task{
			Category:  domain.CategorySchool,
			Problem:   "p",
			Status:    status,
			Deadline:  deadline,
			CreatedBy: user.ID,
		})
		require.NoError(t, err)
	}
	seed(domain.StatusCompleted, &yesterday)
	seed(domain.StatusInProgress, &yesterday)
	seed(domain.StatusInProgress, &today)

	uc := New(memory.NewDashboardRepository(store), tasks, nil)
	uc.now = func() time.Time { return time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC) }

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Summary.TotalTasks)
	assert.Equal(t, 33, stats.Summary.CompletionRate)
	assert.Equal(t, 2, stats.Summary.InProgressCount)
	assert.Equal(t, 1, stats.Summary.OverdueCount)
	assert.Len(t, stats.RecentTasks, 3)
	assert.Equal(t, []domain.CategoryStat{{Category: domain.CategorySchool, Count: 3}}, stats.CategoryStats)
}

func TestStatsEmptyBoard(t *testing.T) {
	store := memory.NewStore()
	uc := New(memory.NewDashboardRepository(store), memory.NewTaskRepository(store), nil)

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Summary.TotalTasks)
	assert.Zero(t, stats.Summary.CompletionRate)
	assert.Empty(t, stats.RecentTasks)
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	got := startOfDay(time.Date(2025, 3, 10, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), got)
}
