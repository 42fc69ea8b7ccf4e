package repository

import (
	"context"
	"time"

	"github.com/fastygo/careflow/domain"
)

type DashboardRepository interface {
	CategoryStats(ctx context.Context) ([]domain.CategoryStat, error)
	StatusStats(ctx context.Context) ([]domain.StatusStat, error)
	// OverdueCount counts unfinished tasks whose deadline is before dayStart.
	OverdueCount(ctx context.Context, dayStart time.Time) (int, error)
	RecentTasks(ctx context.Context, limit int) ([]domain.Task, error)
	Matrix(ctx context.Context) (*domain.Matrix, error)
}
