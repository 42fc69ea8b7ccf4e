package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

// RecentTaskCount is how many recently updated tasks the stats panel shows.
const RecentTaskCount = 5

type UseCase struct {
	stats  repository.DashboardRepository
	tasks  repository.TaskRepository
	now    func() time.Time
	logger *zap.Logger
}

func New(stats repository.DashboardRepository, tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stats:  stats,
		tasks:  tasks,
		now:    time.Now,
		logger: logger,
	}
}

// Stats runs every aggregate concurrently. The reads share no snapshot.
func (uc *UseCase) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		total      int
		categories []domain.CategoryStat
		statuses   []domain.StatusStat
		overdue    int
		recent     []domain.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = uc.tasks.Count(gctx, repository.TaskFilter{})
		return err
	})
	g.Go(func() (err error) {
		categories, err = uc.stats.CategoryStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = uc.stats.StatusStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = uc.stats.OverdueCount(gctx, startOfDay(uc.now()))
		return err
	})
	g.Go(func() (err error) {
		recent, err = uc.stats.RecentTasks(gctx, RecentTaskCount)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.logger.Error("dashboard stats failed", zap.Error(err))
		return nil, err
	}

	completed := domain.CountForStatus(statuses, domain.StatusCompleted)
	return &domain.DashboardStats{
		Summary: domain.DashboardSummary{
			TotalTasks:      total,
			CompletionRate:  domain.CompletionRate(completed, total),
			InProgressCount: domain.CountForStatus(statuses, domain.StatusInProgress),
			OverdueCount:    overdue,
		},
		CategoryStats: categories,
		StatusStats:   statuses,
		RecentTasks:   recent,
	}, nil
}

func (uc *UseCase) Matrix(ctx context.Context) (*domain.Matrix, error) {
	return uc.stats.Matrix(ctx)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
