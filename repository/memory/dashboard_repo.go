package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

type dashboardRepository struct {
	store *Store
}

func NewDashboardRepository(store *Store) repository.DashboardRepository {
	return &dashboardRepository{store: store}
}

func (r *dashboardRepository) CategoryStats(_ context.Context) ([]domain.CategoryStat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[domain.Category]int)
	for _, t := range r.store.tasks {
		counts[t.Category]++
	}
	stats := make([]domain.CategoryStat, 0, len(counts))
	for category, count := range counts {
		stats = append(stats, domain.CategoryStat{Category: category, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats, nil
}

func (r *dashboardRepository) StatusStats(_ context.Context) ([]domain.StatusStat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[domain.Status]int)
	for _, t := range r.store.tasks {
		counts[t.Status]++
	}
	stats := make([]domain.StatusStat, 0, len(counts))
	for status, count := range counts {
		stats = append(stats, domain.StatusStat{Status: status, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Status < stats[j].Status })
	return stats, nil
}

func (r *dashboardRepository) OverdueCount(_ context.Context, dayStart time.Time) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, t := range r.store.tasks {
		if t.Deadline != nil && t.Deadline.Before(dayStart) && !t.IsCompleted() {
			count++
		}
	}
	return count, nil
}

func (r *dashboardRepository) RecentTasks(_ context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 5
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tasks := r.store.filteredTasksLocked(repository.TaskFilter{})
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt) })
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	for i := range tasks {
		r.store.attachChildrenLocked(&tasks[i])
	}
	return tasks, nil
}

func (r *dashboardRepository) Matrix(_ context.Context) (*domain.Matrix, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	type cellKey struct{ importance, urgency domain.Level }
	counts := make(map[cellKey]int)
	matrix := &domain.Matrix{Cells: []domain.MatrixCell{}, TotalTasks: len(r.store.tasks)}
	for _, t := range r.store.tasks {
		if t.Importance == "" || t.Urgency == "" {
			matrix.UnsetCount++
			continue
		}
		counts[cellKey{t.Importance, t.Urgency}]++
	}
	for key, count := range counts {
		matrix.Cells = append(matrix.Cells, domain.MatrixCell{Importance: key.importance, Urgency: key.urgency, Count: count})
	}
	sort.Slice(matrix.Cells, func(i, j int) bool {
		a, b := matrix.Cells[i], matrix.Cells[j]
		if a.Importance != b.Importance {
			return a.Importance < b.Importance
		}
		return a.Urgency < b.Urgency
	})
	return matrix, nil
}
