package postgres

import (
	"context"
	"time"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

type dashboardRepository struct {
	db DB
}

// NewDashboardRepository returns the read-only aggregation queries behind the dashboard.
func NewDashboardRepository(db DB) repository.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	rows, err := r.db.Query(ctx, `SELECT category, COUNT(*) FROM tasks GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.CategoryStat{}
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats = append(stats, domain.CategoryStat{Category: domain.Category(category), Count: count})
	}
	return stats, rows.Err()
}

func (r *dashboardRepository) StatusStats(ctx context.Context) ([]domain.StatusStat, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.StatusStat{}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats = append(stats, domain.StatusStat{Status: domain.Status(status), Count: count})
	}
	return stats, rows.Err()
}

func (r *dashboardRepository) OverdueCount(ctx context.Context, dayStart time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE deadline < $1 AND status <> $2`
	var count int
	if err := r.db.QueryRow(ctx, query, dayStart, string(domain.StatusCompleted)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *dashboardRepository) RecentTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY updated_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if err := loadChildren(ctx, r.db, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *dashboardRepository) Matrix(ctx context.Context) (*domain.Matrix, error) {
	const cellsQuery = `
	SELECT importance, urgency, COUNT(*)
	FROM tasks
	WHERE importance IS NOT NULL AND urgency IS NOT NULL
	GROUP BY importance, urgency
	ORDER BY importance, urgency
	`
	rows, err := r.db.Query(ctx, cellsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matrix := &domain.Matrix{Cells: []domain.MatrixCell{}}
	for rows.Next() {
		var (
			importance, urgency string
			count               int
		)
		if err := rows.Scan(&importance, &urgency, &count); err != nil {
			return nil, err
		}
		matrix.Cells = append(matrix.Cells, domain.MatrixCell{
			Importance: domain.Level(importance),
			Urgency:    domain.Level(urgency),
			Count:      count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const totalsQuery = `
	SELECT COUNT(*) FILTER (WHERE importance IS NULL OR urgency IS NULL), COUNT(*)
	FROM tasks
	`
	if err := r.db.QueryRow(ctx, totalsQuery).Scan(&matrix.UnsetCount, &matrix.TotalTasks); err != nil {
		return nil, err
	}
	return matrix, nil
}
