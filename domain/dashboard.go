package domain

import "math"

type CategoryStat struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

type StatusStat struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

type DashboardSummary struct {
	TotalTasks      int `json:"totalTasks"`
	CompletionRate  int `json:"completionRate"`
	InProgressCount int `json:"inProgressCount"`
	OverdueCount    int `json:"overdueCount"`
}

type DashboardStats struct {
	Summary       DashboardSummary `json:"summary"`
	CategoryStats []CategoryStat   `json:"categoryStats"`
	StatusStats   []StatusStat     `json:"statusStats"`
	RecentTasks   []Task           `json:"recentTasks"`
}

// MatrixCell counts tasks sharing one importance/urgency combination.
type MatrixCell struct {
	Importance Level `json:"importance"`
	Urgency    Level `json:"urgency"`
	Count      int   `json:"count"`
}

type Matrix struct {
	Cells      []MatrixCell `json:"matrix"`
	UnsetCount int          `json:"unsetCount"`
	TotalTasks int          `json:"totalTasks"`
}

// CompletionRate returns round(100*completed/total), or 0 for an empty board.
func CompletionRate(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// CountForStatus picks the count for status out of grouped stats.
func CountForStatus(stats []StatusStat, status Status) int {
	for _, s := range stats {
		if s.Status == status {
			return s.Count
		}
	}
	return 0
}
