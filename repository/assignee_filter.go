package repository

import (
	"strings"

	"github.com/fastygo/careflow/domain"
)

// AssigneeTaskIDs collects ids of tasks having at least one assignee whose
// name contains needle. Matching happens in memory over the full assignee set.
func AssigneeTaskIDs(assignees []domain.Assignee, needle string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, a := range assignees {
		if strings.Contains(a.Name, needle) {
			ids[a.TaskID] = struct{}{}
		}
	}
	return ids
}

// KeepTasks returns the tasks whose id is in ids, preserving order.
func KeepTasks(tasks []domain.Task, ids map[string]struct{}) []domain.Task {
	kept := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := ids[t.ID]; ok {
			kept = append(kept, t)
		}
	}
	return kept
}

// CountIDs counts how many of candidates are present in ids.
func CountIDs(candidates []string, ids map[string]struct{}) int {
	n := 0
	for _, id := range candidates {
		if _, ok := ids[id]; ok {
			n++
		}
	}
	return n
}
