package memory

import (
	"cmp"
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

type taskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	task, ok := r.store.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	r.store.attachChildrenLocked(&task)
	return &task, nil
}

func (r *taskRepository) List(_ context.Context, filter repository.TaskFilter, sort repository.TaskSort, page repository.Page) ([]domain.Task, error) {
	page = page.Normalize()

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tasks := r.store.filteredTasksLocked(filter)
	sortTasks(tasks, sort)

	if page.Offset >= len(tasks) {
		tasks = []domain.Task{}
	} else {
		end := page.Offset + page.Limit
		if end > len(tasks) {
			end = len(tasks)
		}
		tasks = tasks[page.Offset:end]
	}

	if filter.Assignee != "" {
		tasks = repository.KeepTasks(tasks, repository.AssigneeTaskIDs(r.store.assignees, filter.Assignee))
	}

	for i := range tasks {
		r.store.attachChildrenLocked(&tasks[i])
	}
	return tasks, nil
}

func (r *taskRepository) Count(_ context.Context, filter repository.TaskFilter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tasks := r.store.filteredTasksLocked(filter)
	if filter.Assignee == "" {
		return len(tasks), nil
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return repository.CountIDs(ids, repository.AssigneeTaskIDs(r.store.assignees, filter.Assignee)), nil
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[task.CreatedBy]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	r.store.taskSeq++
	now := r.store.now()
	task.TaskNumber = r.store.taskSeq
	task.CreatedAt = now
	task.UpdatedAt = now

	row := *task
	row.Causes, row.Actions, row.Assignees = nil, nil, nil
	r.store.tasks[task.ID] = row

	task.EnsureCollections()
	return task, nil
}

func (r *taskRepository) Update(_ context.Context, id string, patch domain.TaskPatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	task, ok := r.store.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}

	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Problem != nil {
		task.Problem = *patch.Problem
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Deadline != nil {
		deadline := *patch.Deadline
		task.Deadline = &deadline
	}
	if patch.RelatedBusiness != nil {
		task.RelatedBusiness = *patch.RelatedBusiness
	}
	if patch.BusinessContent != nil {
		task.BusinessContent = *patch.BusinessContent
	}
	if patch.Organization != nil {
		task.Organization = *patch.Organization
	}
	if patch.Importance != nil {
		task.Importance = *patch.Importance
	}
	if patch.Urgency != nil {
		task.Urgency = *patch.Urgency
	}
	task.UpdatedAt = r.store.now()

	r.store.tasks[id] = task
	return nil
}

func (r *taskRepository) Delete(_ context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[id]; !ok {
		return false, nil
	}
	r.store.deleteTaskLocked(id)
	return true, nil
}

func (r *taskRepository) CreateCauses(_ context.Context, taskID string, causes []string) ([]domain.Cause, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[taskID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	created := make([]domain.Cause, 0, len(causes))
	for _, text := range causes {
		c := domain.Cause{ID: uuid.NewString(), TaskID: taskID, Cause: text, CreatedAt: r.store.now()}
		r.store.causes = append(r.store.causes, c)
		created = append(created, c)
	}
	return created, nil
}

func (r *taskRepository) CreateActions(_ context.Context, taskID string, actions []string) ([]domain.Action, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[taskID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	created := make([]domain.Action, 0, len(actions))
	for _, text := range actions {
		a := domain.Action{ID: uuid.NewString(), TaskID: taskID, Action: text, CreatedAt: r.store.now()}
		r.store.actions = append(r.store.actions, a)
		created = append(created, a)
	}
	return created, nil
}

func (r *taskRepository) CreateAssignees(_ context.Context, taskID string, assignees []domain.AssigneeInput) ([]domain.Assignee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[taskID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	created := make([]domain.Assignee, 0, len(assignees))
	for _, in := range assignees {
		a := domain.Assignee{
			ID:           uuid.NewString(),
			TaskID:       taskID,
			Name:         in.Name,
			Organization: in.Organization,
			CreatedAt:    r.store.now(),
		}
		r.store.assignees = append(r.store.assignees, a)
		created = append(created, a)
	}
	return created, nil
}

func (r *taskRepository) DeleteCauses(_ context.Context, taskID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.causes = filterSlice(r.store.causes, func(c domain.Cause) bool { return c.TaskID != taskID })
	return nil
}

func (r *taskRepository) DeleteActions(_ context.Context, taskID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.actions = filterSlice(r.store.actions, func(a domain.Action) bool { return a.TaskID != taskID })
	return nil
}

func (r *taskRepository) DeleteAssignees(_ context.Context, taskID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.assignees = filterSlice(r.store.assignees, func(a domain.Assignee) bool { return a.TaskID != taskID })
	return nil
}

// filteredTasksLocked returns category/status matches in task number order.
func (s *Store) filteredTasksLocked(filter repository.TaskFilter) []domain.Task {
	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].TaskNumber < tasks[j].TaskNumber })
	return tasks
}

func (s *Store) attachChildrenLocked(task *domain.Task) {
	task.Causes = []domain.Cause{}
	for _, c := range s.causes {
		if c.TaskID == task.ID {
			task.Causes = append(task.Causes, c)
		}
	}
	task.Actions = []domain.Action{}
	for _, a := range s.actions {
		if a.TaskID == task.ID {
			task.Actions = append(task.Actions, a)
		}
	}
	task.Assignees = []domain.Assignee{}
	for _, a := range s.assignees {
		if a.TaskID == task.ID {
			task.Assignees = append(task.Assignees, a)
		}
	}
}

// sortTasks orders tasks the way the SQL ORDER BY does: NULL deadlines sort
// last ascending and first descending, ties fall back to task number.
func sortTasks(tasks []domain.Task, by repository.TaskSort) {
	compare := func(a, b domain.Task) int {
		switch by.By {
		case repository.SortByDeadline:
			return compareDeadline(a, b)
		case repository.SortByStatus:
			return cmp.Compare(string(a.Status), string(b.Status))
		case repository.SortByCategory:
			return cmp.Compare(string(a.Category), string(b.Category))
		}
		return cmp.Compare(a.TaskNumber, b.TaskNumber)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		c := compare(tasks[i], tasks[j])
		if by.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return tasks[i].TaskNumber < tasks[j].TaskNumber
	})
}

func compareDeadline(a, b domain.Task) int {
	switch {
	case a.Deadline == nil && b.Deadline == nil:
		return 0
	case a.Deadline == nil:
		return 1
	case b.Deadline == nil:
		return -1
	case a.Deadline.Before(b.Deadline.Time):
		return -1
	case a.Deadline.After(b.Deadline.Time):
		return 1
	}
	return 0
}
