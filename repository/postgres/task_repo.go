package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

const taskColumns = `id, task_number, category, problem, status, deadline, related_business,
	business_content, organization, importance, urgency, created_by, created_at, updated_at`

type taskRepository struct {
	db DB
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(db DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := loadChildren(ctx, r.db, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter, sort repository.TaskSort, page repository.Page) ([]domain.Task, error) {
	page = page.Normalize()
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR category = $1)
	  AND ($2 = '' OR status = $2)
	ORDER BY ` + orderClause(sort) + `
	LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, string(filter.Category), string(filter.Status), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}

	// The assignee filter runs after the page window, so a page may come back short.
	if filter.Assignee != "" {
		assignees, err := r.allAssignees(ctx)
		if err != nil {
			return nil, err
		}
		tasks = repository.KeepTasks(tasks, repository.AssigneeTaskIDs(assignees, filter.Assignee))
	}

	for i := range tasks {
		if err := loadChildren(ctx, r.db, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *taskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	if filter.Assignee == "" {
		const query = `
		SELECT COUNT(*)
		FROM tasks
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR status = $2)
		`
		var total int
		if err := r.db.QueryRow(ctx, query, string(filter.Category), string(filter.Status)).Scan(&total); err != nil {
			return 0, err
		}
		return total, nil
	}

	const idsQuery = `
	SELECT id
	FROM tasks
	WHERE ($1 = '' OR category = $1)
	  AND ($2 = '' OR status = $2)
	`
	rows, err := r.db.Query(ctx, idsQuery, string(filter.Category), string(filter.Status))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	assignees, err := r.allAssignees(ctx)
	if err != nil {
		return 0, err
	}
	return repository.CountIDs(ids, repository.AssigneeTaskIDs(assignees, filter.Assignee)), nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, category, problem, status, deadline, related_business,
		business_content, organization, importance, urgency, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING task_number, created_at, updated_at
	`

	if err := r.db.QueryRow(ctx, query,
		task.ID,
		string(task.Category),
		task.Problem,
		string(task.Status),
		nullDate(task.Deadline),
		nullString(task.RelatedBusiness),
		nullString(task.BusinessContent),
		nullString(task.Organization),
		nullString(string(task.Importance)),
		nullString(string(task.Urgency)),
		task.CreatedBy,
	).Scan(&task.TaskNumber, &task.CreatedAt, &task.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) || isMalformedID(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	task.EnsureCollections()
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	const query = `
	UPDATE tasks
	SET category = COALESCE($2, category),
		problem = COALESCE($3, problem),
		status = COALESCE($4, status),
		deadline = COALESCE($5, deadline),
		related_business = COALESCE($6, related_business),
		business_content = COALESCE($7, business_content),
		organization = COALESCE($8, organization),
		importance = COALESCE($9, importance),
		urgency = COALESCE($10, urgency),
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	var updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		optString(patch.Category),
		optString(patch.Problem),
		optString(patch.Status),
		nullDate(patch.Deadline),
		optString(patch.RelatedBusiness),
		optString(patch.BusinessContent),
		optString(patch.Organization),
		optString(patch.Importance),
		optString(patch.Urgency),
	).Scan(&updatedAt); err != nil {
		return notFound(err, domain.ErrTaskNotFound)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if isMalformedID(err) {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *taskRepository) CreateCauses(ctx context.Context, taskID string, causes []string) ([]domain.Cause, error) {
	const query = `INSERT INTO causes (id, task_id, cause) VALUES ($1, $2, $3) RETURNING created_at`

	created := make([]domain.Cause, 0, len(causes))
	for _, text := range causes {
		c := domain.Cause{ID: uuid.NewString(), TaskID: taskID, Cause: text}
		if err := r.db.QueryRow(ctx, query, c.ID, taskID, text).Scan(&c.CreatedAt); err != nil {
			return nil, childInsertError(err)
		}
		created = append(created, c)
	}
	return created, nil
}

func (r *taskRepository) CreateActions(ctx context.Context, taskID string, actions []string) ([]domain.Action, error) {
	const query = `INSERT INTO actions (id, task_id, action) VALUES ($1, $2, $3) RETURNING created_at`

	created := make([]domain.Action, 0, len(actions))
	for _, text := range actions {
		a := domain.Action{ID: uuid.NewString(), TaskID: taskID, Action: text}
		if err := r.db.QueryRow(ctx, query, a.ID, taskID, text).Scan(&a.CreatedAt); err != nil {
			return nil, childInsertError(err)
		}
		created = append(created, a)
	}
	return created, nil
}

func (r *taskRepository) CreateAssignees(ctx context.Context, taskID string, assignees []domain.AssigneeInput) ([]domain.Assignee, error) {
	const query = `INSERT INTO assignees (id, task_id, name, organization) VALUES ($1, $2, $3, $4) RETURNING created_at`

	created := make([]domain.Assignee, 0, len(assignees))
	for _, in := range assignees {
		a := domain.Assignee{ID: uuid.NewString(), TaskID: taskID, Name: in.Name, Organization: in.Organization}
		if err := r.db.QueryRow(ctx, query, a.ID, taskID, in.Name, nullString(in.Organization)).Scan(&a.CreatedAt); err != nil {
			return nil, childInsertError(err)
		}
		created = append(created, a)
	}
	return created, nil
}

func (r *taskRepository) DeleteCauses(ctx context.Context, taskID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM causes WHERE task_id = $1`, taskID)
	return err
}

func (r *taskRepository) DeleteActions(ctx context.Context, taskID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM actions WHERE task_id = $1`, taskID)
	return err
}

func (r *taskRepository) DeleteAssignees(ctx context.Context, taskID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM assignees WHERE task_id = $1`, taskID)
	return err
}

func (r *taskRepository) allAssignees(ctx context.Context) ([]domain.Assignee, error) {
	const query = `SELECT id, task_id, name, organization, created_at FROM assignees`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectAssignees(rows)
}

var sortColumns = map[string]string{
	repository.SortByTaskNumber: "task_number",
	repository.SortByDeadline:   "deadline",
	repository.SortByStatus:     "status",
	repository.SortByCategory:   "category",
}

// orderClause only ever emits whitelisted column names.
func orderClause(sort repository.TaskSort) string {
	column, ok := sortColumns[sort.By]
	if !ok {
		column = "task_number"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	if column == "task_number" {
		return fmt.Sprintf("task_number %s", direction)
	}
	return fmt.Sprintf("%s %s, task_number ASC", column, direction)
}

func childInsertError(err error) error {
	if isForeignKeyViolation(err) || isMalformedID(err) {
		return domain.ErrTaskNotFound
	}
	return err
}

// loadChildren fetches causes, actions and assignees concurrently. The three
// reads are independent queries and do not share a snapshot.
func loadChildren(ctx context.Context, db DB, task *domain.Task) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := db.Query(gctx, `SELECT id, task_id, cause, created_at FROM causes WHERE task_id = $1 ORDER BY created_at, id`, task.ID)
		if err != nil {
			return err
		}
		task.Causes, err = collectCauses(rows)
		return err
	})
	g.Go(func() error {
		rows, err := db.Query(gctx, `SELECT id, task_id, action, created_at FROM actions WHERE task_id = $1 ORDER BY created_at, id`, task.ID)
		if err != nil {
			return err
		}
		task.Actions, err = collectActions(rows)
		return err
	})
	g.Go(func() error {
		rows, err := db.Query(gctx, `SELECT id, task_id, name, organization, created_at FROM assignees WHERE task_id = $1 ORDER BY created_at, id`, task.ID)
		if err != nil {
			return err
		}
		task.Assignees, err = collectAssignees(rows)
		return err
	})

	return g.Wait()
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func collectCauses(rows pgx.Rows) ([]domain.Cause, error) {
	defer rows.Close()

	causes := []domain.Cause{}
	for rows.Next() {
		var c domain.Cause
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Cause, &c.CreatedAt); err != nil {
			return nil, err
		}
		causes = append(causes, c)
	}
	return causes, rows.Err()
}

func collectActions(rows pgx.Rows) ([]domain.Action, error) {
	defer rows.Close()

	actions := []domain.Action{}
	for rows.Next() {
		var a domain.Action
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Action, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func collectAssignees(rows pgx.Rows) ([]domain.Assignee, error) {
	defer rows.Close()

	assignees := []domain.Assignee{}
	for rows.Next() {
		var (
			a   domain.Assignee
			org *string
		)
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Name, &org, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Organization = derefString(org)
		assignees = append(assignees, a)
	}
	return assignees, rows.Err()
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var (
		category, status               string
		deadline                       *time.Time
		related, content, organization *string
		importance, urgency            *string
	)

	if err := row.Scan(
		&task.ID,
		&task.TaskNumber,
		&category,
		&task.Problem,
		&status,
		&deadline,
		&related,
		&content,
		&organization,
		&importance,
		&urgency,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, notFound(err, domain.ErrTaskNotFound)
	}

	task.Category = domain.Category(category)
	task.Status = domain.Status(status)
	if deadline != nil {
		task.Deadline = &domain.Date{Time: *deadline}
	}
	task.RelatedBusiness = derefString(related)
	task.BusinessContent = derefString(content)
	task.Organization = derefString(organization)
	task.Importance = domain.Level(derefString(importance))
	task.Urgency = domain.Level(derefString(urgency))
	task.EnsureCollections()

	return &task, nil
}
