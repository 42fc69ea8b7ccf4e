package domain

import "time"

// Category classifies the life area a task belongs to.
type Category string

const (
	CategoryTransition Category = "transition"
	CategoryRespite    Category = "respite"
	CategoryWelfare    Category = "welfare"
	CategoryNursery    Category = "nursery"
	CategorySchool     Category = "school"
	CategoryHomeLife   Category = "home_life"
	CategoryOther      Category = "other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryTransition,
	CategoryRespite,
	CategoryWelfare,
	CategoryNursery,
	CategorySchool,
	CategoryHomeLife,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status tracks the progress of a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Level grades importance and urgency for the dashboard matrix.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

var Levels = []Level{LevelHigh, LevelMedium, LevelLow}

func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// MaxProblemLength bounds the problem statement, counted in characters.
const MaxProblemLength = 500

// Task is a problem record together with its causes, actions and assignees.
type Task struct {
	ID              string     `json:"id"`
	TaskNumber      int64      `json:"taskNumber"`
	Category        Category   `json:"category"`
	Problem         string     `json:"problem"`
	Status          Status     `json:"status"`
	Deadline        *Date      `json:"deadline,omitempty"`
	RelatedBusiness string     `json:"relatedBusiness,omitempty"`
	BusinessContent string     `json:"businessContent,omitempty"`
	Organization    string     `json:"organization,omitempty"`
	Importance      Level      `json:"importance,omitempty"`
	Urgency         Level      `json:"urgency,omitempty"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Causes          []Cause    `json:"causes"`
	Actions         []Action   `json:"actions"`
	Assignees       []Assignee `json:"assignees"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// EnsureCollections replaces nil child slices so they serialize as [].
func (t *Task) EnsureCollections() {
	if t == nil {
		return
	}
	if t.Causes == nil {
		t.Causes = []Cause{}
	}
	if t.Actions == nil {
		t.Actions = []Action{}
	}
	if t.Assignees == nil {
		t.Assignees = []Assignee{}
	}
}

type Cause struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Cause     string    `json:"cause"`
	CreatedAt time.Time `json:"createdAt"`
}

type Action struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

type Assignee struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"taskId"`
	Name         string    `json:"name"`
	Organization string    `json:"organization,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AssigneeInput is an assignee as supplied by a client, before persistence.
type AssigneeInput struct {
	Name         string
	Organization string
}

// TaskInput carries validated fields for a new task.
type TaskInput struct {
	Category        Category
	Problem         string
	Status          Status
	Deadline        *Date
	RelatedBusiness string
	BusinessContent string
	Organization    string
	Importance      Level
	Urgency         Level
	Causes          []string
	Actions         []string
	Assignees       []AssigneeInput
}

// TaskPatch describes a partial update. Nil fields are left unchanged; a
// non-nil collection replaces every existing child of that kind.
type TaskPatch struct {
	Category        *Category
	Problem         *string
	Status          *Status
	Deadline        *Date
	RelatedBusiness *string
	BusinessContent *string
	Organization    *string
	Importance      *Level
	Urgency         *Level

	Causes    *[]string
	Actions   *[]string
	Assignees *[]AssigneeInput
}

// TouchesRow reports whether the patch changes any column of the task row itself.
func (p TaskPatch) TouchesRow() bool {
	return p.Category != nil || p.Problem != nil || p.Status != nil || p.Deadline != nil ||
		p.RelatedBusiness != nil || p.BusinessContent != nil || p.Organization != nil ||
		p.Importance != nil || p.Urgency != nil
}
