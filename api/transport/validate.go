package transport

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
)

// ToTaskInput validates a create request. Category, problem and status are required.
func ToTaskInput(req TaskRequest) (domain.TaskInput, error) {
	var input domain.TaskInput

	if req.Category == nil || !domain.Category(*req.Category).Valid() {
		return input, domain.Invalid("category must be a valid category")
	}
	input.Category = domain.Category(*req.Category)

	if req.Problem == nil {
		return input, domain.Invalid("problem must be a non-empty string")
	}
	problem, err := validProblem(*req.Problem)
	if err != nil {
		return input, err
	}
	input.Problem = problem

	if req.Status == nil || !domain.Status(*req.Status).Valid() {
		return input, domain.Invalid("status must be a valid status")
	}
	input.Status = domain.Status(*req.Status)

	if input.Deadline, err = validDeadline(req.Deadline); err != nil {
		return input, err
	}
	input.RelatedBusiness = deref(req.RelatedBusiness)
	input.BusinessContent = deref(req.BusinessContent)
	input.Organization = deref(req.Organization)

	if req.Importance != nil {
		if input.Importance, err = validLevel("importance", *req.Importance); err != nil {
			return input, err
		}
	}
	if req.Urgency != nil {
		if input.Urgency, err = validLevel("urgency", *req.Urgency); err != nil {
			return input, err
		}
	}

	if causes, ok, err := listItems(req.Causes, "causes"); err != nil {
		return input, err
	} else if ok {
		if input.Causes, err = causeTexts(causes); err != nil {
			return input, err
		}
	}
	if actions, ok, err := listItems(req.Actions, "actions"); err != nil {
		return input, err
	} else if ok {
		if input.Actions, err = actionTexts(actions); err != nil {
			return input, err
		}
	}
	if assignees, ok, err := listItems(req.Assignees, "assignees"); err != nil {
		return input, err
	} else if ok {
		if input.Assignees, err = assigneeInputs(assignees); err != nil {
			return input, err
		}
	}
	return input, nil
}

// ToTaskPatch validates an update request. Every field is optional; supplied
// collections replace the stored ones.
func ToTaskPatch(req TaskRequest) (domain.TaskPatch, error) {
	var patch domain.TaskPatch

	if req.Category != nil {
		category := domain.Category(*req.Category)
		if !category.Valid() {
			return patch, domain.Invalid("category must be a valid category")
		}
		patch.Category = &category
	}
	if req.Problem != nil {
		problem, err := validProblem(*req.Problem)
		if err != nil {
			return patch, err
		}
		patch.Problem = &problem
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.Valid() {
			return patch, domain.Invalid("status must be a valid status")
		}
		patch.Status = &status
	}

	deadline, err := validDeadline(req.Deadline)
	if err != nil {
		return patch, err
	}
	patch.Deadline = deadline
	patch.RelatedBusiness = req.RelatedBusiness
	patch.BusinessContent = req.BusinessContent
	patch.Organization = req.Organization

	if req.Importance != nil {
		level, err := validLevel("importance", *req.Importance)
		if err != nil {
			return patch, err
		}
		patch.Importance = &level
	}
	if req.Urgency != nil {
		level, err := validLevel("urgency", *req.Urgency)
		if err != nil {
			return patch, err
		}
		patch.Urgency = &level
	}

	if items, ok, err := listItems(req.Causes, "causes"); err != nil {
		return patch, err
	} else if ok {
		causes, err := causeTexts(items)
		if err != nil {
			return patch, err
		}
		patch.Causes = &causes
	}
	if items, ok, err := listItems(req.Actions, "actions"); err != nil {
		return patch, err
	} else if ok {
		actions, err := actionTexts(items)
		if err != nil {
			return patch, err
		}
		patch.Actions = &actions
	}
	if items, ok, err := listItems(req.Assignees, "assignees"); err != nil {
		return patch, err
	} else if ok {
		assignees, err := assigneeInputs(items)
		if err != nil {
			return patch, err
		}
		patch.Assignees = &assignees
	}
	return patch, nil
}

// TaskListParams is the parsed query string of the task list endpoint.
type TaskListParams struct {
	Filter repository.TaskFilter
	Sort   repository.TaskSort
	Page   repository.Page
}

// ParseTaskList reads list parameters through get. Enumerated parameters are
// validated; limit and offset silently fall back to their defaults.
func ParseTaskList(get func(key string) string) (TaskListParams, error) {
	var params TaskListParams

	if v := get("category"); v != "" {
		if !domain.Category(v).Valid() {
			return params, domain.Invalid("category must be a valid category")
		}
		params.Filter.Category = domain.Category(v)
	}
	if v := get("status"); v != "" {
		if !domain.Status(v).Valid() {
			return params, domain.Invalid("status must be a valid status")
		}
		params.Filter.Status = domain.Status(v)
	}
	params.Filter.Assignee = get("assignee")

	switch v := get("sortBy"); v {
	case "":
	case repository.SortByTaskNumber, repository.SortByDeadline, repository.SortByStatus, repository.SortByCategory:
		params.Sort.By = v
	default:
		return params, domain.Invalid("sortBy must be one of taskNumber, deadline, status, category")
	}
	switch get("sortOrder") {
	case "", "asc":
	case "desc":
		params.Sort.Desc = true
	default:
		return params, domain.Invalid("sortOrder must be asc or desc")
	}

	params.Page = repository.Page{
		Limit:  atoiOr(get("limit"), repository.DefaultTaskLimit),
		Offset: atoiOr(get("offset"), 0),
	}.Normalize()
	return params, nil
}

// ParseLimit reads a positive limit capped at max, falling back to def.
func ParseLimit(raw string, def, max int) int {
	n := atoiOr(raw, def)
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// listItems returns the items of a collection field and whether it was sent.
// An explicit null is rejected.
func listItems[T any](l List[T], field string) ([]T, bool, error) {
	if !l.Present {
		return nil, false, nil
	}
	if l.Null {
		return nil, false, domain.Invalid(field + " must be an array")
	}
	return l.Items, true, nil
}

func validProblem(problem string) (string, error) {
	if strings.TrimSpace(problem) == "" {
		return "", domain.Invalid("problem must be a non-empty string")
	}
	if utf8.RuneCountInString(problem) > domain.MaxProblemLength {
		return "", domain.Invalid(fmt.Sprintf("problem must be at most %d characters", domain.MaxProblemLength))
	}
	return problem, nil
}

func validDeadline(raw *string) (*domain.Date, error) {
	if raw == nil {
		return nil, nil
	}
	d, ok := domain.ParseDate(*raw)
	if !ok {
		return nil, domain.Invalid("deadline must be a YYYY-MM-DD date")
	}
	return &d, nil
}

func validLevel(field, raw string) (domain.Level, error) {
	level := domain.Level(raw)
	if !level.Valid() {
		return "", domain.Invalid(field + " must be one of high, medium, low")
	}
	return level, nil
}

func causeTexts(items []CauseRequest) ([]string, error) {
	texts := make([]string, 0, len(items))
	for i, item := range items {
		if item.Cause == nil || strings.TrimSpace(*item.Cause) == "" {
			return nil, domain.Invalid(fmt.Sprintf("causes[%d].cause must be a non-empty string", i))
		}
		texts = append(texts, *item.Cause)
	}
	return texts, nil
}

func actionTexts(items []ActionRequest) ([]string, error) {
	texts := make([]string, 0, len(items))
	for i, item := range items {
		if item.Action == nil || strings.TrimSpace(*item.Action) == "" {
			return nil, domain.Invalid(fmt.Sprintf("actions[%d].action must be a non-empty string", i))
		}
		texts = append(texts, *item.Action)
	}
	return texts, nil
}

func assigneeInputs(items []AssigneeRequest) ([]domain.AssigneeInput, error) {
	inputs := make([]domain.AssigneeInput, 0, len(items))
	for i, item := range items {
		if item.Name == nil || strings.TrimSpace(*item.Name) == "" {
			return nil, domain.Invalid(fmt.Sprintf("assignees[%d].name must be a non-empty string", i))
		}
		inputs = append(inputs, domain.AssigneeInput{Name: *item.Name, Organization: deref(item.Organization)})
	}
	return inputs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func atoiOr(raw string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return v
	}
	return fallback
}
