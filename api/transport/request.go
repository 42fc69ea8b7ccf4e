package transport

import (
	"bytes"
	"encoding/json"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type CauseRequest struct {
	Cause *string `json:"cause"`
}

type ActionRequest struct {
	Action *string `json:"action"`
}

type AssigneeRequest struct {
	Name         *string `json:"name"`
	Organization *string `json:"organization"`
}

// TaskRequest is the body of task create and update calls. Pointer fields
// distinguish an omitted field from an empty one.
type TaskRequest struct {
	Category        *string               `json:"category"`
	Problem         *string               `json:"problem"`
	Status          *string               `json:"status"`
	Deadline        *string               `json:"deadline"`
	RelatedBusiness *string               `json:"relatedBusiness"`
	BusinessContent *string               `json:"businessContent"`
	Organization    *string               `json:"organization"`
	Importance      *string               `json:"importance"`
	Urgency         *string               `json:"urgency"`
	Causes          List[CauseRequest]    `json:"causes"`
	Actions         List[ActionRequest]   `json:"actions"`
	Assignees       List[AssigneeRequest] `json:"assignees"`
}

// List is a JSON array field that remembers whether it was sent and whether
// it was sent as null.
type List[T any] struct {
	Items   []T
	Present bool
	Null    bool
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	l.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		l.Null = true
		l.Items = nil
		return nil
	}
	l.Null = false
	return json.Unmarshal(data, &l.Items)
}

type TagRequest struct {
	Name string `json:"name"`
}

type CommentRequest struct {
	Content string `json:"content"`
}
