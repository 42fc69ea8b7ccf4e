package domain

import "time"

const (
	EntityTask    = "task"
	EntityComment = "comment"
	EntityTag     = "tag"
	EntityUser    = "user"

	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionLink     = "link"
	ActionUnlink   = "unlink"
	ActionPassword = "password"
)

// Activity is one entry of the local mutation journal.
type Activity struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	SubjectID string    `json:"subjectId"`
	ActorID   string    `json:"actorId,omitempty"`
	At        time.Time `json:"at"`
}
