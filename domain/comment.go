package domain

import "time"

// MaxCommentLength bounds comment content, counted in characters after trimming.
const MaxCommentLength = 10000

// Comment is a note left on a task. UserName carries the author's email,
// which doubles as the display name.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
