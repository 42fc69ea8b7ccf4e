package domain

import "time"

// Tag is a free-form label shared across tasks. Names are unique as stored.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
