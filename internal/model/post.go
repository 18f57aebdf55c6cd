package model

import "time"

type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostUpdate carries the mutable post fields; nil means leave unchanged.
type PostUpdate struct {
	Title   *string
	Content *string
}
