package models

import "time"

type Comment struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	AuthorID int64     `json:"authorId"`
	ItemID   int64     `json:"itemId"`
	Created  time.Time `json:"created"`
}

// CommentView is a comment as shown on an item page.
type CommentView struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
	ItemID     int64     `json:"-"`
}
