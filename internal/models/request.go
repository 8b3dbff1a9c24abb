package models

import "time"

type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestorId"`
	Created     time.Time `json:"created"`
}

// RequestWithItems is a request together with the items offered against it.
type RequestWithItems struct {
	ItemRequest
	Items []Item `json:"items"`
}
