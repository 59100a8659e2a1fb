package domain

import "time"

type Comment struct {
	ID          int64
	ObjectiveID int64
	CreatedAt   time.Time
	Content     string
}
