package models

import "time"

// User is the write model. DeletedAt implements the soft-delete lifecycle:
// rows are never physically removed, normal read paths filter on it.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Nickname     string     `json:"nickname"`
	MBTI         string     `json:"mbti"`
	CreatedAt    time.Time  `json:"createdTimestamp"`
	UpdatedAt    time.Time  `json:"updatedTimestamp"`
	DeletedAt    *time.Time `json:"-"`
}
