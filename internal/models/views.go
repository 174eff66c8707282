package models

import "time"

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash and is the shape cached in Redis.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	MBTI      string    `json:"mbti"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// ToView projects the write model onto its read shape.
func (u *User) ToView() *UserView {
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		MBTI:      u.MBTI,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
