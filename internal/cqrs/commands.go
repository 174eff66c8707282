package cqrs

type SignUpCommand struct {
	Email    string
	Password string
	Nickname string
	MBTI     string
}

type LoginCommand struct {
	Email    string
	Password string
}

type LogoutCommand struct {
	UserID string
}

type ResignTokenCommand struct {
	AccessToken  string
	RefreshToken string
}

type UpdateUserCommand struct {
	UserID   string
	Nickname string
	MBTI     string
	Password string
}

type DeleteUserCommand struct {
	UserID string
}
