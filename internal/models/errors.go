package models

import "errors"

// Expected business-rule failures. Handlers map these to specific
// 4xx responses; anything else becomes a generic 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already exists")
	ErrNicknameTaken      = errors.New("nickname already exists")
	ErrNothingToUpdate    = errors.New("nothing to update")
)
