package cqrs

// GetUserQuery fetches a single user by ID. Ownership is checked at the
// handler before the query is dispatched.
type GetUserQuery struct {
	UserID string
}
