package domain

import "time"

// Identity is the authenticated principal decoded from a verified token.
type Identity struct {
	UserID    string
	Email     string
	Roles     RoleSet
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
